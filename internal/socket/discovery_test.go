package socket

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/pkg/types"
)

func TestSameSubnetHandlesPartialByteMask(t *testing.T) {
	// /30 ends mid-byte: only the top 6 bits of the last octet are part of
	// the network prefix. A naive comparison of the unmasked low bits would
	// wrongly reject .5 as a different subnet from .4.
	b := Binding{
		InterfaceIP:   net.IPv4(192, 168, 1, 4),
		InterfaceMask: net.CIDRMask(30, 32),
	}
	require.True(t, b.sameSubnet(net.IPv4(192, 168, 1, 5)))
	require.True(t, b.sameSubnet(net.IPv4(192, 168, 1, 6)))
	require.False(t, b.sameSubnet(net.IPv4(192, 168, 1, 8)))
}

func TestBindFreePortFindsFirstFree(t *testing.T) {
	held, port, err := bindFreePort(net.IPv4(127, 0, 0, 1), 20000, 20010)
	require.NoError(t, err)
	defer held.Close()
	require.Equal(t, uint16(20000), port)

	second, port2, err := bindFreePort(net.IPv4(127, 0, 0, 1), 20000, 20010)
	require.NoError(t, err)
	defer second.Close()
	require.NotEqual(t, port, port2)
}

func TestBindFreePortExhausted(t *testing.T) {
	held, _, err := bindFreePort(net.IPv4(127, 0, 0, 1), 20100, 20100)
	require.NoError(t, err)
	defer held.Close()

	_, _, err = bindFreePort(net.IPv4(127, 0, 0, 1), 20100, 20100)
	require.ErrorIs(t, err, ErrNoFreePort)
}

func TestBindTableAndSocketForTarget(t *testing.T) {
	cfg := clustercfg.DefaultConfig()
	cfg.DynamicPortRangeLow = 21000
	cfg.DynamicPortRangeHigh = 21010

	ifaces := []ifaceAddr{
		{Name: "test0", IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)},
	}
	table, err := bindTable(context.Background(), cfg, ifaces)
	require.NoError(t, err)
	defer table.Close()

	require.Len(t, table.Bindings(), 1)

	target, ok := types.NewUDPAddress(net.IPv4(127, 0, 0, 1), 9999)
	require.True(t, ok)
	conn, err := table.SocketForTarget(target)
	require.NoError(t, err)
	require.NotNil(t, conn)
}

func TestTableClosedRejectsOperations(t *testing.T) {
	table := &Table{}
	require.NoError(t, table.Close())
	require.NoError(t, table.Close())

	_, err := table.SocketForTarget(types.UDPAddress{})
	require.ErrorIs(t, err, ErrClosed)
}

func TestDiscovererMemoizesTable(t *testing.T) {
	cfg := clustercfg.DefaultConfig()
	cfg.DynamicPortRangeLow = 21100
	cfg.DynamicPortRangeHigh = 21110

	d := NewDiscoverer(cfg)
	d.table = &Table{bindings: []Binding{{}}}

	got, err := d.Table(context.Background())
	require.NoError(t, err)
	require.Same(t, d.table, got)
}
