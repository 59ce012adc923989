package socket

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/singleflight"

	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/obslog"
	"github.com/udpcluster/udpcluster/pkg/types"
)

var log = obslog.Logger("socket")

// ifaceAddr is the minimal shape Discover needs out of a net.Interface; it
// exists so bindTable can be exercised in tests against synthetic
// interfaces without requiring real non-loopback hardware.
type ifaceAddr struct {
	Name string
	IP   net.IP
	Mask net.IPMask
}

// Discoverer memoizes socket discovery: concurrent first callers collapse
// onto a single discovery attempt via singleflight, the idiomatic
// replacement for a hand-rolled double-checked lock.
type Discoverer struct {
	cfg   clustercfg.Config
	group singleflight.Group

	table *Table
}

// NewDiscoverer builds a Discoverer for cfg. Discovery itself is lazy —
// nothing is bound until the first call to Table.
func NewDiscoverer(cfg clustercfg.Config) *Discoverer {
	return &Discoverer{cfg: cfg}
}

// Table returns the memoized socket table, performing discovery on the
// first call and every interface at that point being bound exactly once.
func (d *Discoverer) Table(ctx context.Context) (*Table, error) {
	if t := d.table; t != nil {
		return t, nil
	}
	v, err, _ := d.group.Do("discover", func() (any, error) {
		if d.table != nil {
			return d.table, nil
		}
		t, err := Discover(ctx, d.cfg, nil)
		if err != nil {
			return nil, err
		}
		d.table = t
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Discover binds the per-interface socket table described in
// SPEC_FULL.md §4.1. If ips is non-nil, discovery binds exactly those
// addresses with a host (/32) mask instead of enumerating real
// interfaces — used by tests that need a deterministic, loopback-friendly
// table without a real non-loopback NIC.
func Discover(ctx context.Context, cfg clustercfg.Config, ips []net.IP) (*Table, error) {
	var ifaces []ifaceAddr
	if ips != nil {
		for _, ip := range ips {
			ifaces = append(ifaces, ifaceAddr{Name: "explicit", IP: ip, Mask: net.CIDRMask(32, 32)})
		}
	} else {
		var err error
		ifaces, err = listIPv4Interfaces()
		if err != nil {
			return nil, err
		}
	}
	return bindTable(ctx, cfg, ifaces)
}

// listIPv4Interfaces enumerates every non-loopback, up interface carrying
// an IPv4 address.
func listIPv4Interfaces() ([]ifaceAddr, error) {
	ifis, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var out []ifaceAddr
	for _, ifi := range ifis {
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifi.Addrs()
		if err != nil {
			log.Warn("failed to list addresses for interface", "interface", ifi.Name, "error", err)
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			v4 := ipnet.IP.To4()
			if v4 == nil {
				continue
			}
			out = append(out, ifaceAddr{Name: ifi.Name, IP: v4, Mask: ipnet.Mask})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoInterfaces
	}
	return out, nil
}

// bindTable binds a unicast and a broadcast-receive socket for every
// interface in ifaces, per SPEC_FULL.md §4.1. It is the testable core of
// Discoverer.Table — production callers reach it only through Discover.
// An interface with no free port in the dynamic range is skipped; if that
// leaves no interface bound, bindTable returns ErrNoFreePort.
func bindTable(ctx context.Context, cfg clustercfg.Config, ifaces []ifaceAddr) (*Table, error) {
	t := &Table{}
	for _, ifa := range ifaces {
		b, err := bindInterface(ctx, cfg, ifa)
		if errors.Is(err, ErrNoFreePort) {
			log.Warn("no free port on interface, skipping it", "interface", ifa.Name)
			continue
		}
		if err != nil {
			_ = t.Close()
			return nil, fmt.Errorf("socket: bind interface %s: %w", ifa.Name, err)
		}
		t.bindings = append(t.bindings, b)
		log.Info("bound cluster sockets",
			"interface", ifa.Name,
			"unicast", b.UnicastAddr.String(),
			"broadcast", b.BroadcastAddr.String())
	}
	if len(ifaces) > 0 && len(t.bindings) == 0 {
		return nil, ErrNoFreePort
	}
	return t, nil
}

func bindInterface(ctx context.Context, cfg clustercfg.Config, ifa ifaceAddr) (Binding, error) {
	unicast, port, err := bindFreePort(ifa.IP, cfg.DynamicPortRangeLow, cfg.DynamicPortRangeHigh)
	if err != nil {
		return Binding{}, err
	}
	if err := enableBroadcast(unicast); err != nil {
		unicast.Close()
		return Binding{}, fmt.Errorf("enable broadcast: %w", err)
	}
	unicastAddr, ok := types.NewUDPAddress(ifa.IP, port)
	if !ok {
		unicast.Close()
		return Binding{}, fmt.Errorf("interface address %s is not IPv4", ifa.IP)
	}

	broadcast, err := bindBroadcastReceiver(ctx, ifa.IP, cfg.BroadcastPort)
	if err != nil {
		unicast.Close()
		return Binding{}, err
	}
	broadcastIP := broadcastAddressOf(ifa.IP, ifa.Mask)
	broadcastAddr, ok := types.NewUDPAddress(broadcastIP, cfg.BroadcastPort)
	if !ok {
		unicast.Close()
		broadcast.Close()
		return Binding{}, fmt.Errorf("broadcast address %s is not IPv4", broadcastIP)
	}

	return Binding{
		InterfaceIP:   ifa.IP,
		InterfaceMask: ifa.Mask,
		UnicastAddr:   unicastAddr,
		Unicast:       unicast,
		BroadcastAddr: broadcastAddr,
		Broadcast:     broadcast,
	}, nil
}

// bindFreePort scans [low, high] for the first port that binds cleanly on
// ip, returning the bound socket and the port it landed on.
func bindFreePort(ip net.IP, low, high uint16) (*net.UDPConn, uint16, error) {
	for p := low; p <= high; p++ {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: int(p)})
		if err == nil {
			return conn, p, nil
		}
		if p == high {
			break
		}
	}
	return nil, 0, ErrNoFreePort
}

// bindBroadcastReceiver binds the well-known broadcast port with
// SO_REUSEADDR so every interface's receiver can share it.
func bindBroadcastReceiver(ctx context.Context, ip net.IP, port uint16) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: setReuseAddr}
	pc, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf("%s:%d", ip, port))
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}

// broadcastAddressOf computes the directed broadcast address for ip/mask
// (every host bit set to 1).
func broadcastAddressOf(ip net.IP, mask net.IPMask) net.IP {
	v4 := ip.To4()
	if v4 == nil || len(mask) == 0 {
		return net.IPv4bcast
	}
	out := make(net.IP, 4)
	for i := range out {
		out[i] = v4[i] | ^mask[i]
	}
	return out
}
