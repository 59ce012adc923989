// Package testutil provides shared helpers for exercising udpcluster
// end-to-end: a builder for starting loopback-bound test clusters and a
// small polling helper for asserting eventual delivery.
package testutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster"
)

// ClusterBuilder simplifies constructing and starting a loopback-bound
// Cluster in a test, the way the teacher stack's own TestNodeBuilder
// wraps node construction.
//
// Example:
//
//	c := testutil.NewCluster(t, "myapp", "groupA").
//		WithMessageHandler(handler).
//		Start()
type ClusterBuilder struct {
	t         *testing.T
	appName   string
	groupName string
	ip        net.IP
	opts      []udpcluster.Option
}

// NewCluster creates a ClusterBuilder defaulting to a loopback bind
// address, so tests never depend on a real non-loopback interface.
func NewCluster(t *testing.T, appName, groupName string) *ClusterBuilder {
	t.Helper()
	return &ClusterBuilder{
		t:         t,
		appName:   appName,
		groupName: groupName,
		ip:        net.IPv4(127, 0, 0, 1),
	}
}

// WithBindIP overrides the default 127.0.0.1 bind address. Use distinct
// addresses in the 127.0.0.0/8 range to simulate separate cluster
// members within a single test process.
func (b *ClusterBuilder) WithBindIP(ip net.IP) *ClusterBuilder {
	b.ip = ip
	return b
}

// WithOptions appends arbitrary udpcluster.Option values, applied after
// the builder's own WithBindIPs.
func (b *ClusterBuilder) WithOptions(opts ...udpcluster.Option) *ClusterBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithMessageHandler is shorthand for WithOptions(udpcluster.WithMessageHandler(h)).
func (b *ClusterBuilder) WithMessageHandler(h udpcluster.MessageHandler) *ClusterBuilder {
	return b.WithOptions(udpcluster.WithMessageHandler(h))
}

// WithActorRegistry is shorthand for WithOptions(udpcluster.WithActorRegistry(r)).
func (b *ClusterBuilder) WithActorRegistry(r udpcluster.ActorRegistry) *ClusterBuilder {
	return b.WithOptions(udpcluster.WithActorRegistry(r))
}

// Start builds, starts, and registers cleanup for a fresh (never
// memoized) Cluster. Unlike GetCluster, this bypasses the process-wide
// singleton registry so concurrent tests never collide on the same
// (appName, groupName) pair.
func (b *ClusterBuilder) Start() *udpcluster.Cluster {
	b.t.Helper()

	opts := append([]udpcluster.Option{udpcluster.WithBindIPs(b.ip)}, b.opts...)
	c, err := udpcluster.NewUnregisteredCluster(b.appName, b.groupName, opts...)
	require.NoError(b.t, err, "failed to build test cluster")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(b.t, c.Startup(ctx), "failed to start test cluster")

	b.t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Shutdown(ctx); err != nil {
			b.t.Logf("failed to shut down test cluster: %v", err)
		}
	})

	return c
}
