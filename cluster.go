package udpcluster

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/fx"

	"github.com/udpcluster/udpcluster/internal/app"
)

// Cluster is one process's membership in an (appName, groupName) transport
// instance. Obtain one through GetCluster; do not construct directly.
type Cluster struct {
	appName   string
	groupName string

	mu      sync.Mutex
	running bool
	fxApp   *fx.App
	rt      *app.Runtime
	ser     Serializer
}

// AppName returns the application name this Cluster was created under.
func (c *Cluster) AppName() string { return c.appName }

// GroupName returns the group name this Cluster was created under.
func (c *Cluster) GroupName() string { return c.groupName }

// ClusterID returns this process's ClusterIdentity within the cluster. The
// identity is minted when the Cluster is built, so it is available before
// Startup and does not change across Startup and Shutdown.
func (c *Cluster) ClusterID() ClusterIdentity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return ClusterIdentity{}
	}
	return c.rt.ClusterID()
}

// Startup binds sockets and launches every worker. Calling Startup on an
// already-running Cluster returns ErrAlreadyRunning.
func (c *Cluster) Startup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrAlreadyRunning
	}
	if err := c.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("udpcluster: startup failed: %w", err)
	}
	c.running = true
	return nil
}

// Shutdown stops every worker and closes every bound socket. Calling
// Shutdown on a Cluster that was never started, or already stopped,
// returns ErrNotRunning.
func (c *Cluster) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return ErrNotRunning
	}
	if err := c.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("udpcluster: shutdown failed: %w", err)
	}
	c.running = false
	return nil
}

// Send marshals v with this Cluster's Serializer and delivers it to dest,
// or broadcasts it when dest is the zero ClusterIdentity. It is the
// low-level primitive the SendAll*/SendTo*/SendStop*/SendStatus* helpers
// build on.
func (c *Cluster) Send(dest ClusterIdentity, v any) (UUID, error) {
	c.mu.Lock()
	rt := c.rt
	serializer := c.ser
	running := c.running
	c.mu.Unlock()
	if rt == nil || !running {
		return UUID{}, ErrNotRunning
	}
	payload, err := serializer.Marshal(v)
	if err != nil {
		return UUID{}, fmt.Errorf("udpcluster: marshal failed: %w", err)
	}
	return rt.Send(dest, payload)
}

// SendAll broadcasts body as an ActorMessage to every cluster member.
func (c *Cluster) SendAll(body []byte) (UUID, error) {
	return c.Send(ClusterIdentity{}, Message{Variant: VariantActorMessage, Body: body})
}

// SendAllWithID broadcasts body targeted at every actor registered under
// target, on every cluster member.
func (c *Cluster) SendAllWithID(target UUID, body []byte) (UUID, error) {
	return c.Send(ClusterIdentity{}, Message{Variant: VariantTargetedByID, Target: target, Body: body})
}

// SendAllWithClassName broadcasts body targeted at every actor registered
// under className, on every cluster member.
func (c *Cluster) SendAllWithClassName(className string, body []byte) (UUID, error) {
	return c.Send(ClusterIdentity{}, Message{Variant: VariantTargetedByClassName, ClassName: className, Body: body})
}

// SendToUUID unicasts body to dest, targeted at the actor registered
// under target.
func (c *Cluster) SendToUUID(dest ClusterIdentity, target UUID, body []byte) (UUID, error) {
	return c.Send(dest, Message{Variant: VariantTargetedByUUID, Target: target, Body: body})
}

// SendStop unicasts a Stop Message to dest.
func (c *Cluster) SendStop(dest ClusterIdentity) (UUID, error) {
	return c.Send(dest, Message{Variant: VariantStop})
}

// SendStatusRequest unicasts a StatusRequest Message to dest.
func (c *Cluster) SendStatusRequest(dest ClusterIdentity) (UUID, error) {
	return c.Send(dest, Message{Variant: VariantStatusRequest})
}

// SendStatusResponse unicasts a StatusResponse Message carrying status to
// dest.
func (c *Cluster) SendStatusResponse(dest ClusterIdentity, status string) (UUID, error) {
	return c.Send(dest, Message{Variant: VariantStatusResponse, Status: status})
}
