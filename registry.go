package udpcluster

import (
	"fmt"
	"sync"
)

// clusterKey identifies a singleton Cluster instance within this process.
type clusterKey struct {
	appName   string
	groupName string
}

var (
	registryMu sync.Mutex
	registry   = map[clusterKey]*Cluster{}
)

// GetCluster returns the process-wide Cluster for (appName, groupName),
// creating and wiring one on first call and returning the existing
// instance on every subsequent call for the same pair — put-if-absent,
// not get-or-replace. Options passed on a call that finds an existing
// Cluster are ignored; the first caller's options win.
//
// GetCluster does not start the Cluster. Call Startup once you're ready
// to bind sockets and begin exchanging messages.
func GetCluster(appName, groupName string, opts ...Option) (*Cluster, error) {
	if appName == "" || groupName == "" {
		return nil, ErrEmptyName
	}

	key := clusterKey{appName: appName, groupName: groupName}

	registryMu.Lock()
	defer registryMu.Unlock()

	if c, ok := registry[key]; ok {
		return c, nil
	}

	c, err := newCluster(appName, groupName, opts...)
	if err != nil {
		return nil, fmt.Errorf("udpcluster: building cluster %s/%s: %w", appName, groupName, err)
	}
	registry[key] = c
	return c, nil
}

// resetRegistry clears every cached Cluster. Test-only: production code
// has no legitimate reason to forget a singleton mid-process.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[clusterKey]*Cluster{}
}

// NewUnregisteredCluster builds a Cluster the same way GetCluster does,
// without checking or populating the process-wide singleton registry.
// It exists so tests can build many independent (appName, groupName)
// pairs — including repeats across test cases — without colliding on
// GetCluster's put-if-absent semantics.
func NewUnregisteredCluster(appName, groupName string, opts ...Option) (*Cluster, error) {
	if appName == "" || groupName == "" {
		return nil, ErrEmptyName
	}
	return newCluster(appName, groupName, opts...)
}
