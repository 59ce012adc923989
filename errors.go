package udpcluster

import "errors"

// ErrNotRunning is returned by Send-family methods called before Startup
// or after Shutdown.
var ErrNotRunning = errors.New("udpcluster: cluster is not running")

// ErrAlreadyRunning is returned by Startup when called on a cluster that
// is already running.
var ErrAlreadyRunning = errors.New("udpcluster: cluster is already running")

// ErrEmptyName is returned by GetCluster when appName or groupName is
// empty — the registry key must be non-trivial.
var ErrEmptyName = errors.New("udpcluster: appName and groupName must be non-empty")
