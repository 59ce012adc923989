package lifecycle

import "github.com/jbenet/goprocess"

// Group is a set of daemon goroutines that share one shutdown signal.
type Group struct {
	proc goprocess.Process
}

// NewGroup constructs an empty Group.
func NewGroup() *Group {
	return &Group{proc: goprocess.WithParent(goprocess.Background())}
}

// Go starts fn as a daemon goroutine. fn must loop until proc.Closing()
// fires and then return.
func (g *Group) Go(fn func(proc goprocess.Process)) {
	g.proc.Go(fn)
}

// Closing returns the channel that closes when Close is called, so a
// worker's blocking calls (socket recv, queue poll) can select on it.
func (g *Group) Closing() <-chan struct{} {
	return g.proc.Closing()
}

// Close signals every worker to stop and waits for them to exit,
// aggregating any teardown error.
func (g *Group) Close() error {
	return g.proc.Close()
}
