// Package app composes the cluster transport's internal packages into a
// single running instance: socket discovery, the address map, the
// send/receive state machines and their workers, and the Receiver
// demultiplexer. It is consumed by the root package's registry, which
// wires it through go.uber.org/fx the way the rest of this stack's
// modules wire their own subsystems.
package app
