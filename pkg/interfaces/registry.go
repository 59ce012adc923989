package interfaces

import "github.com/udpcluster/udpcluster/pkg/types"

// ============================================================================
//                              ActorRegistry
// ============================================================================

// ActorRegistry looks up locally-registered actors so a Dispatcher can
// route a TargetedByUUID/TargetedByClassName/TargetedByID ClusterMessage
// (SPEC_FULL.md §4.2 supplement) without the transport itself knowing
// anything about actor lifecycles.
//
// The transport only calls these from the Receiver goroutine after a
// message finishes reassembling; implementations must return quickly and
// must not block on network I/O, per the callback contract in §6.
type ActorRegistry interface {
	// GetByUUID returns the actor registered under id, if any.
	GetByUUID(id types.UUID) (actor any, ok bool)

	// GetAll returns every locally-registered actor.
	GetAll() []any

	// GetAllByClassName returns every actor registered under className.
	GetAllByClassName(className string) []any

	// GetAllByID returns every actor whose registration id matches id.
	GetAllByID(id types.UUID) []any
}
