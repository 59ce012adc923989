package udpcluster

import (
	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/pkg/clustermsg"
	"github.com/udpcluster/udpcluster/pkg/interfaces"
	"github.com/udpcluster/udpcluster/pkg/types"
)

// ClusterIdentity identifies a cluster member, stable for the life of its
// process.
type ClusterIdentity = types.ClusterIdentity

// UUID is the composite message/actor identifier used throughout this
// transport.
type UUID = types.UUID

// Message is the tagged application-level payload this transport's
// default Serializer and Dispatcher exchange. Variant selects which
// fields are populated; see pkg/clustermsg for the full tag set.
type Message = clustermsg.Message

// Variant identifies which Message shape a payload holds.
type Variant = clustermsg.Variant

// Re-exported Message variant tags.
const (
	VariantActorMessage        = clustermsg.VariantActorMessage
	VariantStop                = clustermsg.VariantStop
	VariantStatusRequest       = clustermsg.VariantStatusRequest
	VariantStatusResponse      = clustermsg.VariantStatusResponse
	VariantTargetedByUUID      = clustermsg.VariantTargetedByUUID
	VariantTargetedByClassName = clustermsg.VariantTargetedByClassName
	VariantTargetedByID        = clustermsg.VariantTargetedByID
)

// ActorRegistry looks up locally-registered actors so the default
// Dispatcher can route a targeted Message without this package knowing
// anything about actor lifecycles. Supply one via WithActorRegistry to
// enable targeted delivery; without one, targeted messages go to the
// MessageHandler, if one is set.
type ActorRegistry = interfaces.ActorRegistry

// Serializer turns an application-level value into the opaque bytes this
// transport fragments and moves, and back. WithSerializer overrides the
// default, which round-trips Message values through pkg/clustermsg's
// tagged encoding.
type Serializer = interfaces.Serializer

// Config holds every tunable of the underlying transport: port range,
// chunk size, retry caps, and retention windows. See
// internal/clustercfg.DefaultConfig for the values used when no Config is
// supplied via WithConfig.
type Config = clustercfg.Config

// DefaultConfig returns the transport's compile-time defaults.
func DefaultConfig() Config {
	return clustercfg.DefaultConfig()
}

// ActorMessageHandler lets a registered actor receive targeted Messages
// directly: actors returned by an ActorRegistry that implement this
// interface are called by the default Dispatcher; actors that don't are
// silently skipped.
type ActorMessageHandler interface {
	HandleClusterMessage(msg Message)
}

// MessageHandler receives every Message the default Dispatcher does not
// route to a specific actor (ActorMessage, Stop, StatusRequest,
// StatusResponse, and any targeted Message whose actor lookup misses).
type MessageHandler func(msg Message)
