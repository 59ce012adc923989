package udpcluster

import "github.com/udpcluster/udpcluster/pkg/interfaces"

// newDefaultDispatcher builds the Dispatcher the default Serializer
// pairs with: it switches on the decoded Message's Variant and, for the
// three targeted variants, looks actors up through registry before
// falling back to handler. ActorMessage/Stop/StatusRequest/StatusResponse
// always go straight to handler, since they carry no actor target.
func newDefaultDispatcher(registry ActorRegistry, handler MessageHandler) interfaces.Dispatcher {
	return interfaces.DispatcherFunc(func(v any) {
		msg, ok := v.(Message)
		if !ok {
			log.Warn("dropping non-Message payload from default dispatcher", "type", v)
			return
		}
		switch msg.Variant {
		case VariantTargetedByUUID:
			if deliverToActor(registry, msg, func() (any, bool) { return registry.GetByUUID(msg.Target) }) {
				return
			}
		case VariantTargetedByID:
			if deliverToActors(registry, msg, func() []any { return registry.GetAllByID(msg.Target) }) {
				return
			}
		case VariantTargetedByClassName:
			if deliverToActors(registry, msg, func() []any { return registry.GetAllByClassName(msg.ClassName) }) {
				return
			}
		}
		if handler != nil {
			handler(msg)
		}
	})
}

// deliverToActor routes msg to a single looked-up actor if it implements
// ActorMessageHandler. Reports whether delivery happened.
func deliverToActor(registry ActorRegistry, msg Message, lookup func() (any, bool)) bool {
	if registry == nil {
		return false
	}
	actor, ok := lookup()
	if !ok {
		return false
	}
	h, ok := actor.(ActorMessageHandler)
	if !ok {
		log.Debug("targeted actor does not implement ActorMessageHandler", "target", msg.Target)
		return false
	}
	h.HandleClusterMessage(msg)
	return true
}

// deliverToActors routes msg to every looked-up actor implementing
// ActorMessageHandler. Reports whether the lookup itself returned any
// actors, even if none implemented the interface — a non-empty match with
// no implementers still counts as "handled" so the caller doesn't also
// fall through to the generic MessageHandler; an empty match does not.
func deliverToActors(registry ActorRegistry, msg Message, lookup func() []any) bool {
	if registry == nil {
		return false
	}
	actors := lookup()
	if len(actors) == 0 {
		return false
	}
	for _, actor := range actors {
		if h, ok := actor.(ActorMessageHandler); ok {
			h.HandleClusterMessage(msg)
		}
	}
	return true
}
