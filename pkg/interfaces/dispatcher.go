package interfaces

// ============================================================================
//                              Dispatcher
// ============================================================================

// Dispatcher receives a fully-reassembled, deserialized application value
// from the transport. ProcessMessage runs on the Receiver goroutine of the
// socket the message arrived on: implementations MUST NOT block for long
// or perform I/O that could deadlock the transport (SPEC_FULL.md §6).
type Dispatcher interface {
	ProcessMessage(v any)
}

// DispatcherFunc adapts a plain function to a Dispatcher.
type DispatcherFunc func(v any)

// ProcessMessage implements Dispatcher.
func (f DispatcherFunc) ProcessMessage(v any) {
	f(v)
}
