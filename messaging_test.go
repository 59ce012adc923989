package udpcluster

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeActor struct {
	id  UUID
	got []Message
}

func (a *fakeActor) HandleClusterMessage(msg Message) { a.got = append(a.got, msg) }

type fakeRegistry struct {
	byUUID      map[UUID]any
	byID        map[UUID][]any
	byClassName map[string][]any
}

func (r *fakeRegistry) GetByUUID(id UUID) (any, bool) {
	a, ok := r.byUUID[id]
	return a, ok
}
func (r *fakeRegistry) GetAll() []any                          { return nil }
func (r *fakeRegistry) GetAllByClassName(className string) []any { return r.byClassName[className] }
func (r *fakeRegistry) GetAllByID(id UUID) []any                { return r.byID[id] }

func TestDefaultDispatcherRoutesTargetedByUUID(t *testing.T) {
	actor := &fakeActor{}
	target := UUID{Rand: 7}
	reg := &fakeRegistry{byUUID: map[UUID]any{target: actor}}

	d := newDefaultDispatcher(reg, nil)
	d.ProcessMessage(Message{Variant: VariantTargetedByUUID, Target: target, Body: []byte("hi")})

	require.Len(t, actor.got, 1)
	require.Equal(t, []byte("hi"), actor.got[0].Body)
}

func TestDefaultDispatcherRoutesTargetedByClassNameToAllMatches(t *testing.T) {
	a1, a2 := &fakeActor{}, &fakeActor{}
	reg := &fakeRegistry{byClassName: map[string][]any{"Worker": {a1, a2}}}

	d := newDefaultDispatcher(reg, nil)
	d.ProcessMessage(Message{Variant: VariantTargetedByClassName, ClassName: "Worker", Body: []byte("go")})

	require.Len(t, a1.got, 1)
	require.Len(t, a2.got, 1)
}

func TestDefaultDispatcherFallsBackToHandlerWhenLookupMisses(t *testing.T) {
	var handled []Message
	handler := MessageHandler(func(msg Message) { handled = append(handled, msg) })
	reg := &fakeRegistry{}

	d := newDefaultDispatcher(reg, handler)
	target := UUID{Rand: 99}
	d.ProcessMessage(Message{Variant: VariantTargetedByUUID, Target: target, Body: []byte("nobody home")})

	require.Len(t, handled, 1)
}

func TestDefaultDispatcherSendsUntargetedVariantsToHandler(t *testing.T) {
	var handled []Message
	handler := MessageHandler(func(msg Message) { handled = append(handled, msg) })

	d := newDefaultDispatcher(nil, handler)
	d.ProcessMessage(Message{Variant: VariantStop})
	d.ProcessMessage(Message{Variant: VariantActorMessage, Body: []byte("x")})

	require.Len(t, handled, 2)
}

func TestDefaultDispatcherDropsNonMessagePayloads(t *testing.T) {
	var handled []Message
	handler := MessageHandler(func(msg Message) { handled = append(handled, msg) })

	d := newDefaultDispatcher(nil, handler)
	require.NotPanics(t, func() { d.ProcessMessage("not a message") })
	require.Empty(t, handled)
}
