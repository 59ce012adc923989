package testutil

import (
	"sync"

	"github.com/udpcluster/udpcluster"
)

// FakeRegistry is a minimal thread-safe udpcluster.ActorRegistry backed
// by plain maps, for tests that need targeted-delivery coverage without
// a real actor system.
type FakeRegistry struct {
	mu          sync.Mutex
	byUUID      map[udpcluster.UUID]any
	byID        map[udpcluster.UUID][]any
	byClassName map[string][]any
}

// NewFakeRegistry constructs an empty FakeRegistry.
func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{
		byUUID:      map[udpcluster.UUID]any{},
		byID:        map[udpcluster.UUID][]any{},
		byClassName: map[string][]any{},
	}
}

// RegisterByUUID makes actor resolvable by GetByUUID(id).
func (r *FakeRegistry) RegisterByUUID(id udpcluster.UUID, actor any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUUID[id] = actor
}

// RegisterByID adds actor to the set returned by GetAllByID(id).
func (r *FakeRegistry) RegisterByID(id udpcluster.UUID, actor any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = append(r.byID[id], actor)
}

// RegisterByClassName adds actor to the set returned by
// GetAllByClassName(className).
func (r *FakeRegistry) RegisterByClassName(className string, actor any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byClassName[className] = append(r.byClassName[className], actor)
}

// GetByUUID implements udpcluster.ActorRegistry.
func (r *FakeRegistry) GetByUUID(id udpcluster.UUID) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byUUID[id]
	return a, ok
}

// GetAll implements udpcluster.ActorRegistry.
func (r *FakeRegistry) GetAll() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []any
	for _, a := range r.byUUID {
		all = append(all, a)
	}
	return all
}

// GetAllByClassName implements udpcluster.ActorRegistry.
func (r *FakeRegistry) GetAllByClassName(className string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byClassName[className]
}

// GetAllByID implements udpcluster.ActorRegistry.
func (r *FakeRegistry) GetAllByID(id udpcluster.UUID) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}
