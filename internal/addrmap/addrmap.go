package addrmap

import (
	"sync"
	"sync/atomic"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// Map is the concurrent address map described in SPEC_FULL.md §4.6. The
// zero value is not usable; construct with New.
type Map struct {
	byAddr sync.Map // types.UDPAddress -> types.ClusterIdentity
	byID   sync.Map // types.ClusterIdentity -> *atomic.Pointer[[]types.UDPAddress]
}

// New constructs an empty address map.
func New() *Map {
	return &Map{}
}

// Record ensures the (id, addr) pair is present: addr is recorded as id's
// current address, and addr is prepended to id's address list if it is not
// already in it. Called on every inbound type-1/2/6 frame.
func (m *Map) Record(id types.ClusterIdentity, addr types.UDPAddress) {
	m.byAddr.Store(addr, id)

	listPtr, _ := m.byID.LoadOrStore(id, new(atomic.Pointer[[]types.UDPAddress]))
	ptr := listPtr.(*atomic.Pointer[[]types.UDPAddress])

	for {
		old := ptr.Load()
		if old != nil && contains(*old, addr) {
			return
		}
		var updated []types.UDPAddress
		if old == nil {
			updated = []types.UDPAddress{addr}
		} else {
			updated = make([]types.UDPAddress, 0, len(*old)+1)
			updated = append(updated, addr)
			updated = append(updated, (*old)...)
		}
		if ptr.CompareAndSwap(old, &updated) {
			return
		}
		// Lost the race to a concurrent writer; reload and retry.
	}
}

// IdentityFor returns the ClusterIdentity last recorded for addr.
func (m *Map) IdentityFor(addr types.UDPAddress) (types.ClusterIdentity, bool) {
	v, ok := m.byAddr.Load(addr)
	if !ok {
		return types.ClusterIdentity{}, false
	}
	return v.(types.ClusterIdentity), true
}

// Preferred returns the head of id's address list — the preferred route —
// per SPEC_FULL.md §4.6. Preference is last-writer-wins modulo race order,
// not a performance ranking.
func (m *Map) Preferred(id types.ClusterIdentity) (types.UDPAddress, bool) {
	v, ok := m.byID.Load(id)
	if !ok {
		return types.UDPAddress{}, false
	}
	list := v.(*atomic.Pointer[[]types.UDPAddress]).Load()
	if list == nil || len(*list) == 0 {
		return types.UDPAddress{}, false
	}
	return (*list)[0], true
}

// Addresses returns a snapshot of id's full address list, head first.
func (m *Map) Addresses(id types.ClusterIdentity) []types.UDPAddress {
	v, ok := m.byID.Load(id)
	if !ok {
		return nil
	}
	list := v.(*atomic.Pointer[[]types.UDPAddress]).Load()
	if list == nil {
		return nil
	}
	out := make([]types.UDPAddress, len(*list))
	copy(out, *list)
	return out
}

func contains(list []types.UDPAddress, addr types.UDPAddress) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}
