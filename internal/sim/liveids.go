package sim

import "github.com/lobsim/lobsim/internal/common"

// LiveIDs is a flat registry of currently-resting order ids. It supports
// O(1) uniform sampling (for cancel-event target selection) and O(1)
// removal via swap-with-last.
type LiveIDs struct {
	ids []common.OrderId
	pos map[common.OrderId]int
}

// NewLiveIDs returns an empty registry.
func NewLiveIDs() *LiveIDs {
	return &LiveIDs{pos: make(map[common.OrderId]int)}
}

// Add registers id as live. A no-op if id is already present.
func (l *LiveIDs) Add(id common.OrderId) {
	if _, ok := l.pos[id]; ok {
		return
	}
	l.pos[id] = len(l.ids)
	l.ids = append(l.ids, id)
}

// Remove drops id from the registry. A no-op if id is not present.
func (l *LiveIDs) Remove(id common.OrderId) {
	i, ok := l.pos[id]
	if !ok {
		return
	}
	last := len(l.ids) - 1
	l.ids[i] = l.ids[last]
	l.pos[l.ids[i]] = i
	l.ids = l.ids[:last]
	delete(l.pos, id)
}

// Len reports how many ids are currently live.
func (l *LiveIDs) Len() int {
	return len(l.ids)
}

// Random returns a uniformly-sampled live id. ok is false when the
// registry is empty.
func (l *LiveIDs) Random(rng *RNG) (common.OrderId, bool) {
	if len(l.ids) == 0 {
		return 0, false
	}
	idx := int(rng.Uint64() % uint64(len(l.ids)))
	return l.ids[idx], true
}
