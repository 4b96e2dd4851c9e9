// Package fdtrack keeps a ledger of the descriptors owned by live handles.
//
// The ledger is a roaring bitmap keyed by descriptor number. The kernel hands
// out the lowest free number, so live descriptors cluster densely near zero
// and the bitmap stays a few containers wide.
package fdtrack

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Tracker records live descriptors. It is safe for concurrent use.
// A nil *Tracker ignores every call.
type Tracker struct {
	mu   sync.Mutex
	live *roaring.Bitmap
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{live: roaring.New()}
}

// Add records fd as live. It reports false if fd was already recorded, which
// means a descriptor was closed behind the tracker's back.
func (t *Tracker) Add(fd int) bool {
	if t == nil || fd < 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.CheckedAdd(uint32(fd))
}

// Remove forgets fd. It reports false if fd was not recorded.
func (t *Tracker) Remove(fd int) bool {
	if t == nil || fd < 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.CheckedRemove(uint32(fd))
}

// Contains reports whether fd is recorded as live.
func (t *Tracker) Contains(fd int) bool {
	if t == nil || fd < 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.Contains(uint32(fd))
}

// Len returns the number of live descriptors.
func (t *Tracker) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.live.GetCardinality())
}

// Snapshot returns the live descriptors in ascending order.
func (t *Tracker) Snapshot() []int {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	vals := t.live.ToArray()
	t.mu.Unlock()

	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out
}
