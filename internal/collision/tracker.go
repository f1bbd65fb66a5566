package collision

import (
	"github.com/arloliu/dgap/errs"
)

// Tracker remembers which value produced each hash key and detects collisions.
//
// The index uses a Tracker[uint64, string] to map term hashes back to terms, and
// a table uses a Tracker[uint32, DocPosition] for its cell keys. A Tracker is not
// safe for concurrent use; callers guard it with their own lock.
type Tracker[K comparable, V comparable] struct {
	values       map[K]V
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker[K comparable, V comparable]() *Tracker[K, V] {
	return &Tracker[K, V]{
		values: make(map[K]V),
	}
}

// Track records that key was derived from value.
//
// It returns true if key was not tracked before. Tracking the same value twice is
// not an error. A different value for an existing key returns ErrHashCollision and
// leaves the original mapping in place.
func (t *Tracker[K, V]) Track(key K, value V) (bool, error) {
	if existing, exists := t.values[key]; exists {
		if existing != value {
			t.hasCollision = true
			return false, errs.ErrHashCollision
		}

		return false, nil
	}

	t.values[key] = value

	return true, nil
}

// Untrack forgets key. It reports whether key was tracked.
func (t *Tracker[K, V]) Untrack(key K) bool {
	if _, exists := t.values[key]; !exists {
		return false
	}
	delete(t.values, key)

	return true
}

// Lookup returns the value tracked for key.
func (t *Tracker[K, V]) Lookup(key K) (V, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Values returns the tracked values in unspecified order.
func (t *Tracker[K, V]) Values() []V {
	out := make([]V, 0, len(t.values))
	for _, v := range t.values {
		out = append(out, v)
	}

	return out
}

// HasCollision returns true if a collision has been detected since the last Reset.
func (t *Tracker[K, V]) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of tracked keys.
func (t *Tracker[K, V]) Count() int {
	return len(t.values)
}

// Reset clears all tracked keys and the collision state.
func (t *Tracker[K, V]) Reset() {
	clear(t.values)
	t.hasCollision = false
}
