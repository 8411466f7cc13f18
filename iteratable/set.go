/*
Package iteratable implements iteratable container data structures. Set is
a special purpose set type geared towards the needs of automaton and
forest construction: membership tests, bulk union, and single-pass
iteration with in-place filtering.

Unusually, all set operations are destructive!  Set is not safe for use
by multiple goroutines without external synchronization.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package iteratable

// Set is a destructive, insertion-ordered set of arbitrary comparable
// values. Ordering is preserved to make output (dumps, dot graphs, error
// messages) deterministic across runs of the same construction.
type Set struct {
	items []interface{}
	index map[interface{}]int
}

// NewSet creates an empty set, optionally pre-sized.
func NewSet(capacityHint int) *Set {
	return &Set{
		items: make([]interface{}, 0, capacityHint),
		index: make(map[interface{}]int, capacityHint),
	}
}

// Add inserts v if not already present. Returns the set for chaining.
func (s *Set) Add(v interface{}) *Set {
	if _, ok := s.index[v]; ok {
		return s
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return s
}

// AddAll inserts every value of other into s (destructive union).
func (s *Set) AddAll(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, v := range other.items {
		s.Add(v)
	}
	return s
}

// Contains reports whether v is a member.
func (s *Set) Contains(v interface{}) bool {
	_, ok := s.index[v]
	return ok
}

// Remove deletes v from the set, if present, and re-compacts the index.
func (s *Set) Remove(v interface{}) *Set {
	i, ok := s.index[v]
	if !ok {
		return s
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, v)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return s
}

// Size returns the number of members.
func (s *Set) Size() int {
	return len(s.items)
}

// Empty reports whether the set has no members.
func (s *Set) Empty() bool {
	return len(s.items) == 0
}

// Each iterates the set in insertion order, calling f for every member.
func (s *Set) Each(f func(interface{})) {
	for _, v := range s.items {
		f(v)
	}
}

// Filter destructively removes every member for which keep returns false.
func (s *Set) Filter(keep func(interface{}) bool) *Set {
	kept := s.items[:0]
	for _, v := range s.items {
		if keep(v) {
			kept = append(kept, v)
		} else {
			delete(s.index, v)
		}
	}
	s.items = kept
	for i, v := range s.items {
		s.index[v] = i
	}
	return s
}

// Values returns a snapshot slice of the current members, in insertion
// order. The slice is a copy and safe to retain.
func (s *Set) Values() []interface{} {
	out := make([]interface{}, len(s.items))
	copy(out, s.items)
	return out
}

// Equals reports whether s and other contain exactly the same members,
// irrespective of order.
func (s *Set) Equals(other *Set) bool {
	if other == nil {
		return s.Empty()
	}
	if len(s.items) != len(other.items) {
		return false
	}
	for _, v := range s.items {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of s.
func (s *Set) Copy() *Set {
	c := NewSet(len(s.items))
	c.AddAll(s)
	return c
}
