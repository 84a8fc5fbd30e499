package engine

import "slices"

// EntitySet is the live entity registry: membership by identity, iteration
// in insertion order so ticks are deterministic.
type EntitySet struct {
	items []*Entity
	index map[*Entity]int
}

func NewEntitySet() *EntitySet {
	return &EntitySet{index: make(map[*Entity]int)}
}

// Put adds e and reports whether it was new.
func (s *EntitySet) Put(e *Entity) bool {
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = len(s.items)
	s.items = append(s.items, e)
	return true
}

// Remove drops e and reports whether it was present.
func (s *EntitySet) Remove(e *Entity) bool {
	i, ok := s.index[e]
	if !ok {
		return false
	}
	delete(s.index, e)
	s.items = slices.Delete(s.items, i, i+1)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

func (s *EntitySet) Has(e *Entity) bool {
	_, ok := s.index[e]
	return ok
}

func (s *EntitySet) Len() int { return len(s.items) }

// Values is a snapshot; mutating the set afterwards does not affect it.
func (s *EntitySet) Values() []*Entity { return slices.Clone(s.items) }

// Filter returns the members keep accepts, in insertion order.
func (s *EntitySet) Filter(keep func(*Entity) bool) []*Entity {
	var out []*Entity
	for _, e := range s.items {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Named returns the first member called name.
func (s *EntitySet) Named(name string) (*Entity, bool) {
	for _, e := range s.items {
		if e.name == name {
			return e, true
		}
	}
	return nil, false
}
