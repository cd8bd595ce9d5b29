package state

import "encoding/json"

// OrderedSet is a set of strings that remembers insertion order. It encodes
// as a JSON array.
type OrderedSet struct {
	items []string
	index map[string]struct{}
}

// NewOrderedSet returns a set holding the given values.
func NewOrderedSet(values ...string) *OrderedSet {
	s := &OrderedSet{index: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was new.
func (s *OrderedSet) Add(v string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Has reports membership.
func (s *OrderedSet) Has(v string) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of distinct values.
func (s *OrderedSet) Len() int { return len(s.items) }

// Values returns a copy of the members in insertion order.
func (s *OrderedSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s *OrderedSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

func (s *OrderedSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = OrderedSet{index: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return nil
}
