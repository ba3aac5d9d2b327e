package element

import "strings"

// Set is a fixed-size bitset of elements indexed by ordinal. The zero value is empty.
type Set uint32

// NewSet returns a Set holding every element in elems.
func NewSet(elems ...Element) Set {
	var s Set
	for _, e := range elems {
		s = s.Add(e)
	}
	return s
}

// Add returns s with e included.
//
// Precondition: e must be Valid.
func (s Set) Add(e Element) Set { return s | 1<<uint(e) }

// Contains reports whether e is in s.
func (s Set) Contains(e Element) bool { return e.Valid() && s&(1<<uint(e)) != 0 }

// Union returns every element in s or other.
func (s Set) Union(other Set) Set { return s | other }

// Difference returns every element in s but not in other.
func (s Set) Difference(other Set) Set { return s &^ other }

// Len returns the number of elements in s.
func (s Set) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Elements returns the members of s in ordinal order.
func (s Set) Elements() []Element {
	var out []Element
	for i := 0; i < Count; i++ {
		if s.Contains(Element(i)) {
			out = append(out, Element(i))
		}
	}
	return out
}

// String returns the members as "{fire, water}".
func (s Set) String() string {
	elems := s.Elements()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
