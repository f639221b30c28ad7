package domain

import "encoding/json"

// UsernameSet is an insertion-ordered set of usernames.
// Trip members keep the creator first, so order is part of the value.
// The zero value is an empty set ready to use.
type UsernameSet struct {
	names []string
}

// NewUsernameSet builds a set from names, dropping repeats after the first.
func NewUsernameSet(names ...string) UsernameSet {
	var s UsernameSet
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name if it is absent. It reports whether the set changed.
func (s *UsernameSet) Add(name string) bool {
	if s.Contains(name) {
		return false
	}
	s.names = append(s.names, name)
	return true
}

// Remove deletes name if it is present. It reports whether the set changed.
func (s *UsernameSet) Remove(name string) bool {
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i:i], s.names[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether name is in the set.
func (s UsernameSet) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Len returns the number of usernames in the set.
func (s UsernameSet) Len() int { return len(s.names) }

// Slice returns a copy of the usernames in insertion order. Never nil.
func (s UsernameSet) Slice() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// MarshalJSON encodes the set as a JSON array; an empty set is [] not null.
func (s UsernameSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes a JSON array of strings, dropping repeats.
func (s *UsernameSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	*s = NewUsernameSet(names...)
	return nil
}
