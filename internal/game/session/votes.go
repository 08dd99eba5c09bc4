package session

import "sort"

// VoteSet records which participants have affirmed a pending transition.
// It is always cleared together with the state write that consumes it.
type VoteSet map[string]struct{}

// Add records a vote. Returns false if the participant already voted.
func (v VoteSet) Add(participantID string) bool {
	if _, ok := v[participantID]; ok {
		return false
	}
	v[participantID] = struct{}{}
	return true
}

// Has reports whether the participant has voted.
func (v VoteSet) Has(participantID string) bool {
	_, ok := v[participantID]
	return ok
}

// Count returns the number of distinct votes.
func (v VoteSet) Count() int {
	return len(v)
}

// Clone returns an independent copy.
func (v VoteSet) Clone() VoteSet {
	c := make(VoteSet, len(v))
	for id := range v {
		c[id] = struct{}{}
	}
	return c
}

// Members returns the voter ids in stable order.
func (v VoteSet) Members() []string {
	ids := make([]string, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
