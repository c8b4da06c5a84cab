/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dataset

import (
	"sort"
)

// Interaction is a single timestamped user/item event.
type Interaction struct {
	User      string
	Item      string
	Timestamp int64
}

// InteractionMatrix is an immutable interaction log ordered by time.
type InteractionMatrix struct {
	interactions []Interaction
}

// NewInteractionMatrix returns a matrix holding a sorted copy of the supplied interactions.
func NewInteractionMatrix(interactions []Interaction) *InteractionMatrix {
	m := &InteractionMatrix{interactions: make([]Interaction, len(interactions))}
	copy(m.interactions, interactions)
	sort.SliceStable(m.interactions, func(i, j int) bool {
		a, b := &m.interactions[i], &m.interactions[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		if a.User != b.User {
			return a.User < b.User
		}
		return a.Item < b.Item
	})
	return m
}

// Len returns the number of interactions.
func (m *InteractionMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.interactions)
}

// Interactions returns a copy of the interactions in time order.
func (m *InteractionMatrix) Interactions() []Interaction {
	out := make([]Interaction, m.Len())
	if m != nil {
		copy(out, m.interactions)
	}
	return out
}

// Shape returns the number of distinct users and items.
func (m *InteractionMatrix) Shape() (users int, items int) {
	return len(m.Users()), len(m.Items())
}

// Users returns the sorted distinct users.
func (m *InteractionMatrix) Users() []string {
	return m.distinct(func(i *Interaction) string { return i.User })
}

// Items returns the sorted distinct items.
func (m *InteractionMatrix) Items() []string {
	return m.distinct(func(i *Interaction) string { return i.Item })
}

// TimeRange returns the first and last timestamps, both zero for an empty matrix.
func (m *InteractionMatrix) TimeRange() (int64, int64) {
	if m.Len() == 0 {
		return 0, 0
	}
	return m.interactions[0].Timestamp, m.interactions[len(m.interactions)-1].Timestamp
}

// Filter returns a new matrix with the interactions that satisfy keep.
func (m *InteractionMatrix) Filter(keep func(Interaction) bool) *InteractionMatrix {
	out := &InteractionMatrix{}
	for _, i := range m.Interactions() {
		if keep(i) {
			out.interactions = append(out.interactions, i)
		}
	}
	return out
}

// Before returns the interactions strictly before t.
func (m *InteractionMatrix) Before(t int64) *InteractionMatrix {
	return m.Filter(func(i Interaction) bool { return i.Timestamp < t })
}

// Window returns the interactions in [start, end).
func (m *InteractionMatrix) Window(start, end int64) *InteractionMatrix {
	return m.Filter(func(i Interaction) bool { return i.Timestamp >= start && i.Timestamp < end })
}

// ForUsers returns the interactions of the supplied users.
func (m *InteractionMatrix) ForUsers(users []string) *InteractionMatrix {
	set := make(map[string]struct{}, len(users))
	for _, u := range users {
		set[u] = struct{}{}
	}
	return m.Filter(func(i Interaction) bool {
		_, ok := set[i.User]
		return ok
	})
}

// FirstPerUser returns only the chronologically first interaction of each user.
func (m *InteractionMatrix) FirstPerUser() *InteractionMatrix {
	seen := make(map[string]bool)
	return m.Filter(func(i Interaction) bool {
		if seen[i.User] {
			return false
		}
		seen[i.User] = true
		return true
	})
}

func (m *InteractionMatrix) distinct(key func(*Interaction) string) []string {
	set := make(map[string]struct{})
	for i := 0; i < m.Len(); i++ {
		set[key(&m.interactions[i])] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
