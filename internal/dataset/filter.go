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

import "fmt"

// Filter is a post-load preprocessing step.
type Filter interface {
	Apply(m *InteractionMatrix) *InteractionMatrix
	String() string
}

// MinUsersPerItem drops items that were interacted with by fewer than Min users.
type MinUsersPerItem struct {
	Min int
	// CountDuplicates counts every interaction instead of distinct users.
	CountDuplicates bool
}

func (f MinUsersPerItem) Apply(m *InteractionMatrix) *InteractionMatrix {
	counts := count(m, func(i Interaction) (string, string) { return i.Item, i.User }, f.CountDuplicates)
	return m.Filter(func(i Interaction) bool { return counts[i.Item] >= f.Min })
}

func (f MinUsersPerItem) String() string {
	return fmt.Sprintf("MinUsersPerItem(%d)", f.Min)
}

// MinItemsPerUser drops users that interacted with fewer than Min items.
type MinItemsPerUser struct {
	Min int
	// CountDuplicates counts every interaction instead of distinct items.
	CountDuplicates bool
}

func (f MinItemsPerUser) Apply(m *InteractionMatrix) *InteractionMatrix {
	counts := count(m, func(i Interaction) (string, string) { return i.User, i.Item }, f.CountDuplicates)
	return m.Filter(func(i Interaction) bool { return counts[i.User] >= f.Min })
}

func (f MinItemsPerUser) String() string {
	return fmt.Sprintf("MinItemsPerUser(%d)", f.Min)
}

// ApplyFilters applies each filter in order; the result depends on the order.
func ApplyFilters(m *InteractionMatrix, filters ...Filter) *InteractionMatrix {
	for _, f := range filters {
		m = f.Apply(m)
	}
	return m
}

func count(m *InteractionMatrix, key func(Interaction) (string, string), duplicates bool) map[string]int {
	counts := make(map[string]int)
	seen := make(map[[2]string]bool)
	for _, i := range m.Interactions() {
		group, member := key(i)
		if !duplicates {
			k := [2]string{group, member}
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		counts[group]++
	}
	return counts
}
