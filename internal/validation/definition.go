/*
Copyright 2020 GramLabs, Inc.

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

package validation

import (
	"sort"
	"strings"

	"github.com/tarslab/tarsctl/internal/numstr"
)

// CheckDisjoint ensures that no parameter is both fixed and searched.
func CheckDisjoint(name string, fixed map[string]numstr.NumberOrString, searched []string) error {
	var overlap []string
	for _, s := range searched {
		if _, ok := fixed[s]; ok {
			overlap = append(overlap, s)
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return NewError(ErrInvalidCatalog, "%s: parameters are both fixed and searched: %s", name, strings.Join(overlap, ", "))
	}
	return nil
}

// CheckUnique ensures the searched parameter names are not repeated.
func CheckUnique(name string, searched []string) error {
	seen := make(map[string]bool, len(searched))
	for _, s := range searched {
		if s == "" {
			return NewError(ErrInvalidCatalog, "%s: parameter name is required", name)
		}
		if seen[s] {
			return NewError(ErrInvalidCatalog, "%s: parameter %q is searched more than once", name, s)
		}
		seen[s] = true
	}
	return nil
}
