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
	"strings"

	"github.com/tarslab/tarsctl/internal/numstr"
)

// CheckBounds ensures a numeric range is usable for sampling.
func CheckBounds(name, parameter string, min, max numstr.NumberOrString) error {
	if min.IsString || max.IsString {
		return NewError(ErrInvalidCatalog, "%s: bounds for %s must be numeric", name, parameter)
	}
	if min.Float64Value() >= max.Float64Value() {
		return NewError(ErrInvalidCatalog, "%s: minimum for %s must be strictly less then maximum [%s,%s]",
			name, parameter, min.String(), max.String())
	}
	return nil
}

// CheckValue ensures a value falls inside the supplied numeric bounds or categorical values.
func CheckValue(parameter string, v numstr.NumberOrString, min, max *numstr.NumberOrString, values []numstr.NumberOrString) error {
	if len(values) > 0 {
		allowed := make([]string, 0, len(values))
		for i := range values {
			if values[i].Equal(v) {
				return nil
			}
			allowed = append(allowed, values[i].String())
		}
		return NewError(ErrInvalidRequest, "categorical value for %s is out of range: %s [%s]",
			parameter, v.String(), strings.Join(allowed, ", "))
	}

	if v.IsString {
		return NewError(ErrInvalidRequest, "numeric value for %s must not be a string: %s", parameter, v.String())
	}

	val := v.Float64Value()
	if min != nil && val < min.Float64Value() {
		return NewError(ErrInvalidRequest, "value for %s is below the minimum of %s: %s", parameter, min.String(), v.String())
	}
	if max != nil && val > max.Float64Value() {
		return NewError(ErrInvalidRequest, "value for %s is above the maximum of %s: %s", parameter, max.String(), v.String())
	}
	return nil
}
