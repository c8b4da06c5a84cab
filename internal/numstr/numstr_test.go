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

package numstr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberOrString_JSON(t *testing.T) {
	cases := []struct {
		desc     string
		value    NumberOrString
		expected string
	}{
		{
			desc:     "Integer",
			value:    FromInt64(3600),
			expected: `3600`,
		},
		{
			desc:     "Reciprocal",
			value:    FromFloat64(1.0 / 3600),
			expected: `0.0002777777777777778`,
		},
		{
			desc:     "String",
			value:    FromString("cosine"),
			expected: `"cosine"`,
		},
		{
			desc:     "Zero",
			value:    NumberOrString{},
			expected: `0`,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			b, err := json.Marshal(c.value)
			if assert.NoError(t, err) {
				assert.JSONEq(t, c.expected, string(b))
			}
		})
	}
}

func TestNumberOrString_Coercion(t *testing.T) {
	f := FromFloat64(2.5)
	assert.Equal(t, int64(2), f.Int64Value())
	assert.Equal(t, 2.5, f.Float64Value())

	i := FromInt64(86400)
	assert.Equal(t, "86400", i.String())
	assert.Equal(t, float64(86400), i.Float64Value())

	assert.True(t, FromInt64(1).Equal(FromFloat64(1)))
	assert.False(t, FromString("1").Equal(FromInt64(1)))
}
