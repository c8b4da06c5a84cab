/*
Copyright 2019 GramLabs, Inc.

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

package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	cases := []struct {
		desc          string
		version       string
		buildMetadata string
		gitCommit     string
		expected      string
	}{
		{
			desc:     "Source",
			version:  defaultVersion,
			expected: "v0.0.0-source",
		},
		{
			desc:          "PreRelease",
			version:       "v0.3.0-beta.2",
			buildMetadata: "ci.41",
			gitCommit:     "6d9c071",
			expected:      "v0.3.0-beta.2+ci.41",
		},
		{
			desc:          "Release",
			version:       "v0.3.0",
			buildMetadata: "ci.41",
			expected:      "v0.3.0",
		},
		{
			desc:     "MissingPrefix",
			version:  "0.3.0",
			expected: defaultVersion,
		},
		{
			desc:     "Empty",
			expected: defaultVersion,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			defer resetVersion()
			Version = c.version
			BuildMetadata = c.buildMetadata
			GitCommit = c.gitCommit

			info := GetInfo()
			assert.Equal(t, c.expected, info.String())
			assert.Equal(t, c.gitCommit, info.GitCommit)
			assert.Equal(t, runtime.Version(), info.GoVersion)
		})
	}
}

func resetVersion() {
	Version = defaultVersion
	BuildMetadata = ""
	GitCommit = ""
}
