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

// Package version exposes the build information of the tarsctl binary.
package version

import (
	"runtime"
	"strings"
)

const defaultVersion = "v0.0.0-source"

// These variables are set by the linker
var (
	Version       = defaultVersion
	BuildMetadata = ""
	GitCommit     = ""
)

// Info is the version information
type Info struct {
	Version       string `json:"version"`
	BuildMetadata string `json:"build,omitempty"`
	GitCommit     string `json:"gitCommit,omitempty"`
	GoVersion     string `json:"goVersion,omitempty"`
}

// GetInfo returns the current version information
func GetInfo() *Info {
	v := Version
	if !strings.HasPrefix(v, "v") {
		v = defaultVersion
	}
	return &Info{
		Version:       v,
		BuildMetadata: BuildMetadata,
		GitCommit:     GitCommit,
		GoVersion:     runtime.Version(),
	}
}

// String returns the semantic version, build metadata is only included for pre-releases
func (i *Info) String() string {
	if strings.Contains(i.Version, "-") && i.BuildMetadata != "" {
		return i.Version + "+" + i.BuildMetadata
	}
	return i.Version
}
