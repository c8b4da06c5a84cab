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

package config

import "path/filepath"

const (
	DefaultResultsPath = "results"
	DefaultRunner      = "tars-runner"
)

// The default loader must NEVER make changes via TarsConfig.Update or TarsConfig.unpersisted

func defaultLoader(cfg *TarsConfig) error {
	d := &cfg.data
	defaultString(&d.DatasetPath, filepath.Join(home(), "datasets"))
	defaultString(&d.ResultsPath, DefaultResultsPath)
	defaultString(&d.Runner.Command, DefaultRunner)
	defaultString(&d.Ledger, filepath.Join(dataHome(), ledgerFilename))
	return nil
}

// defaultString overwrites an empty s1 with the value of s2
func defaultString(s1 *string, s2 string) {
	if *s1 == "" {
		*s1 = s2
	}
}
