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

import "os"

const (
	DatasetPathEnv = "TARS_DATASET_PATH"
	ResultsPathEnv = "TARS_RESULTS_PATH"
	RunnerEnv      = "TARS_RUNNER"
	LedgerEnv      = "TARS_LEDGER"
)

// envLoader adds environment variable overrides to the configuration
func envLoader(cfg *TarsConfig) error {
	overrideString(&cfg.data.DatasetPath, os.Getenv(DatasetPathEnv))
	overrideString(&cfg.data.ResultsPath, os.Getenv(ResultsPathEnv))
	overrideString(&cfg.data.Runner.Command, os.Getenv(RunnerEnv))
	overrideString(&cfg.data.Ledger, os.Getenv(LedgerEnv))
	return nil
}

// overrideString overwrites s1 with any non-empty s2
func overrideString(s1 *string, s2 string) {
	if s2 != "" {
		*s1 = s2
	}
}
