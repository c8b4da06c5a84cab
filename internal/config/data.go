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

// Config is the top level configuration structure
type Config struct {
	// DatasetPath is the directory holding the dataset files
	DatasetPath string `json:"datasetPath,omitempty"`
	// ResultsPath is the root directory for persisted metrics
	ResultsPath string `json:"resultsPath,omitempty"`
	// Ledger is the path to the run ledger database
	Ledger string `json:"ledger,omitempty"`
	// Runner is the external recommender invocation
	Runner Runner `json:"runner,omitempty"`
	// Sources maps dataset identifiers to remote locations used when the local file is missing
	Sources map[string]string `json:"sources,omitempty"`
}

// Runner describes how the external recommender is invoked
type Runner struct {
	// Command is the executable name or path
	Command string `json:"command,omitempty"`
	// Args are the argument templates used to run a pipeline
	Args []string `json:"args,omitempty"`
	// TimerArgs are the argument templates used to time an algorithm
	TimerArgs []string `json:"timerArgs,omitempty"`
}
