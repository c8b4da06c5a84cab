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

// Package config manages the persisted tarsctl configuration: dataset and
// results locations, the recommender runner and the run ledger.
package config

import (
	"encoding/json"
)

// Loader is used to initially populate a configuration
type Loader func(cfg *TarsConfig) error

// Change is used to apply a configuration change that should be persisted
type Change func(cfg *Config) error

// TarsConfig is the structure used to manage configuration data
type TarsConfig struct {
	// Filename is the path to the configuration file; if left blank, it will be populated using XDG base directory conventions on the next Load
	Filename string

	data        Config
	unpersisted []Change
}

// MarshalJSON ensures only the configuration data is marshalled
func (tc *TarsConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(tc.data)
}

// Load will populate the configuration
func (tc *TarsConfig) Load(extra ...Loader) error {
	var loaders []Loader
	loaders = append(loaders, fileLoader)
	loaders = append(loaders, extra...)
	loaders = append(loaders, envLoader, defaultLoader)
	for i := range loaders {
		if err := loaders[i](tc); err != nil {
			return err
		}
	}
	return nil
}

// Update will make a change to the configuration data that should be persisted on the next call to Write
func (tc *TarsConfig) Update(change Change) error {
	if err := change(&tc.data); err != nil {
		return err
	}
	tc.unpersisted = append(tc.unpersisted, change)
	return nil
}

// Write all unpersisted changes to disk
func (tc *TarsConfig) Write() error {
	if tc.Filename == "" || len(tc.unpersisted) == 0 {
		return nil
	}

	f := file{}
	if err := f.read(tc.Filename); err != nil {
		return err
	}

	for i := range tc.unpersisted {
		if err := tc.unpersisted[i](&f.data); err != nil {
			return err
		}
	}

	if err := f.write(tc.Filename); err != nil {
		return err
	}

	tc.unpersisted = nil
	return nil
}

// Merge combines the supplied data with what is already present in this configuration; unlike Update, changes
// will not be persisted on the next write
func (tc *TarsConfig) Merge(data *Config) {
	mergeString(&tc.data.DatasetPath, data.DatasetPath)
	mergeString(&tc.data.ResultsPath, data.ResultsPath)
	mergeString(&tc.data.Ledger, data.Ledger)
	mergeString(&tc.data.Runner.Command, data.Runner.Command)
	if len(data.Runner.Args) > 0 && len(tc.data.Runner.Args) == 0 {
		tc.data.Runner.Args = append([]string(nil), data.Runner.Args...)
	}
	if len(data.Runner.TimerArgs) > 0 && len(tc.data.Runner.TimerArgs) == 0 {
		tc.data.Runner.TimerArgs = append([]string(nil), data.Runner.TimerArgs...)
	}
	for k, v := range data.Sources {
		if tc.data.Sources == nil {
			tc.data.Sources = make(map[string]string)
		}
		if _, ok := tc.data.Sources[k]; !ok {
			tc.data.Sources[k] = v
		}
	}
}

// Data returns a copy of the current configuration data
func (tc *TarsConfig) Data() Config {
	d := tc.data
	d.Runner.Args = append([]string(nil), tc.data.Runner.Args...)
	d.Runner.TimerArgs = append([]string(nil), tc.data.Runner.TimerArgs...)
	d.Sources = make(map[string]string, len(tc.data.Sources))
	for k, v := range tc.data.Sources {
		d.Sources[k] = v
	}
	return d
}

// DatasetPath returns the directory holding the dataset files
func (tc *TarsConfig) DatasetPath() string { return tc.data.DatasetPath }

// ResultsPath returns the root directory for persisted metrics
func (tc *TarsConfig) ResultsPath() string { return tc.data.ResultsPath }

// LedgerPath returns the location of the run ledger database
func (tc *TarsConfig) LedgerPath() string { return tc.data.Ledger }

// Runner returns the recommender runner configuration
func (tc *TarsConfig) Runner() Runner { return tc.data.Runner }

// Source returns the remote location configured for a dataset, if any
func (tc *TarsConfig) Source(datasetID string) string { return tc.data.Sources[datasetID] }

// Sources returns every configured dataset source
func (tc *TarsConfig) Sources() map[string]string { return tc.Data().Sources }

// mergeString overwrites an empty s1 with the value of s2
func mergeString(s1 *string, s2 string) {
	if *s1 == "" {
		*s1 = s2
	}
}
