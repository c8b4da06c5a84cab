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

import (
	"fmt"
	"strings"
)

// SetProperty is a configuration change that updates a single property using a dotted name
func SetProperty(name, value string) Change {
	return func(cfg *Config) error {
		switch {
		case name == "datasetPath":
			cfg.DatasetPath = value
		case name == "resultsPath":
			cfg.ResultsPath = value
		case name == "ledger":
			cfg.Ledger = value
		case name == "runner.command":
			cfg.Runner.Command = value
		case name == "runner.args":
			cfg.Runner.Args = splitList(value)
		case name == "runner.timerArgs":
			cfg.Runner.TimerArgs = splitList(value)
		case strings.HasPrefix(name, "sources."):
			id := strings.TrimPrefix(name, "sources.")
			if id == "" {
				return fmt.Errorf("missing dataset name in %q", name)
			}
			if cfg.Sources == nil {
				cfg.Sources = make(map[string]string)
			}
			if value == "" {
				delete(cfg.Sources, id)
			} else {
				cfg.Sources[id] = value
			}
		default:
			return fmt.Errorf("unknown configuration property %q", name)
		}
		return nil
	}
}

// splitList splits a space separated argument list, an empty value clears the list
func splitList(value string) []string {
	return strings.Fields(value)
}
