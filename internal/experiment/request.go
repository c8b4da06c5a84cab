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

package experiment

import (
	"github.com/tarslab/tarsctl/internal/catalog"
	"github.com/tarslab/tarsctl/internal/scenario"
)

// DefaultResultsPath is the results root used when none is requested.
const DefaultResultsPath = "results"

// Request is a single invocation of the driver.
type Request struct {
	// DatasetID is the dataset profile to evaluate on.
	DatasetID string
	// DatasetPath is the directory holding the dataset files.
	DatasetPath string
	// DatasetSource is an optional remote location of the dataset file.
	DatasetSource string
	// ExperimentIDs are the catalog entries to register, duplicates are registered twice.
	ExperimentIDs []string
	// Scenario is the name of the temporal split strategy.
	Scenario string
	// ResultsPath is the root directory of the persisted metrics.
	ResultsPath string
	// ExperimentName is the folder written inside the results root.
	ExperimentName string
}

// NewRequest returns a request for the dataset with every default filled in.
func NewRequest(c *catalog.Catalog, datasetID string) *Request {
	r := &Request{DatasetID: datasetID}
	r.Complete(c)
	return r
}

// Complete fills in the defaults for any unspecified value.
func (r *Request) Complete(c *catalog.Catalog) {
	if len(r.ExperimentIDs) == 0 && c != nil {
		r.ExperimentIDs = c.IDs()
	}
	if r.Scenario == "" {
		r.Scenario = string(scenario.KindLastItemPrediction)
	}
	if r.ResultsPath == "" {
		r.ResultsPath = DefaultResultsPath
	}
	if r.ExperimentName == "" {
		r.ExperimentName = r.DatasetID
	}
}
