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

// Package pipeline defines the contract with the recommender library that trains,
// searches and evaluates the registered algorithms.
package pipeline

import (
	"context"

	"github.com/tarslab/tarsctl/internal/catalog"
	"github.com/tarslab/tarsctl/internal/scenario"
)

// Builder collects the data, metrics and algorithms of a pipeline.
type Builder interface {
	// SetDataFromScenario uses the partitions of a split scenario.
	SetDataFromScenario(s scenario.Scenario) error
	// SetOptimisationMetric sets the metric used to select the best point of each search space.
	SetOptimisationMetric(name string, k int)
	// AddMetric adds an evaluation metric at each of the supplied cutoff ranks.
	AddMetric(name string, k ...int)
	// AddAlgorithm registers an algorithm, the parameters and search space are passed through unchanged.
	AddAlgorithm(algorithm string, params catalog.Params, search catalog.SearchSpace)
	// Build returns the runnable pipeline.
	Build() (Pipeline, error)
}

// Pipeline trains and evaluates the registered algorithms.
type Pipeline interface {
	// Run executes the pipeline.
	Run(ctx context.Context) error
	// SaveMetrics persists the metrics of the last run.
	SaveMetrics() error
}

// Reporter is implemented by pipelines that expose the results of the last run.
type Reporter interface {
	Results() *Results
	ResultsDir() string
}

// Metric is a ranking metric evaluated at one or more cutoff ranks.
type Metric struct {
	Name string `json:"name"`
	K    []int  `json:"k"`
}

// Suite is the set of metrics registered with every pipeline.
type Suite struct {
	Optimisation Metric
	Metrics      []Metric
}

// DefaultSuite returns the ranking metrics used to evaluate every experiment.
func DefaultSuite() Suite {
	return Suite{
		Optimisation: Metric{Name: "NDCGK", K: []int{10}},
		Metrics: []Metric{
			{Name: "NDCGK", K: []int{10, 20, 50}},
			{Name: "CoverageK", K: []int{10, 20}},
			{Name: "CalibratedRecallK", K: []int{10, 20, 50}},
			{Name: "ReciprocalRankK", K: []int{10, 20, 50}},
			{Name: "PrecisionK", K: []int{10, 20, 50}},
		},
	}
}

// Register adds the suite's metrics to the builder.
func (s Suite) Register(b Builder) {
	b.SetOptimisationMetric(s.Optimisation.Name, s.Optimisation.K[0])
	for _, m := range s.Metrics {
		b.AddMetric(m.Name, m.K...)
	}
}
