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
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarslab/tarsctl/internal/catalog"
	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/pipeline"
	"github.com/tarslab/tarsctl/internal/scenario"
	"github.com/tarslab/tarsctl/internal/validation"
)

type countingLoader struct {
	calls int
	m     *dataset.InteractionMatrix
	err   error
}

func (l *countingLoader) Load(context.Context, *dataset.Profile) (*dataset.InteractionMatrix, error) {
	l.calls++
	return l.m, l.err
}

type registration struct {
	algorithm string
	params    catalog.Params
	search    catalog.SearchSpace
}

type fakeBuilder struct {
	scenario     scenario.Scenario
	optimisation []pipeline.Metric
	metrics      []pipeline.Metric
	algorithms   []registration
	pipeline     *fakePipeline
}

func (b *fakeBuilder) SetDataFromScenario(s scenario.Scenario) error {
	b.scenario = s
	return scenario.Check(s)
}

func (b *fakeBuilder) SetOptimisationMetric(name string, k int) {
	b.optimisation = append(b.optimisation, pipeline.Metric{Name: name, K: []int{k}})
}

func (b *fakeBuilder) AddMetric(name string, k ...int) {
	b.metrics = append(b.metrics, pipeline.Metric{Name: name, K: k})
}

func (b *fakeBuilder) AddAlgorithm(algorithm string, params catalog.Params, search catalog.SearchSpace) {
	b.algorithms = append(b.algorithms, registration{algorithm: algorithm, params: params, search: search})
}

func (b *fakeBuilder) Build() (pipeline.Pipeline, error) {
	return b.pipeline, nil
}

// candidates returns the number of grid points registered with the builder.
func (b *fakeBuilder) candidates() int {
	n := 0
	for _, r := range b.algorithms {
		if g, ok := r.search.(*catalog.Grid); ok {
			n += len(g.Candidates())
		}
	}
	return n
}

type fakePipeline struct {
	runs, saves, closes int
	runErr              error
}

func (p *fakePipeline) Close() error {
	p.closes++
	return nil
}

func (p *fakePipeline) Run(context.Context) error {
	p.runs++
	return p.runErr
}

func (p *fakePipeline) SaveMetrics() error {
	p.saves++
	return nil
}

// interactions splits 2/1/1 between validation training, validation and test.
func interactions() *dataset.InteractionMatrix {
	return dataset.NewInteractionMatrix([]dataset.Interaction{
		{User: "u1", Item: "i1", Timestamp: 10},
		{User: "u2", Item: "i2", Timestamp: 20},
		{User: "u1", Item: "i3", Timestamp: 30},
		{User: "u2", Item: "i3", Timestamp: 40},
	})
}

func newTestDriver(loader dataset.Loader, b *fakeBuilder) *Driver {
	d := NewDriver(logr.Discard(), loader, func(*Request, *dataset.Profile) pipeline.Builder { return b })
	d.Resolve = func(id, basePath string, opts ...dataset.Option) (*dataset.Profile, error) {
		if id != "synthetic" {
			return dataset.Resolve(id, basePath, opts...)
		}
		return &dataset.Profile{
			ID:          id,
			BasePath:    basePath,
			TTest:       time.Unix(35, 0),
			TValidation: time.Unix(25, 0),
			DeltaOut:    time.Hour,
		}, nil
	}
	return d
}

func TestRequest_Complete(t *testing.T) {
	r := NewRequest(catalog.Default(), "adressa")
	assert.Equal(t, catalog.Default().IDs(), r.ExperimentIDs)
	assert.Equal(t, "last-item-prediction", r.Scenario)
	assert.Equal(t, "results", r.ResultsPath)
	assert.Equal(t, "adressa", r.ExperimentName)

	r = &Request{DatasetID: "adressa", ExperimentName: "weekly", ExperimentIDs: []string{"TARSItemKNNVaz"}}
	r.Complete(catalog.Default())
	assert.Equal(t, "weekly", r.ExperimentName)
	assert.Equal(t, []string{"TARSItemKNNVaz"}, r.ExperimentIDs)
}

func TestDriver_FailFast(t *testing.T) {
	cases := []struct {
		desc    string
		req     Request
		errType validation.ErrorType
	}{
		{
			desc:    "UnknownExperiment",
			req:     Request{DatasetID: "synthetic", ExperimentIDs: []string{"TARSItemKNNVaz", "NotARealAlgorithm"}},
			errType: validation.ErrUnknownExperiment,
		},
		{
			desc:    "UnsupportedScenario",
			req:     Request{DatasetID: "synthetic", Scenario: "Weekly"},
			errType: validation.ErrUnsupportedScenario,
		},
		{
			desc:    "UnknownDataset",
			req:     Request{DatasetID: "movielens"},
			errType: validation.ErrUnknownDataset,
		},
		{
			desc:    "MissingDataset",
			req:     Request{},
			errType: validation.ErrInvalidRequest,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			loader := &countingLoader{m: interactions()}
			b := &fakeBuilder{pipeline: &fakePipeline{}}
			d := newTestDriver(loader, b)

			req := c.req
			req.Complete(d.Catalog)
			_, err := d.Run(context.Background(), &req)
			require.Error(t, err)
			assert.True(t, validation.IsType(err, c.errType), err.Error())
			assert.Equal(t, 0, loader.calls)
			assert.Empty(t, b.algorithms)
		})
	}
}

func TestDriver_Run(t *testing.T) {
	loader := &countingLoader{m: interactions()}
	p := &fakePipeline{}
	b := &fakeBuilder{pipeline: p}
	d := newTestDriver(loader, b)

	var events []Event
	d.Observer = ObserverFunc(func(e Event) { events = append(events, e) })

	req := &Request{DatasetID: "synthetic", ExperimentIDs: []string{"TARSItemKNNLee_W3"}, Scenario: "timed"}
	req.Complete(d.Catalog)
	result, err := d.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 1, p.runs)
	assert.Equal(t, 1, p.saves)
	assert.Equal(t, 1, p.closes)

	assert.Equal(t, 2, b.scenario.ValidationTraining().Len())
	assert.Equal(t, 1, b.scenario.ValidationOut().Len())
	assert.Equal(t, 1, b.scenario.TestOut().Len())

	assert.Len(t, b.optimisation, 1)
	assert.Len(t, b.metrics, 5)
	require.Len(t, b.algorithms, 1)
	assert.Equal(t, "TARSItemKNNLee_W3", b.algorithms[0].algorithm)
	assert.Equal(t, 2, b.candidates())

	assert.Equal(t, 4, result.Interactions)
	assert.Equal(t, 2, result.Users)
	assert.Equal(t, 3, result.Items)
	assert.Equal(t, "synthetic", result.Plan.Request.ExperimentName)

	require.NotEmpty(t, events)
	assert.Equal(t, PhaseLoad, events[0].Phase)
	assert.Equal(t, PhaseSave, events[len(events)-1].Phase)
	assert.True(t, events[len(events)-1].Done)
}

func TestDriver_RunDuplicates(t *testing.T) {
	loader := &countingLoader{m: interactions()}
	b := &fakeBuilder{pipeline: &fakePipeline{}}
	d := newTestDriver(loader, b)

	req := &Request{DatasetID: "synthetic", ExperimentIDs: []string{"TARSItemKNNLee_W3", "TARSItemKNNlog", "TARSItemKNNLee_W3"}}
	req.Complete(d.Catalog)
	_, err := d.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
	require.Len(t, b.algorithms, 3)
	assert.Equal(t, "TARSItemKNNLee_W3", b.algorithms[0].algorithm)
	assert.Equal(t, "TARSItemKNN", b.algorithms[1].algorithm)
	assert.Equal(t, "log", b.algorithms[1].params["decay_function"].StrVal)
	assert.Equal(t, "TARSItemKNNLee_W3", b.algorithms[2].algorithm)
}

func TestDriver_PropagatesErrors(t *testing.T) {
	loadErr := errors.New("disk on fire")
	loader := &countingLoader{err: loadErr}
	b := &fakeBuilder{pipeline: &fakePipeline{}}
	d := newTestDriver(loader, b)

	req := NewRequest(d.Catalog, "synthetic")
	_, err := d.Run(context.Background(), req)
	assert.Same(t, loadErr, err)

	runErr := errors.New("search failed")
	loader = &countingLoader{m: interactions()}
	b = &fakeBuilder{pipeline: &fakePipeline{runErr: runErr}}
	d = newTestDriver(loader, b)
	_, err = d.Run(context.Background(), NewRequest(d.Catalog, "synthetic"))
	assert.Same(t, runErr, err)
	assert.Equal(t, 0, b.pipeline.saves)
	assert.Equal(t, 1, b.pipeline.closes)
}

type fakeTimer struct {
	calls []string
}

func (f *fakeTimer) Time(_ context.Context, datasetID, algorithm string, s scenario.Scenario) (*pipeline.Timing, error) {
	f.calls = append(f.calls, datasetID+"/"+algorithm)
	return &pipeline.Timing{TrainingTime: 1, PredictionTime: 0.5}, nil
}

func TestDriver_Time(t *testing.T) {
	loader := &countingLoader{m: interactions()}
	d := newTestDriver(loader, nil)
	timer := &fakeTimer{}

	records, err := d.Time(context.Background(), &TimingRequest{
		DatasetIDs: []string{"synthetic", "recsys2015"},
		Algorithms: []string{"EASE", "ItemKNN"},
	}, timer)
	require.NoError(t, err)

	assert.Equal(t, 2, loader.calls)
	assert.Equal(t, []string{"synthetic/EASE", "synthetic/ItemKNN", "recsys2015/ItemKNN"}, timer.calls)
	require.Len(t, records, 3)
	assert.Equal(t, 1.5, records[0].Timing)

	var buf bytes.Buffer
	require.NoError(t, WriteTimings(&buf, records[:1]))
	assert.Equal(t, "algorithm,dataset,timing,training_time,prediction_time\nEASE,synthetic,1.5,1,0.5\n", buf.String())
}

func TestSkipTiming(t *testing.T) {
	assert.True(t, SkipTiming("recsys2015", "EASE"))
	assert.True(t, SkipTiming("amazon_toys_and_games", "EASE"))
	assert.False(t, SkipTiming("amazon_games", "EASE"))
	assert.False(t, SkipTiming("recsys2015", "ItemKNN"))
}
