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

// Package experiment drives a single experiment invocation: it validates the
// request, loads and splits the dataset once and hands every requested catalog
// entry to the pipeline collaborator.
package experiment

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/tarslab/tarsctl/internal/catalog"
	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/pipeline"
	"github.com/tarslab/tarsctl/internal/scenario"
	"github.com/tarslab/tarsctl/internal/validation"
)

// BuilderFactory returns the pipeline builder for a validated request.
type BuilderFactory func(req *Request, p *dataset.Profile) pipeline.Builder

// Driver sequences a request through the dataset, scenario and pipeline collaborators.
type Driver struct {
	// Catalog holds the runnable experiments.
	Catalog *catalog.Catalog
	// Resolve returns the dataset profile, it must not perform any I/O.
	Resolve func(id, basePath string, opts ...dataset.Option) (*dataset.Profile, error)
	// Loader materializes the interaction matrix.
	Loader dataset.Loader
	// NewBuilder returns the pipeline builder.
	NewBuilder BuilderFactory
	// Suite is the metric suite registered with every pipeline.
	Suite pipeline.Suite
	// Log receives diagnostic messages.
	Log logr.Logger
	// Observer receives progress events, it may be nil.
	Observer Observer
}

// NewDriver returns a driver for the default catalog and dataset profiles.
func NewDriver(log logr.Logger, loader dataset.Loader, newBuilder BuilderFactory) *Driver {
	return &Driver{
		Catalog:    catalog.Default(),
		Resolve:    dataset.Resolve,
		Loader:     loader,
		NewBuilder: newBuilder,
		Suite:      pipeline.DefaultSuite(),
		Log:        log,
	}
}

// Plan is a fully validated request.
type Plan struct {
	Request     *Request
	Profile     *dataset.Profile
	Scenario    scenario.Kind
	Experiments []catalog.Resolved
}

// Result summarizes a completed invocation.
type Result struct {
	ID           uuid.UUID
	Plan         *Plan
	Interactions int
	Users        int
	Items        int
	StartTime    time.Time
	EndTime      time.Time
	ResultsDir   string
	Metrics      *pipeline.Results
}

// Validate resolves every reference in the request without loading any data.
func (d *Driver) Validate(req *Request) (*Plan, error) {
	if req.DatasetID == "" {
		return nil, validation.NewError(validation.ErrInvalidRequest, "dataset is required")
	}
	if len(req.ExperimentIDs) == 0 {
		return nil, validation.NewError(validation.ErrInvalidRequest, "at least one algorithm is required")
	}

	plan := &Plan{Request: req}
	for _, id := range req.ExperimentIDs {
		r, err := d.Catalog.Lookup(id)
		if err != nil {
			return nil, err
		}
		plan.Experiments = append(plan.Experiments, r)
	}

	kind, err := scenario.ParseKind(req.Scenario)
	if err != nil {
		return nil, err
	}
	plan.Scenario = kind

	profile, err := d.Resolve(req.DatasetID, req.DatasetPath, dataset.WithSource(req.DatasetSource))
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	plan.Profile = profile

	return plan, nil
}

// Run validates the request, loads and splits the dataset once, registers every
// requested experiment and runs the resulting pipeline.
func (d *Driver) Run(ctx context.Context, req *Request) (*Result, error) {
	plan, err := d.Validate(req)
	if err != nil {
		return nil, err
	}

	result := &Result{ID: uuid.New(), Plan: plan, StartTime: time.Now()}
	log := d.Log.WithValues("run", result.ID.String(), "dataset", plan.Profile.ID)
	log.Info("Running experiments", "algorithms", strings.Join(req.ExperimentIDs, ", "))

	s, err := d.load(ctx, plan, result)
	if err != nil {
		return nil, err
	}

	done := d.phase(PhaseRegister, fmt.Sprintf("Registering %d algorithms", len(plan.Experiments)))
	b := d.NewBuilder(req, plan.Profile)
	if err := b.SetDataFromScenario(s); err != nil {
		done("", err)
		return nil, err
	}
	d.Suite.Register(b)
	for _, r := range plan.Experiments {
		log.V(1).Info("Registering algorithm", "experiment", r.ID, "algorithm", r.AlgorithmID)
		b.AddAlgorithm(r.AlgorithmID, r.Params, r.Search)
	}
	done("Registered algorithms", nil)

	done = d.phase(PhaseBuild, "Building pipeline")
	p, err := b.Build()
	done("Built pipeline", err)
	if err != nil {
		return nil, err
	}
	if c, ok := p.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				log.Error(err, "Failed to clean up pipeline")
			}
		}()
	}

	done = d.phase(PhaseRun, "Running pipeline")
	err = p.Run(ctx)
	done("Finished running pipeline", err)
	if err != nil {
		return nil, err
	}

	done = d.phase(PhaseSave, "Saving metrics")
	err = p.SaveMetrics()
	if r, ok := p.(pipeline.Reporter); ok && err == nil {
		result.ResultsDir = r.ResultsDir()
		result.Metrics = r.Results()
	}
	done(result.ResultsDir, err)
	if err != nil {
		return nil, err
	}

	result.EndTime = time.Now()
	log.Info("Finished experiments", "duration", result.EndTime.Sub(result.StartTime).String(), "results", result.ResultsDir)
	return result, nil
}

// load materializes and splits the dataset of a plan.
func (d *Driver) load(ctx context.Context, plan *Plan, result *Result) (scenario.Scenario, error) {
	done := d.phase(PhaseLoad, "Loading dataset")
	m, err := d.Loader.Load(ctx, plan.Profile)
	if err != nil {
		done("", err)
		return nil, err
	}
	result.Interactions = m.Len()
	result.Users, result.Items = m.Shape()
	done(fmt.Sprintf("Loaded dataset, shape = (%s, %s)", humanize.Comma(int64(result.Users)), humanize.Comma(int64(result.Items))), nil)

	done = d.phase(PhaseSplit, "Splitting dataset")
	p := plan.Profile
	s, err := scenario.New(plan.Scenario, p.TTest, p.TValidation, p.DeltaOut)
	if err == nil {
		err = s.Split(m)
	}
	done("Split dataset", err)
	if err != nil {
		return nil, err
	}
	return s, nil
}
