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

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/tarslab/tarsctl/internal/scenario"
	"github.com/tarslab/tarsctl/internal/template"
)

// DefaultTimerArgs are passed to the runner for timing runs when none are configured.
var DefaultTimerArgs = []string{"time", "--algorithm", "{{ .Algorithm }}", "--data", "{{ .WorkDir }}"}

// Timing is the cost of fitting and predicting with default parameters.
type Timing struct {
	TrainingTime   float64 `json:"training_time"`
	PredictionTime float64 `json:"prediction_time"`
}

// Total returns the combined training and prediction time.
func (t *Timing) Total() float64 {
	return t.TrainingTime + t.PredictionTime
}

// Timer measures how long an algorithm takes to fit and predict.
type Timer interface {
	Time(ctx context.Context, dataset, algorithm string, s scenario.Scenario) (*Timing, error)
}

// CommandTimer measures algorithms using an external runner process.
type CommandTimer struct {
	Runner     string
	RunnerArgs []string
	WorkDir    string
	Log        logr.Logger

	engine  *template.Engine
	written map[scenario.Scenario]string
	temp    []string
}

var _ Timer = &CommandTimer{}
var _ io.Closer = &CommandTimer{}

// NewCommandTimer returns a timer using the supplied runner.
func NewCommandTimer(runner string, runnerArgs ...string) *CommandTimer {
	if len(runnerArgs) == 0 {
		runnerArgs = DefaultTimerArgs
	}
	return &CommandTimer{
		Runner:     runner,
		RunnerArgs: runnerArgs,
		Log:        logr.Discard(),
	}
}

// Time writes the scenario partitions once and asks the runner to time the algorithm.
func (t *CommandTimer) Time(ctx context.Context, dataset, algorithm string, s scenario.Scenario) (*Timing, error) {
	if t.engine == nil {
		t.engine = template.New()
		t.written = make(map[scenario.Scenario]string)
	}

	dir, ok := t.written[s]
	if !ok {
		var err error
		if t.WorkDir != "" {
			dir = filepath.Join(t.WorkDir, dataset)
			err = os.MkdirAll(dir, 0755)
		} else if dir, err = os.MkdirTemp("", "tars-timing-"); err == nil {
			t.temp = append(t.temp, dir)
		}
		if err != nil {
			return nil, err
		}
		if _, err := WritePartitions(dir, s); err != nil {
			return nil, err
		}
		t.written[s] = dir
	}

	data := &template.RunnerData{
		Dataset:    dataset,
		WorkDir:    dir,
		Algorithm:  algorithm,
		Algorithms: []string{algorithm},
		StartTime:  time.Now(),
	}

	timing := &Timing{}
	if err := RunCommand(ctx, t.engine, t.Runner, t.RunnerArgs, data, timing); err != nil {
		return nil, fmt.Errorf("unable to time %s: %w", algorithm, err)
	}

	t.Log.V(1).Info("Timed algorithm", "dataset", dataset, "algorithm", algorithm, "seconds", timing.Total())
	return timing, nil
}

// Close removes the temporary directories holding the partitions of each timed scenario.
func (t *CommandTimer) Close() error {
	var result error
	for _, dir := range t.temp {
		if err := os.RemoveAll(dir); err != nil && result == nil {
			result = err
		}
	}
	t.temp = nil
	t.written = nil
	t.engine = nil
	return result
}
