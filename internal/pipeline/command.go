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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/tarslab/tarsctl/internal/catalog"
	"github.com/tarslab/tarsctl/internal/scenario"
	"github.com/tarslab/tarsctl/internal/template"
	"sigs.k8s.io/yaml"
)

// DefinitionFile is the name of the pipeline definition written to the work directory.
const DefinitionFile = "pipeline.yaml"

// DefaultRunnerArgs are passed to the runner when none are configured.
var DefaultRunnerArgs = []string{"run", "--pipeline", "{{ .Definition }}", "--output", "{{ .OutputDir }}"}

// Definition is the document describing a pipeline to the runner.
type Definition struct {
	Name               string                `json:"name"`
	Dataset            string                `json:"dataset,omitempty"`
	Scenario           scenario.Kind         `json:"scenario"`
	Data               map[string]string     `json:"data"`
	OptimisationMetric Metric                `json:"optimisationMetric"`
	Metrics            []Metric              `json:"metrics"`
	Algorithms         []AlgorithmDefinition `json:"algorithms"`
}

// AlgorithmDefinition is a registered algorithm.
type AlgorithmDefinition struct {
	Name   string              `json:"name"`
	Params catalog.Params      `json:"params,omitempty"`
	Search catalog.SearchSpace `json:"search,omitempty"`
}

// CommandBuilder builds pipelines executed by an external runner process.
type CommandBuilder struct {
	// Name is the experiment name, used as the results folder.
	Name string
	// BasePath is the root directory of the results.
	BasePath string
	// Dataset is the dataset identifier.
	Dataset string
	// Runner is the runner executable.
	Runner string
	// RunnerArgs are templates rendered against the pipeline.
	RunnerArgs []string
	// WorkDir holds the partitions and definition, a temporary directory is used when empty.
	WorkDir string
	// Log receives progress messages.
	Log logr.Logger

	scenario     scenario.Scenario
	optimisation *Metric
	metrics      []Metric
	algorithms   []AlgorithmDefinition
}

var _ Builder = &CommandBuilder{}

// NewCommandBuilder returns a builder for the named experiment.
func NewCommandBuilder(name, basePath, runner string, runnerArgs ...string) *CommandBuilder {
	if len(runnerArgs) == 0 {
		runnerArgs = DefaultRunnerArgs
	}
	return &CommandBuilder{
		Name:       name,
		BasePath:   basePath,
		Runner:     runner,
		RunnerArgs: runnerArgs,
		Log:        logr.Discard(),
	}
}

func (b *CommandBuilder) SetDataFromScenario(s scenario.Scenario) error {
	if err := scenario.Check(s); err != nil {
		return err
	}
	b.scenario = s
	return nil
}

func (b *CommandBuilder) SetOptimisationMetric(name string, k int) {
	b.optimisation = &Metric{Name: name, K: []int{k}}
}

func (b *CommandBuilder) AddMetric(name string, k ...int) {
	b.metrics = append(b.metrics, Metric{Name: name, K: k})
}

func (b *CommandBuilder) AddAlgorithm(algorithm string, params catalog.Params, search catalog.SearchSpace) {
	b.algorithms = append(b.algorithms, AlgorithmDefinition{Name: algorithm, Params: params, Search: search})
}

// Build writes the scenario partitions and the pipeline definition to the work directory.
func (b *CommandBuilder) Build() (Pipeline, error) {
	if b.scenario == nil {
		return nil, fmt.Errorf("pipeline data is required")
	}
	if b.optimisation == nil {
		return nil, fmt.Errorf("optimisation metric is required")
	}
	if len(b.algorithms) == 0 {
		return nil, fmt.Errorf("at least one algorithm is required")
	}
	if b.Runner == "" {
		return nil, fmt.Errorf("runner is required")
	}

	dir, temporary := b.WorkDir, b.WorkDir == ""
	if temporary {
		var err error
		if dir, err = os.MkdirTemp("", "tars-pipeline-"); err != nil {
			return nil, err
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	p, err := b.build(dir)
	if err != nil {
		if temporary {
			_ = os.RemoveAll(dir)
		}
		return nil, err
	}
	if temporary {
		p.tempDir = dir
	}
	return p, nil
}

func (b *CommandBuilder) build(dir string) (*commandPipeline, error) {

	def := &Definition{
		Name:               b.Name,
		Dataset:            b.Dataset,
		Scenario:           b.scenario.Kind(),
		OptimisationMetric: *b.optimisation,
		Metrics:            b.metrics,
		Algorithms:         b.algorithms,
	}

	data, err := WritePartitions(dir, b.scenario)
	if err != nil {
		return nil, err
	}
	def.Data = data

	out, err := yaml.Marshal(def)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, DefinitionFile), out, 0644); err != nil {
		return nil, err
	}

	b.Log.V(1).Info("Built pipeline", "workDir", dir, "algorithms", len(b.algorithms))

	p := &commandPipeline{
		engine:     template.New(),
		runner:     b.Runner,
		runnerArgs: b.RunnerArgs,
		basePath:   b.BasePath,
		log:        b.Log,
		data: template.RunnerData{
			ExperimentName: b.Name,
			Dataset:        b.Dataset,
			WorkDir:        dir,
			Definition:     filepath.Join(dir, DefinitionFile),
			OutputDir:      filepath.Join(dir, "output"),
			StartTime:      time.Now(),
		},
	}
	for _, a := range b.algorithms {
		p.data.Algorithms = append(p.data.Algorithms, a.Name)
		if d, ok := a.Search.(*catalog.Distribution); ok && d.Timeout > p.data.Timeout {
			p.data.Timeout = d.Timeout
		}
	}
	return p, nil
}

type commandPipeline struct {
	engine     *template.Engine
	runner     string
	runnerArgs []string
	basePath   string
	log        logr.Logger
	data       template.RunnerData

	results    *Results
	resultsDir string

	// tempDir is removed on close
	tempDir string
}

var _ Pipeline = &commandPipeline{}
var _ Reporter = &commandPipeline{}
var _ io.Closer = &commandPipeline{}

// Run executes the runner and reads the results document from its output.
func (p *commandPipeline) Run(ctx context.Context) error {
	results := &Results{}
	if err := RunCommand(ctx, p.engine, p.runner, p.runnerArgs, &p.data, results); err != nil {
		return err
	}

	p.results = results
	p.log.V(1).Info("Pipeline finished", "algorithms", len(results.Metrics))
	return nil
}

// SaveMetrics writes the results under the experiment folder of the results root.
func (p *commandPipeline) SaveMetrics() error {
	if p.results == nil {
		return fmt.Errorf("pipeline has not been run")
	}

	dir := filepath.Join(p.basePath, p.data.ExperimentName, strconv.FormatInt(p.data.StartTime.Unix(), 10))
	if err := p.results.Save(dir); err != nil {
		return err
	}

	p.resultsDir = dir
	return nil
}

// Close removes the work directory if it was created by the builder.
func (p *commandPipeline) Close() error {
	if p.tempDir == "" {
		return nil
	}
	dir := p.tempDir
	p.tempDir = ""
	p.log.V(1).Info("Removing work directory", "workDir", dir)
	return os.RemoveAll(dir)
}

func (p *commandPipeline) Results() *Results { return p.results }
func (p *commandPipeline) ResultsDir() string { return p.resultsDir }

// RunCommand renders the runner arguments, executes the runner and decodes its JSON output into v.
func RunCommand(ctx context.Context, engine *template.Engine, runner string, args []string, data *template.RunnerData, v interface{}) error {
	rendered, err := engine.RenderArgs(args, data)
	if err != nil {
		return fmt.Errorf("unable to render runner arguments: %w", err)
	}
	if data.OutputDir != "" {
		if err := os.MkdirAll(data.OutputDir, 0755); err != nil {
			return err
		}
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, runner, rendered...)
	cmd.Dir = data.WorkDir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", runner, err, msg)
		}
		return fmt.Errorf("%s failed: %w", runner, err)
	}

	if err := json.Unmarshal(stdout.Bytes(), v); err != nil {
		return fmt.Errorf("invalid %s output: %w", runner, err)
	}
	return nil
}
