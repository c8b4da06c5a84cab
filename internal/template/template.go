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

package template

import (
	"bytes"
	"text/template"
	"time"
)

// RunnerData represents a pipeline during runner argument evaluation
type RunnerData struct {
	// The name of the experiment, used as the results folder
	ExperimentName string
	// The dataset identifier
	Dataset string
	// The directory holding the scenario partitions
	WorkDir string
	// The path to the pipeline definition
	Definition string
	// The directory the runner may write additional artifacts to
	OutputDir string
	// The algorithms registered with the pipeline, in registration order
	Algorithms []string
	// The single algorithm being timed (only available for timing runs)
	Algorithm string
	// The longest search budget of any registered algorithm
	Timeout time.Duration
	// The time at which the pipeline was built
	StartTime time.Time
}

// Engine is used to render Go text templates
type Engine struct {
	FuncMap template.FuncMap
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		FuncMap: FuncMap(),
	}
}

// RenderArgs returns the rendered command line arguments for the runner
func (e *Engine) RenderArgs(args []string, data *RunnerData) ([]string, error) {
	result := make([]string, 0, len(args))
	for i := range args {
		b, err := e.render("arg", args[i], data)
		if err != nil {
			return nil, err
		}
		result = append(result, b.String())
	}
	return result, nil
}

func (e *Engine) render(name, text string, data interface{}) (*bytes.Buffer, error) {
	tmpl, err := template.New(name).Funcs(e.FuncMap).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	if err = tmpl.Execute(b, data); err != nil {
		return nil, err
	}
	return b, nil
}
