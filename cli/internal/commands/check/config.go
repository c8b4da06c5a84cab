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

package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/internal/config"
	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/pipeline"
	"github.com/tarslab/tarsctl/internal/template"
)

// ErrConfig is returned when the configuration check reports at least one error.
var ErrConfig = errors.New("configuration check failed")

// ConfigOptions are the options for checking the tarsctl configuration
type ConfigOptions struct {
	// Config is the configuration to check
	Config *config.TarsConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// LookPath resolves the runner executable
	LookPath func(file string) (string, error)
}

// NewConfigCommand creates a new command for checking the configuration
func NewConfigCommand(o *ConfigOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Check the configuration",
		Long:  "Check the runner and dataset locations of the tarsctl configuration",
		Args:  cobra.NoArgs,

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE:   commander.WithContextE(o.checkConfig),
	}

	return cmd
}

// checkConfig runs sanity checks on the configuration
func (o *ConfigOptions) checkConfig(context.Context) error {
	var hasError bool
	lint := commander.NewLintLogger(o.ErrOut, func() { hasError = true })

	lookPath := o.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	runner := o.Config.Runner()
	if _, err := lookPath(runner.Command); err != nil {
		lint.Error(err, "Runner is not executable", "runner", runner.Command)
	}

	// Render the argument templates against placeholder data to catch typos early
	data := &template.RunnerData{ExperimentName: "check", Dataset: "check", WorkDir: os.TempDir(), Definition: pipeline.DefinitionFile, OutputDir: os.TempDir(), Algorithm: "check"}
	engine := template.New()
	for name, args := range map[string][]string{"args": runner.Args, "timerArgs": runner.TimerArgs} {
		if _, err := engine.RenderArgs(args, data); err != nil {
			lint.Error(err, "Runner arguments failed to render", "property", "runner."+name)
		}
	}

	if fi, err := os.Stat(o.Config.DatasetPath()); err != nil || !fi.IsDir() {
		lint.Info("Dataset path is not a directory", "path", o.Config.DatasetPath())
	}
	for _, id := range dataset.IDs() {
		p, err := dataset.Resolve(id, o.Config.DatasetPath(), dataset.WithSource(o.Config.Source(id)))
		if err != nil {
			lint.Error(err, "Dataset failed to resolve", "dataset", id)
			continue
		}
		if _, err := os.Stat(p.Path()); err != nil && p.Source == "" {
			lint.Info("Dataset file is missing and has no source", "dataset", id, "path", p.Path())
		}
	}

	if hasError {
		return ErrConfig
	}
	_, err := fmt.Fprintln(o.Out, "Success.")
	return err
}
