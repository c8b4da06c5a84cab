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

package timing

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/cli/internal/commands/run/out"
	"github.com/tarslab/tarsctl/internal/config"
	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/experiment"
	"github.com/tarslab/tarsctl/internal/pipeline"
)

// DefaultFilename is the timing report written inside the results path.
const DefaultFilename = "algorithm_timings.csv"

// Options are the options for timing algorithms
type Options struct {
	// Config is the tarsctl configuration
	Config *config.TarsConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Request is the timing sweep
	Request experiment.TimingRequest
	// Filename is the output report, "-" for the standard output stream
	Filename string
	// Runner overrides the configured recommender runner
	Runner string

	// Timer overrides the runner based timer
	Timer pipeline.Timer
	// Loader overrides the CSV dataset loader
	Loader dataset.Loader
}

// NewCommand creates a new command for timing algorithms
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timing",
		Short: "Time algorithm training and prediction",
		Long:  "Time the default parameter fit and predict of algorithms on the timed scenario of each dataset",
		Args:  cobra.NoArgs,

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.time(cmd.Context(), commander.CommandLogger(cmd))
		},
	}

	cmd.Flags().StringArrayVar(&o.Request.DatasetIDs, "dataset", o.Request.DatasetIDs, "dataset to time on, specify multiple times for multiple datasets")
	cmd.Flags().StringArrayVarP(&o.Request.Algorithms, "algorithm", "a", o.Request.Algorithms, "algorithm to time, specify multiple times for multiple algorithms")
	cmd.Flags().StringVar(&o.Request.DatasetPath, "dataset-path", o.Request.DatasetPath, "`path` to the dataset files")
	cmd.Flags().StringVarP(&o.Filename, "output", "o", o.Filename, "`file` to write the timing report to; defaults to the results path")
	cmd.Flags().StringVar(&o.Runner, "runner", o.Runner, "recommender runner `command`")

	_ = cmd.MarkFlagDirname("dataset-path")
	_ = cmd.MarkFlagFilename("output", "csv")
	_ = cmd.RegisterFlagCompletionFunc("dataset", commander.CompleteValues(dataset.IDs()...))

	return cmd
}

// Complete fills in the request from the configuration.
func (o *Options) Complete() {
	if o.Config == nil {
		return
	}
	if o.Request.DatasetPath == "" {
		o.Request.DatasetPath = o.Config.DatasetPath()
	}
	if o.Request.DatasetSource == nil {
		o.Request.DatasetSource = o.Config.Sources()
	}
	if o.Runner == "" {
		o.Runner = o.Config.Runner().Command
	}
	if o.Filename == "" {
		o.Filename = filepath.Join(o.Config.ResultsPath(), DefaultFilename)
	}
}

func (o *Options) time(ctx context.Context, log logr.Logger) error {
	o.Complete()

	loader := o.Loader
	if loader == nil {
		loader = &dataset.CSVLoader{Log: log}
	}
	timer := o.Timer
	if timer == nil {
		var args []string
		if o.Config != nil {
			args = o.Config.Runner().TimerArgs
		}
		t := pipeline.NewCommandTimer(o.Runner, args...)
		t.Log = log
		timer = t
	}
	if c, ok := timer.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				log.Error(err, "Failed to clean up timing data")
			}
		}()
	}

	d := experiment.NewDriver(log, loader, nil)
	d.Observer = &out.Progress{Out: o.Out}

	records, err := d.Time(ctx, &o.Request, timer)
	if err != nil {
		return err
	}

	if o.Filename == "" || o.Filename == "-" {
		return experiment.WriteTimings(o.Out, records)
	}

	if err := os.MkdirAll(filepath.Dir(o.Filename), 0755); err != nil {
		return err
	}
	f, err := os.Create(o.Filename)
	if err != nil {
		return err
	}
	if err := experiment.WriteTimings(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	v := out.View{}
	v.Step(out.Result, "Wrote %d timings to %s", len(records), o.Filename)
	_, err = o.Out.Write([]byte(v.String()))
	return err
}
