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

package run

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/cli/internal/commands/run/out"
	"github.com/tarslab/tarsctl/internal/catalog"
	"github.com/tarslab/tarsctl/internal/config"
	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/experiment"
	"github.com/tarslab/tarsctl/internal/ledger"
	"github.com/tarslab/tarsctl/internal/metric"
	"github.com/tarslab/tarsctl/internal/pipeline"
	"github.com/tarslab/tarsctl/internal/scenario"
	"github.com/tarslab/tarsctl/internal/validation"
)

// MetricsTextfile is the name of the Prometheus textfile written next to the metrics.
const MetricsTextfile = "metrics.prom"

// Options are the configuration options for running experiments
type Options struct {
	// Config is the tarsctl configuration
	Config *config.TarsConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Request is the experiment invocation
	Request experiment.Request
	// Runner overrides the configured recommender runner
	Runner string
	// NoLedger disables recording the run
	NoLedger bool

	// Driver overrides the driver construction
	Driver func(log logr.Logger, runner string, runnerArgs []string) *experiment.Driver
}

// NewCommand creates a new command for running experiments
func NewCommand(o *Options) *cobra.Command {
	if o.Request.Scenario == "" {
		o.Request.Scenario = string(scenario.KindLastItemPrediction)
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run time-aware similarity experiments",
		Long: "Run preconfigured experiments on a dataset.\n\n" +
			"The dataset is loaded and split once, every requested experiment is tuned\n" +
			"on the validation data and evaluated on the test data by the recommender runner.",
		Example: `# Run every preconfigured experiment on the Adressa dataset
tarsctl run --dataset adressa

# Run two experiments, writing to results/weekly
tarsctl run --dataset cosmeticsshop -a TARSItemKNNLee_W3 -a TARSItemKNNVaz -en weekly`,
		Args: cobra.NoArgs,

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd.Context(), commander.CommandLogger(cmd))
		},
	}

	cmd.Flags().StringVar(&o.Request.DatasetID, "dataset", o.Request.DatasetID, "dataset to use for running the experiment")
	cmd.Flags().StringVar(&o.Request.DatasetPath, "dataset-path", o.Request.DatasetPath, "`path` to the dataset files")
	cmd.Flags().StringArrayVarP(&o.Request.ExperimentIDs, "algorithm", "a", o.Request.ExperimentIDs, "the algorithm to run, specify multiple times to run multiple; defaults to running all")
	cmd.Flags().StringVar(&o.Request.Scenario, "scenario", o.Request.Scenario, "temporal split `strategy`")
	cmd.Flags().StringVar(&o.Request.ResultsPath, "results-path", o.Request.ResultsPath, "`path` to put results")
	cmd.Flags().StringVar(&o.Request.ExperimentName, "experiment-name", o.Request.ExperimentName, "`name` of the experiment, defines the folder written inside the results path; defaults to the dataset")
	cmd.Flags().StringVar(&o.Runner, "runner", o.Runner, "recommender runner `command`")
	cmd.Flags().BoolVar(&o.NoLedger, "no-ledger", o.NoLedger, "do not record the run in the ledger")

	cmd.Flags().SetNormalizeFunc(normalizeFlagName)
	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagDirname("dataset-path")
	_ = cmd.MarkFlagDirname("results-path")
	_ = cmd.RegisterFlagCompletionFunc("dataset", commander.CompleteValues(dataset.IDs()...))
	_ = cmd.RegisterFlagCompletionFunc("algorithm", commander.CompleteValues(catalog.Default().IDs()...))
	commander.SetFlagValues(cmd, "scenario", scenarioNames()...)

	return cmd
}

// NormalizeArgs rewrites the two letter "-en" short option as "--experiment-name" so
// it is not parsed as a group of single letter flags.
func NormalizeArgs(args []string) []string {
	result := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(result, args[i:]...)
		}
		switch {
		case arg == "-en":
			arg = "--experiment-name"
		case strings.HasPrefix(arg, "-en="):
			arg = "--experiment-name=" + strings.TrimPrefix(arg, "-en=")
		}
		result = append(result, arg)
	}
	return result
}

// normalizeFlagName accepts underscores in place of dashes.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func scenarioNames() []string {
	var names []string
	for _, k := range scenario.Kinds() {
		names = append(names, string(k))
	}
	return names
}

// Complete fills in the request from the configuration.
func (o *Options) Complete() {
	if o.Config == nil {
		return
	}
	if o.Request.DatasetPath == "" {
		o.Request.DatasetPath = o.Config.DatasetPath()
	}
	if o.Request.ResultsPath == "" {
		o.Request.ResultsPath = o.Config.ResultsPath()
	}
	if o.Request.DatasetSource == "" {
		o.Request.DatasetSource = o.Config.Source(o.Request.DatasetID)
	}
	if o.Runner == "" {
		o.Runner = o.Config.Runner().Command
	}
}

func (o *Options) driver(log logr.Logger) *experiment.Driver {
	var runnerArgs []string
	if o.Config != nil {
		runnerArgs = o.Config.Runner().Args
	}
	if o.Driver != nil {
		return o.Driver(log, o.Runner, runnerArgs)
	}

	return experiment.NewDriver(log, &dataset.CSVLoader{Log: log}, func(req *experiment.Request, p *dataset.Profile) pipeline.Builder {
		b := pipeline.NewCommandBuilder(req.ExperimentName, req.ResultsPath, o.Runner, runnerArgs...)
		b.Dataset = p.ID
		b.Log = log
		return b
	})
}

func (o *Options) run(ctx context.Context, log logr.Logger) error {
	o.Complete()
	d := o.driver(log)
	req := o.Request
	req.Complete(d.Catalog)

	collector := metric.NewCollector(req.ExperimentName, req.DatasetID)
	d.Observer = experiment.Observers(&out.Progress{Out: o.Out}, collector)

	v := out.View{}
	v.Step(out.Starting, "running %s on %s", strings.Join(req.ExperimentIDs, ", "), req.DatasetID)
	_, _ = fmt.Fprint(o.Out, v.String())

	start := time.Now()
	result, err := d.Run(ctx, &req)
	if err != nil {
		// Configuration errors never reach the dataset, there is nothing to record
		if !validation.IsConfigurationError(err) {
			o.record(ctx, log, ledger.FromFailure(&req, start, err))
		}
		return err
	}
	o.record(ctx, log, ledger.FromResult(result))

	collector.RecordResult(result)
	v = out.View{}
	if result.ResultsDir != "" {
		if err := collector.WriteTextfile(filepath.Join(result.ResultsDir, MetricsTextfile)); err != nil {
			log.Error(err, "Failed to write metrics textfile")
		}
		v.Step(out.Result, "Saved metrics to %s", result.ResultsDir)
	}
	v.Step(out.Instructions, "Run %s finished in %s", result.ID, result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	_, err = fmt.Fprint(o.Out, v.String())
	return err
}

// record adds the run to the ledger, failures are logged but never fail the command.
func (o *Options) record(ctx context.Context, log logr.Logger, r ledger.Run) {
	if o.NoLedger || o.Config == nil || o.Config.LedgerPath() == "" {
		return
	}

	l, err := ledger.Open(o.Config.LedgerPath())
	if err != nil {
		log.Error(err, "Failed to open run ledger", "path", o.Config.LedgerPath())
		return
	}
	defer l.Close()

	if err := l.Record(ctx, r); err != nil {
		log.Error(err, "Failed to record run", "run", r.ID)
		return
	}
	log.V(1).Info("Recorded run", "run", r.ID, "status", r.Status)
}
