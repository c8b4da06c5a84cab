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

package runs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/internal/config"
	"github.com/tarslab/tarsctl/internal/ledger"
)

// Options are the options for listing recorded runs
type Options struct {
	// Config is the tarsctl configuration
	Config *config.TarsConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams
	// Printer is the resource printer used to render runs
	Printer commander.ResourcePrinter

	// IDs are the runs to display, all runs are listed when empty
	IDs []string
}

// NewCommand creates a new command for listing recorded runs
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [ID...]",
		Short: "List recorded runs",
		Long:  "List the experiment runs recorded in the ledger",

		PreRun: func(cmd *cobra.Command, args []string) {
			commander.SetStreams(&o.IOStreams, cmd)
			o.IDs = args
		},
		RunE: commander.WithContextE(o.list),
	}

	commander.SetPrinter(&runTableMeta{}, &o.Printer, cmd)
	return cmd
}

func (o *Options) list(ctx context.Context) error {
	l, err := ledger.Open(o.Config.LedgerPath())
	if err != nil {
		return err
	}
	defer l.Close()

	list := &RunList{}
	if len(o.IDs) == 0 {
		if list.Items, err = l.List(ctx); err != nil {
			return err
		}
	}
	for _, id := range o.IDs {
		r, err := l.Get(ctx, id)
		if err != nil {
			return err
		}
		list.Items = append(list.Items, *r)
	}

	return o.Printer.PrintObj(list, o.Out)
}

// RunList is the printable list of recorded runs.
type RunList struct {
	Items []ledger.Run `json:"items"`
}

type runTableMeta struct{}

func (runTableMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	if l, ok := obj.(*RunList); ok {
		list := make([]interface{}, len(l.Items))
		for i := range l.Items {
			list[i] = &l.Items[i]
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected run object %T", obj)
}

func (runTableMeta) Columns(_ interface{}, outputFormat string) []string {
	switch outputFormat {
	case "wide", "csv":
		return []string{"name", "experiment", "dataset", "scenario", "status", "interactions", "duration", "started", "results", "algorithms"}
	}
	return []string{"name", "experiment", "dataset", "status", "duration", "age"}
}

func (runTableMeta) ExtractValue(obj interface{}, column string) (string, error) {
	r, ok := obj.(*ledger.Run)
	if !ok {
		return "", fmt.Errorf("expected run, got %T", obj)
	}

	switch column {
	case "name":
		return r.ID, nil
	case "experiment":
		return r.ExperimentName, nil
	case "dataset":
		return r.Dataset, nil
	case "scenario":
		return r.Scenario, nil
	case "status":
		return r.Status, nil
	case "interactions":
		return humanize.Comma(int64(r.Interactions)), nil
	case "duration":
		return r.Duration().Round(time.Second).String(), nil
	case "started":
		return r.StartedAt.Format(time.RFC3339), nil
	case "age":
		if r.StartedAt.IsZero() {
			return "<unknown>", nil
		}
		return humanize.Time(r.StartedAt), nil
	case "results":
		return r.ResultsDir, nil
	case "algorithms":
		return strings.Join(r.Algorithms, ","), nil
	}
	return "", fmt.Errorf("unable to extract: %s", column)
}

func (runTableMeta) Header(_ string, column string) string {
	if column == "name" {
		return "ID"
	}
	return strings.ToUpper(column)
}
