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

package datasets

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/internal/config"
	"github.com/tarslab/tarsctl/internal/dataset"
)

// Options are the options for listing dataset profiles
type Options struct {
	// Config is the tarsctl configuration
	Config *config.TarsConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams
	// Printer is the resource printer used to render profiles
	Printer commander.ResourcePrinter

	// DatasetPath overrides the configured dataset directory
	DatasetPath string
}

// NewCommand creates a new command for listing dataset profiles
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List dataset profiles",
		Long:  "List the supported datasets with their temporal split points",
		Args:  cobra.NoArgs,

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE:   commander.WithoutArgsE(o.list),
	}

	cmd.Flags().StringVar(&o.DatasetPath, "dataset-path", "", "`path` to the dataset files")
	_ = cmd.MarkFlagDirname("dataset-path")

	commander.SetPrinter(&profileTableMeta{}, &o.Printer, cmd)
	return cmd
}

func (o *Options) list() error {
	basePath := o.DatasetPath
	if basePath == "" && o.Config != nil {
		basePath = o.Config.DatasetPath()
	}

	list := &ProfileList{}
	for _, id := range dataset.IDs() {
		var opts []dataset.Option
		if o.Config != nil {
			opts = append(opts, dataset.WithSource(o.Config.Source(id)))
		}
		p, err := dataset.Resolve(id, basePath, opts...)
		if err != nil {
			return err
		}
		list.Items = append(list.Items, *p)
	}

	return o.Printer.PrintObj(list, o.Out)
}

// ProfileList is the printable list of dataset profiles.
type ProfileList struct {
	Items []dataset.Profile `json:"items"`
}

type profileTableMeta struct{}

func (profileTableMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	if l, ok := obj.(*ProfileList); ok {
		list := make([]interface{}, len(l.Items))
		for i := range l.Items {
			list[i] = &l.Items[i]
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected dataset object %T", obj)
}

func (profileTableMeta) Columns(_ interface{}, outputFormat string) []string {
	switch outputFormat {
	case "wide", "csv":
		return []string{"name", "file", "t", "t_val", "delta_out", "filters", "size", "source"}
	}
	return []string{"name", "file", "t", "t_val", "delta_out"}
}

func (profileTableMeta) ExtractValue(obj interface{}, column string) (string, error) {
	p, ok := obj.(*dataset.Profile)
	if !ok {
		return "", fmt.Errorf("expected dataset profile, got %T", obj)
	}

	switch column {
	case "name":
		return p.ID, nil
	case "file":
		return p.Filename, nil
	case "t":
		return p.TTest.Format(time.RFC3339), nil
	case "t_val":
		return p.TValidation.Format(time.RFC3339), nil
	case "delta_out":
		return formatDelta(p.DeltaOut), nil
	case "filters":
		var f []string
		for _, filter := range p.Filters {
			f = append(f, filter.String())
		}
		return strings.Join(f, ","), nil
	case "size":
		fi, err := os.Stat(p.Path())
		if err != nil {
			return "<missing>", nil
		}
		return humanize.Bytes(uint64(fi.Size())), nil
	case "source":
		return p.Source, nil
	}
	return "", fmt.Errorf("unable to extract: %s", column)
}

func (profileTableMeta) Header(_ string, column string) string {
	return strings.ToUpper(column)
}

// formatDelta prints whole days as days, everything else as a duration.
func formatDelta(d time.Duration) string {
	day := 24 * time.Hour
	if d >= day && d%day == 0 {
		return fmt.Sprintf("%dd", d/day)
	}
	return d.String()
}
