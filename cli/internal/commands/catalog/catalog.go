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

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/internal/catalog"
)

// Options are the options for printing catalog entries
type Options struct {
	// IOStreams are used to access the standard process streams
	commander.IOStreams
	// Printer is the resource printer used to render entries
	Printer commander.ResourcePrinter

	// Catalog is the catalog to print, defaults to the preconfigured catalog
	Catalog *catalog.Catalog
	// Names are the experiments to print
	Names []string
}

// NewCommand creates a new command for inspecting the experiment catalog
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect preconfigured experiments",
		Long:  "Inspect the preconfigured experiments and their search spaces",
	}

	cmd.AddCommand(NewListCommand(&Options{Catalog: o.Catalog}))
	cmd.AddCommand(NewGetCommand(&Options{Catalog: o.Catalog}))

	return cmd
}

// NewListCommand creates a new command for listing every catalog entry
func NewListCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List experiments",
		Long:  "List every preconfigured experiment",
		Args:  cobra.NoArgs,

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE:   commander.WithoutArgsE(o.print),
	}

	commander.SetPrinter(&entryTableMeta{}, &o.Printer, cmd)
	return cmd
}

// NewGetCommand creates a new command for displaying named catalog entries
func NewGetCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get NAME...",
		Short: "Display experiments",
		Long:  "Display one or more preconfigured experiments",
		Args:  cobra.MinimumNArgs(1),
		Annotations: map[string]string{
			commander.PrinterOutputFormat: "yaml",
		},

		PreRun: func(cmd *cobra.Command, args []string) {
			commander.SetStreams(&o.IOStreams, cmd)
			o.Names = args
		},
		RunE:              commander.WithoutArgsE(o.print),
		ValidArgsFunction: completeNames,
	}

	commander.SetPrinter(&entryTableMeta{}, &o.Printer, cmd)
	return cmd
}

func completeNames(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return commander.CompleteValues(catalog.Default().IDs()...)(nil, nil, toComplete)
}

func (o *Options) print() error {
	c := o.Catalog
	if c == nil {
		c = catalog.Default()
	}

	list := &EntryList{}
	if len(o.Names) == 0 {
		list.Items = c.Entries()
	}
	for _, name := range o.Names {
		r, err := c.Lookup(name)
		if err != nil {
			return err
		}
		list.Items = append(list.Items, catalog.Entry{ID: r.ID, Algorithm: r.AlgorithmID, Params: r.Params, Search: r.Search})
	}

	if len(list.Items) == 1 && len(o.Names) == 1 {
		return o.Printer.PrintObj(&list.Items[0], o.Out)
	}
	return o.Printer.PrintObj(list, o.Out)
}

// EntryList is the printable list of catalog entries.
type EntryList struct {
	Items []catalog.Entry `json:"items"`
}

// entryTableMeta extracts columns from catalog entries
type entryTableMeta struct{}

func (entryTableMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	switch o := obj.(type) {
	case *EntryList:
		list := make([]interface{}, len(o.Items))
		for i := range o.Items {
			list[i] = &o.Items[i]
		}
		return list, nil
	case *catalog.Entry:
		return []interface{}{o}, nil
	}
	return nil, fmt.Errorf("unexpected catalog object %T", obj)
}

func (entryTableMeta) Columns(_ interface{}, outputFormat string) []string {
	switch outputFormat {
	case "wide", "csv":
		return []string{"name", "algorithm", "search", "size", "params", "parameters"}
	}
	return []string{"name", "algorithm", "search", "size"}
}

func (entryTableMeta) ExtractValue(obj interface{}, column string) (string, error) {
	e, ok := obj.(*catalog.Entry)
	if !ok {
		return "", fmt.Errorf("expected catalog entry, got %T", obj)
	}

	switch column {
	case "name":
		return e.ID, nil
	case "algorithm":
		return e.AlgorithmID(), nil
	case "search":
		return string(e.Search.Kind()), nil
	case "size":
		switch s := e.Search.(type) {
		case *catalog.Grid:
			return strconv.Itoa(s.Size()), nil
		case *catalog.Distribution:
			return fmt.Sprintf("%d evals", s.MaxEvals), nil
		}
		return "", nil
	case "params":
		var p []string
		for _, k := range e.Params.Keys() {
			v := e.Params[k]
			p = append(p, k+"="+v.String())
		}
		return strings.Join(p, ","), nil
	case "parameters":
		return strings.Join(e.Search.Names(), ","), nil
	}
	return "", fmt.Errorf("unable to extract: %s", column)
}

func (entryTableMeta) Header(_ string, column string) string {
	return strings.ToUpper(column)
}
