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

package version

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/internal/version"
)

// Options is the configuration for reporting version information
type Options struct {
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Product is the current product name
	Product string
	// Output is the format to print the version in
	Output string
}

// NewCommand creates a new command for reporting version information
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  "Print the version information for tarsctl",
		Args:  cobra.NoArgs,

		PreRun: func(cmd *cobra.Command, args []string) {
			if o.Product == "" {
				o.Product = cmd.Root().Name()
			}
			commander.SetStreams(&o.IOStreams, cmd)
		},
		RunE: commander.WithoutArgsE(o.version),
	}

	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "output `format`")
	commander.SetFlagValues(cmd, "output", "json")

	return cmd
}

func (o *Options) version() error {
	info := version.GetInfo()
	switch strings.ToLower(o.Output) {
	case "json":
		enc := json.NewEncoder(o.Out)
		enc.SetIndent("", "    ")
		return enc.Encode(map[string]*version.Info{o.Product: info})
	case "":
		_, err := fmt.Fprintf(o.Out, "%s version: %s\n", o.Product, info.String())
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", o.Output)
	}
}
