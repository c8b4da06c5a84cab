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

package configure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/internal/config"
	"sigs.k8s.io/yaml"
)

// ViewOptions are the options for viewing a configuration file
type ViewOptions struct {
	// Config is the tarsctl configuration to view
	Config *config.TarsConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Output is the format to output data in
	Output string
	// FileOnly causes view to just dump the configuration file to out
	FileOnly bool
}

// NewViewCommand creates a new command for viewing the configuration
func NewViewCommand(o *ViewOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the configuration file",
		Long:  "View the effective tarsctl configuration",
		Args:  cobra.NoArgs,

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE:   commander.WithoutArgsE(o.view),
	}

	cmd.Flags().StringVarP(&o.Output, "output", "o", "yaml", "output `format`; one of: yaml|json")
	cmd.Flags().BoolVar(&o.FileOnly, "raw", false, "display the raw configuration file without merging")

	return cmd
}

func (o *ViewOptions) view() error {
	// Dump the raw config file bytes to the console
	if o.FileOnly {
		f, err := os.Open(o.Config.Filename)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(o.Out, f)
		return err
	}

	var output []byte
	var err error
	switch strings.ToLower(o.Output) {
	case "yaml", "":
		output, err = yaml.Marshal(o.Config)
	case "json":
		output, err = json.MarshalIndent(o.Config, "", "  ")
		output = append(output, '\n')
	default:
		return fmt.Errorf("unsupported output format: %s", o.Output)
	}
	if err != nil {
		return err
	}

	_, err = o.Out.Write(output)
	return err
}
