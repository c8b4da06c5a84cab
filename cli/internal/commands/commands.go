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

package commands

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/cli/internal/commands/catalog"
	"github.com/tarslab/tarsctl/cli/internal/commands/check"
	"github.com/tarslab/tarsctl/cli/internal/commands/completion"
	"github.com/tarslab/tarsctl/cli/internal/commands/configure"
	"github.com/tarslab/tarsctl/cli/internal/commands/datasets"
	"github.com/tarslab/tarsctl/cli/internal/commands/run"
	"github.com/tarslab/tarsctl/cli/internal/commands/runs"
	"github.com/tarslab/tarsctl/cli/internal/commands/timing"
	"github.com/tarslab/tarsctl/cli/internal/commands/version"
	"github.com/tarslab/tarsctl/internal/config"
	"github.com/tarslab/tarsctl/internal/validation"
)

// NewRootCommand creates a new top-level command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tarsctl",
		Short:             "Time-aware item similarity experiments",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	// Create a global configuration
	cfg := &config.TarsConfig{}
	commander.ConfigGlobals(cfg, rootCmd)

	// Experiment Commands
	rootCmd.AddCommand(run.NewCommand(&run.Options{Config: cfg}))
	rootCmd.AddCommand(timing.NewCommand(&timing.Options{Config: cfg}))
	rootCmd.AddCommand(runs.NewCommand(&runs.Options{Config: cfg}))

	// Reference Commands
	rootCmd.AddCommand(catalog.NewCommand(&catalog.Options{}))
	rootCmd.AddCommand(datasets.NewCommand(&datasets.Options{Config: cfg}))

	// Administrative Commands
	rootCmd.AddCommand(configure.NewCommand(&configure.Options{Config: cfg}))
	rootCmd.AddCommand(check.NewCommand(&check.Options{Config: cfg}))
	rootCmd.AddCommand(completion.NewCommand(&completion.Options{}))
	rootCmd.AddCommand(version.NewCommand(&version.Options{}))

	commander.MapErrors(rootCmd, mapError)
	return rootCmd
}

// mapError intercepts errors returned by commands before they are reported.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	// Configuration errors are self explanatory, drop any wrapping
	var ce *validation.ConfigurationError
	if errors.As(err, &ce) {
		return ce
	}

	// It's really annoying to just get an "exit status was one" message.
	var e *exec.ExitError
	if errors.As(err, &e) && !e.Success() && len(e.Stderr) > 0 {
		return fmt.Errorf("%w\n%s", err, string(e.Stderr))
	}

	return err
}
