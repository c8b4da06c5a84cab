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

package commander

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger writing to the supplied stream; each
// increment of verbosity enables the next logr V-level.
func NewLogger(w io.Writer, verbosity int, opts ...zap.Option) logr.Logger {
	level := zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	return zapr.NewLogger(zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(
		zapcore.EncoderConfig{
			MessageKey:  "msg",
			LevelKey:    "level",
			TimeKey:     "ts",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
			EncodeTime:  zapcore.RFC3339TimeEncoder,
		}),
		zapcore.AddSync(w),
		level), opts...))
}

// NewLintLogger returns a logger for reporting problems: Info records a warning,
// Error records an error and invokes the hook. Verbose messages are discarded.
func NewLintLogger(w io.Writer, onError func()) logr.Logger {
	return zapr.NewLogger(zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(
		zapcore.EncoderConfig{
			MessageKey:  "msg",
			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
		}),
		zapcore.AddSync(w),
		zapcore.InfoLevel),
		zap.Hooks(func(e zapcore.Entry) error {
			if e.Level == zapcore.ErrorLevel && onError != nil {
				onError()
			}
			return nil
		})))
}

// CommandLogger returns a logger for the command error stream using the global verbosity flag.
func CommandLogger(cmd *cobra.Command) logr.Logger {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	return NewLogger(cmd.ErrOrStderr(), verbosity)
}
