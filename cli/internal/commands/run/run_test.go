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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarslab/tarsctl/internal/config"
	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/experiment"
	"github.com/tarslab/tarsctl/internal/ledger"
	"github.com/tarslab/tarsctl/internal/validation"
)

func TestNormalizeArgs(t *testing.T) {
	cases := []struct {
		desc     string
		args     []string
		expected []string
	}{
		{
			desc:     "ShortExperimentName",
			args:     []string{"run", "--dataset", "adressa", "-en", "weekly"},
			expected: []string{"run", "--dataset", "adressa", "--experiment-name", "weekly"},
		},
		{
			desc:     "ShortExperimentNameEquals",
			args:     []string{"run", "-en=weekly"},
			expected: []string{"run", "--experiment-name=weekly"},
		},
		{
			desc:     "Untouched",
			args:     []string{"run", "-a", "TARSItemKNNVaz", "--experiment-name", "-en"},
			expected: []string{"run", "-a", "TARSItemKNNVaz", "--experiment-name", "--experiment-name"},
		},
		{
			desc:     "AfterTerminator",
			args:     []string{"run", "--", "-en"},
			expected: []string{"run", "--", "-en"},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, NormalizeArgs(c.args))
		})
	}
}

func TestNewCommand_Defaults(t *testing.T) {
	o := &Options{
		Runner:   "/opt/tars/runner",
		NoLedger: true,
		Request: experiment.Request{
			DatasetPath:    "/data",
			ExperimentIDs:  []string{"TARSItemKNNVaz"},
			ResultsPath:    "/results",
			ExperimentName: "weekly",
		},
	}
	cmd := NewCommand(o)

	assert.Equal(t, "/opt/tars/runner", o.Runner)
	assert.True(t, o.NoLedger)
	assert.Equal(t, "/data", o.Request.DatasetPath)
	assert.Equal(t, []string{"TARSItemKNNVaz"}, o.Request.ExperimentIDs)
	assert.Equal(t, "last-item-prediction", o.Request.Scenario)
	assert.Equal(t, "/results", o.Request.ResultsPath)
	assert.Equal(t, "weekly", o.Request.ExperimentName)

	require.NoError(t, cmd.ParseFlags([]string{"-a", "TARSItemKNNLiu", "--runner", "tars-runner"}))
	assert.Equal(t, []string{"TARSItemKNNLiu"}, o.Request.ExperimentIDs)
	assert.Equal(t, "tars-runner", o.Runner)
}

type countingLoader struct {
	calls int
}

func (l *countingLoader) Load(context.Context, *dataset.Profile) (*dataset.InteractionMatrix, error) {
	l.calls++
	return dataset.NewInteractionMatrix(nil), nil
}

// loadConfig returns a configuration rooted in a temporary directory.
func loadConfig(t *testing.T) (*config.TarsConfig, string) {
	dir := t.TempDir()
	t.Setenv(config.DatasetPathEnv, filepath.Join(dir, "datasets"))
	t.Setenv(config.ResultsPathEnv, filepath.Join(dir, "results"))
	t.Setenv(config.LedgerEnv, filepath.Join(dir, "ledger.db"))
	t.Setenv(config.RunnerEnv, "")

	cfg := &config.TarsConfig{Filename: filepath.Join(dir, "config")}
	require.NoError(t, cfg.Load())
	return cfg, dir
}

func TestRun_FailFast(t *testing.T) {
	cases := []struct {
		desc    string
		args    []string
		errType validation.ErrorType
	}{
		{
			desc:    "UnknownAlgorithm",
			args:    []string{"--dataset", "adressa", "-a", "TARSItemKNNVaz", "-a", "NotARealAlgorithm"},
			errType: validation.ErrUnknownExperiment,
		},
		{
			desc:    "UnsupportedScenario",
			args:    []string{"--dataset", "adressa", "--scenario", "Weekly"},
			errType: validation.ErrUnsupportedScenario,
		},
		{
			desc:    "UnknownDataset",
			args:    []string{"--dataset", "movielens"},
			errType: validation.ErrUnknownDataset,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cfg, dir := loadConfig(t)
			loader := &countingLoader{}
			o := &Options{
				Config: cfg,
				Driver: func(log logr.Logger, _ string, _ []string) *experiment.Driver {
					return experiment.NewDriver(log, loader, nil)
				},
			}

			cmd := NewCommand(o)
			cmd.SetArgs(NormalizeArgs(c.args))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			err := cmd.Execute()

			require.Error(t, err)
			assert.True(t, validation.IsType(err, c.errType), err.Error())
			assert.Equal(t, 0, loader.calls)
			assert.NoFileExists(t, filepath.Join(dir, "ledger.db"))
		})
	}
}

func TestRun_CommandRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell runner is not supported on Windows")
	}

	cfg, dir := loadConfig(t)

	// Adressa split points: t_val is 1483704000, t is 1483790400, delta out is 12h
	require.NoError(t, os.MkdirAll(cfg.DatasetPath(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DatasetPath(), "adressa_one_week.csv"), []byte(`userId,id,time
u1,i1,1483700000
u2,i2,1483700100
u1,i3,1483710000
u2,i3,1483791000
`), 0644))

	runner := filepath.Join(dir, "runner.sh")
	require.NoError(t, os.WriteFile(runner, []byte(`#!/bin/sh
test "$1" = run || exit 2
test -f "$3" || exit 3
echo '{"metrics":{"TARSItemKNNLee_W3":{"NDCGK_10":0.5}},"optimisation":[{"algorithm":"TARSItemKNNLee_W3","score":0.25}]}'
`), 0755))

	var out bytes.Buffer
	cmd := NewCommand(&Options{Config: cfg})
	cmd.SetArgs(NormalizeArgs([]string{
		"--dataset", "adressa",
		"-a", "TARSItemKNNLee_W3",
		"--scenario", "timed",
		"--runner", runner,
		"-en", "weekly",
	}))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "running TARSItemKNNLee_W3 on adressa")
	assert.Contains(t, out.String(), ">> Loading dataset")

	metrics, err := filepath.Glob(filepath.Join(cfg.ResultsPath(), "weekly", "*", "metrics.json"))
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.FileExists(t, filepath.Join(filepath.Dir(metrics[0]), MetricsTextfile))

	l, err := ledger.Open(cfg.LedgerPath())
	require.NoError(t, err)
	defer l.Close()
	runs, err := l.List(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ledger.StatusSucceeded, runs[0].Status)
	assert.Equal(t, "weekly", runs[0].ExperimentName)
	assert.Equal(t, 4, runs[0].Interactions)
	assert.Equal(t, filepath.Dir(metrics[0]), runs[0].ResultsDir)
}

func TestRun_RecordsFailures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell runner is not supported on Windows")
	}

	cfg, dir := loadConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DatasetPath(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DatasetPath(), "adressa_one_week.csv"), []byte("userId,id,time\nu1,i1,1483700000\n"), 0644))

	runner := filepath.Join(dir, "runner.sh")
	require.NoError(t, os.WriteFile(runner, []byte("#!/bin/sh\necho 'out of memory' >&2\nexit 1\n"), 0755))

	cmd := NewCommand(&Options{Config: cfg, Runner: runner})
	cmd.SetArgs([]string{"--dataset", "adressa", "-a", "TARSItemKNNLee_W3"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.False(t, validation.IsConfigurationError(err))

	l, err := ledger.Open(cfg.LedgerPath())
	require.NoError(t, err)
	defer l.Close()
	runs, err := l.List(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ledger.StatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "out of memory")
}
