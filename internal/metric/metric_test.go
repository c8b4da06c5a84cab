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

package metric

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarslab/tarsctl/internal/experiment"
	"github.com/tarslab/tarsctl/internal/pipeline"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector("weekly", "adressa")

	cases := []struct {
		desc  string
		event experiment.Event
	}{
		{
			desc:  "Started",
			event: experiment.Event{Phase: experiment.PhaseLoad},
		},
		{
			desc:  "Loaded",
			event: experiment.Event{Phase: experiment.PhaseLoad, Done: true, Elapsed: time.Second},
		},
		{
			desc:  "RunFailed",
			event: experiment.Event{Phase: experiment.PhaseRun, Done: true, Elapsed: time.Minute, Err: errors.New("boom")},
		},
	}
	for _, cc := range cases {
		c.Observe(cc.event)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(c.phases.WithLabelValues("load", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.phases.WithLabelValues("run", "failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.phases.WithLabelValues("run", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.phaseDuration))
}

func TestCollector_RecordResult(t *testing.T) {
	c := NewCollector("weekly", "adressa")
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	c.RecordResult(&experiment.Result{
		Interactions: 4,
		Users:        2,
		Items:        3,
		StartTime:    start,
		EndTime:      start.Add(90 * time.Second),
		Metrics: &pipeline.Results{
			Metrics: map[string]map[string]float64{
				"TARSItemKNNLee_W3": {"NDCGK_10": 0.25, "CoverageK_10": 0.5},
			},
			Optimisation: []pipeline.Trial{
				{Algorithm: "TARSItemKNNLee_W3", Score: 0.1},
				{Algorithm: "TARSItemKNNLee_W3", Score: 0.3},
			},
		},
	})

	assert.Equal(t, 4.0, testutil.ToFloat64(c.interactions))
	assert.Equal(t, 90.0, testutil.ToFloat64(c.runDuration))
	assert.Equal(t, 0.25, testutil.ToFloat64(c.score.WithLabelValues("TARSItemKNNLee_W3", "NDCGK_10")))
	assert.Equal(t, 0.3, testutil.ToFloat64(c.bestScore.WithLabelValues("TARSItemKNNLee_W3")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.trials.WithLabelValues("TARSItemKNNLee_W3")))

	expected := `
# HELP tars_dataset_users Number of distinct users after filtering.
# TYPE tars_dataset_users gauge
tars_dataset_users{dataset="adressa",experiment="weekly"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "tars_dataset_users"))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector("weekly", "adressa")
	c.RecordResult(&experiment.Result{Interactions: 10})

	filename := filepath.Join(t.TempDir(), "tars.prom")
	require.NoError(t, c.WriteTextfile(filename))
	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(b), `tars_dataset_interactions{dataset="adressa",experiment="weekly"} 10`)
}
