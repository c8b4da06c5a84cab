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

package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/pipeline"
	"github.com/tarslab/tarsctl/internal/scenario"
)

// DefaultTimingDatasets are the datasets timed when none are requested.
func DefaultTimingDatasets() []string {
	return []string{"adressa", "cosmeticsshop", "recsys2015", "amazon_games", "amazon_toys_and_games"}
}

// DefaultTimingAlgorithms are the algorithms timed when none are requested.
func DefaultTimingAlgorithms() []string {
	return []string{
		"TARSItemKNNDing",
		"TARSItemKNNLee_W5",
		"TARSItemKNNLiu",
		"TARSItemKNNLiu2012",
		"TARSItemKNNVaz",
		"GRU4Rec",
		"EASE",
		"ItemKNN",
		"SequentialRules",
		"TARSItemKNN",
		"TARSItemKNNHermann",
		"TARSItemKNNXia",
	}
}

// SkipTiming checks to see if an algorithm cannot be timed on a dataset; EASE
// is too expensive for datasets with very many items.
func SkipTiming(datasetID, algorithm string) bool {
	if algorithm != "EASE" {
		return false
	}
	return datasetID == "recsys2015" || datasetID == "amazon_toys_and_games"
}

// TimingRequest is an invocation of the timing sweep.
type TimingRequest struct {
	DatasetIDs    []string
	DatasetPath   string
	DatasetSource map[string]string
	Algorithms    []string
}

// Complete fills in the defaults for any unspecified value.
func (r *TimingRequest) Complete() {
	if len(r.DatasetIDs) == 0 {
		r.DatasetIDs = DefaultTimingDatasets()
	}
	if len(r.Algorithms) == 0 {
		r.Algorithms = DefaultTimingAlgorithms()
	}
}

// TimingRecord is a single row of the timing report.
type TimingRecord struct {
	Algorithm      string
	Dataset        string
	Timing         float64
	TrainingTime   float64
	PredictionTime float64
}

// Time loads and splits each dataset once and times every algorithm on it.
func (d *Driver) Time(ctx context.Context, req *TimingRequest, timer pipeline.Timer) ([]TimingRecord, error) {
	req.Complete()

	profiles := make([]*dataset.Profile, 0, len(req.DatasetIDs))
	for _, id := range req.DatasetIDs {
		p, err := d.Resolve(id, req.DatasetPath, dataset.WithSource(req.DatasetSource[id]))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	var records []TimingRecord
	for _, p := range profiles {
		done := d.phase(PhaseLoad, "Loading "+p.ID)
		m, err := d.Loader.Load(ctx, p)
		done("Loaded "+p.ID, err)
		if err != nil {
			return records, err
		}

		s, err := scenario.New(scenario.KindTimed, p.TTest, p.TValidation, p.DeltaOut)
		if err != nil {
			return records, err
		}
		if err := s.Split(m); err != nil {
			return records, err
		}

		for _, a := range req.Algorithms {
			if SkipTiming(p.ID, a) {
				d.Log.V(1).Info("Skipping timing", "dataset", p.ID, "algorithm", a)
				continue
			}

			done := d.phase(PhaseTime, fmt.Sprintf("Timing %s on %s", a, p.ID))
			t, err := timer.Time(ctx, p.ID, a, s)
			if err != nil {
				done("", err)
				return records, err
			}
			done(fmt.Sprintf("Timed %s on %s: %.3fs", a, p.ID, t.Total()), nil)

			records = append(records, TimingRecord{
				Algorithm:      a,
				Dataset:        p.ID,
				Timing:         t.Total(),
				TrainingTime:   t.TrainingTime,
				PredictionTime: t.PredictionTime,
			})
		}
	}

	return records, nil
}

// WriteTimings writes the timing report as CSV.
func WriteTimings(w io.Writer, records []TimingRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"algorithm", "dataset", "timing", "training_time", "prediction_time"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{
			r.Algorithm,
			r.Dataset,
			strconv.FormatFloat(r.Timing, 'f', -1, 64),
			strconv.FormatFloat(r.TrainingTime, 'f', -1, 64),
			strconv.FormatFloat(r.PredictionTime, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
