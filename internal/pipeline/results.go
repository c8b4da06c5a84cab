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

package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/tarslab/tarsctl/internal/catalog"
)

// Results is the document produced by a pipeline run.
type Results struct {
	// Metrics maps an algorithm identifier to its metric values, e.g. "NDCGK_10".
	Metrics map[string]map[string]float64 `json:"metrics"`
	// Optimisation lists every evaluated point of the search spaces.
	Optimisation []Trial `json:"optimisation,omitempty"`
}

// Trial is one evaluated point of a search space.
type Trial struct {
	Algorithm string         `json:"algorithm"`
	Params    catalog.Params `json:"params,omitempty"`
	Score     float64        `json:"score"`
}

// Algorithms returns the sorted algorithm identifiers with metrics.
func (r *Results) Algorithms() []string {
	names := make([]string, 0, len(r.Metrics))
	for k := range r.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// WriteJSON writes the indented results document.
func (r *Results) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per algorithm and metric.
func (r *Results) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"algorithm", "metric", "value"}); err != nil {
		return err
	}
	for _, a := range r.Algorithms() {
		metrics := make([]string, 0, len(r.Metrics[a]))
		for m := range r.Metrics[a] {
			metrics = append(metrics, m)
		}
		sort.Strings(metrics)
		for _, m := range metrics {
			if err := cw.Write([]string{a, m, strconv.FormatFloat(r.Metrics[a][m], 'g', -1, 64)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the JSON and CSV renditions of the results to a directory.
func (r *Results) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "metrics.json"), r.WriteJSON); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "metrics.csv"), r.WriteCSV)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
