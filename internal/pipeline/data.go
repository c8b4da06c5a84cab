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
	"io"
	"path/filepath"
	"strconv"

	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/scenario"
)

// WriteInteractions writes a partition as "user,item,timestamp" rows.
func WriteInteractions(w io.Writer, m *dataset.InteractionMatrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"user", "item", "timestamp"}); err != nil {
		return err
	}
	for _, i := range m.Interactions() {
		if err := cw.Write([]string{i.User, i.Item, strconv.FormatInt(i.Timestamp, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePartitions writes every partition of a split scenario to a directory and
// returns the file name of each partition.
func WritePartitions(dir string, s scenario.Scenario) (map[string]string, error) {
	if err := scenario.Check(s); err != nil {
		return nil, err
	}

	partitions := []struct {
		name string
		data *dataset.InteractionMatrix
	}{
		{name: "full_training", data: s.FullTraining()},
		{name: "validation_training", data: s.ValidationTraining()},
		{name: "validation_in", data: s.ValidationIn()},
		{name: "validation_out", data: s.ValidationOut()},
		{name: "test_in", data: s.TestIn()},
		{name: "test_out", data: s.TestOut()},
	}

	files := make(map[string]string, len(partitions))
	for _, p := range partitions {
		filename := p.name + ".csv"
		m := p.data
		if err := writeFile(filepath.Join(dir, filename), func(w io.Writer) error { return WriteInteractions(w, m) }); err != nil {
			return nil, err
		}
		files[p.name] = filename
	}
	return files, nil
}
