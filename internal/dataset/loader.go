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

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/tarslab/tarsctl/internal/version"
	"github.com/yujunz/go-getter"
)

// Loader materializes the interaction matrix of a dataset profile.
type Loader interface {
	Load(ctx context.Context, p *Profile) (*InteractionMatrix, error)
}

// CSVLoader reads delimited interaction files from disk, fetching them first if necessary.
type CSVLoader struct {
	Log logr.Logger
}

var _ Loader = &CSVLoader{}

// Load reads the profile's file and applies its filters in order.
func (l *CSVLoader) Load(ctx context.Context, p *Profile) (*InteractionMatrix, error) {
	path := p.Path()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && p.Source != "" {
		l.Log.Info("Fetching dataset", "dataset", p.ID, "source", p.Source)
		if err := Fetch(ctx, p.ID, p.Source, path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadInteractions(f, &p.Format)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	users, items := m.Shape()
	l.Log.V(1).Info("Read interactions", "dataset", p.ID, "interactions", humanize.Comma(int64(m.Len())), "users", users, "items", items)

	for _, filter := range p.Filters {
		m = filter.Apply(m)
		l.Log.V(1).Info("Applied filter", "dataset", p.ID, "filter", filter.String(), "interactions", humanize.Comma(int64(m.Len())))
	}

	return m, nil
}

// Fetch downloads a single dataset file to the supplied destination.
func Fetch(ctx context.Context, datasetID, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	opts := []getter.ClientOption{
		func(c *getter.Client) error {
			c.Ctx = ctx
			c.Pwd = filepath.Dir(dst)
			return nil
		},
		withUserAgent("dataset " + datasetID),
	}

	if err := getter.GetFile(dst, src, opts...); err != nil {
		return fmt.Errorf("unable to fetch dataset: %w", err)
	}
	return nil
}

// withUserAgent identifies HTTP downloads with the tarsctl version and the supplied comment.
func withUserAgent(comment string) getter.ClientOption {
	return func(c *getter.Client) error {
		hg := &getter.HttpGetter{
			Client: &http.Client{Transport: version.NewTransport(nil, comment)},
		}

		c.Getters = make(map[string]getter.Getter, len(getter.Getters))
		for k, v := range getter.Getters {
			c.Getters[k] = v
		}
		c.Getters["http"] = hg
		c.Getters["https"] = hg
		return nil
	}
}

// ReadInteractions parses delimited interactions using the supplied format.
func ReadInteractions(r io.Reader, format *Format) (*InteractionMatrix, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	if format.Comma != 0 {
		cr.Comma = format.Comma
	}

	header := format.Header
	if len(header) == 0 {
		rec, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("missing header: %w", err)
		}
		header = append([]string{}, rec...)
	}

	userIdx, itemIdx, tsIdx := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case format.UserColumn:
			userIdx = i
		case format.ItemColumn:
			itemIdx = i
		case format.TimestampColumn:
			tsIdx = i
		}
	}
	if userIdx < 0 || itemIdx < 0 || tsIdx < 0 {
		return nil, fmt.Errorf("header must contain %q, %q and %q columns", format.UserColumn, format.ItemColumn, format.TimestampColumn)
	}

	var interactions []Interaction
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) <= userIdx || len(rec) <= itemIdx || len(rec) <= tsIdx {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected at least %d fields", line, len(header))
		}

		ts, err := parseTimestamp(rec[tsIdx], format.TimeLayout)
		if err != nil {
			line, _ := cr.FieldPos(tsIdx)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		interactions = append(interactions, Interaction{User: rec[userIdx], Item: rec[itemIdx], Timestamp: ts})
	}

	return NewInteractionMatrix(interactions), nil
}

func parseTimestamp(s, layout string) (int64, error) {
	s = strings.TrimSpace(s)
	if layout == "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		return int64(v), nil
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
