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

// Package dataset describes the benchmark interaction logs and their temporal
// evaluation boundaries.
package dataset

import (
	"path/filepath"
	"time"

	"github.com/tarslab/tarsctl/internal/validation"
)

// Format describes how interactions are stored in a delimited file.
type Format struct {
	// Comma is the field delimiter, defaults to ','.
	Comma rune
	// Header names the columns of a file without a header row; when empty the
	// first row of the file is the header.
	Header []string
	// UserColumn is the name of the column holding the user (or session) identifier.
	UserColumn string
	// ItemColumn is the name of the column holding the item identifier.
	ItemColumn string
	// TimestampColumn is the name of the column holding the event time.
	TimestampColumn string
	// TimeLayout parses the event time, when empty the time is in epoch seconds.
	TimeLayout string
}

// Profile is a benchmark dataset with its temporal split points.
type Profile struct {
	ID          string        `json:"id"`
	Filename    string        `json:"filename"`
	Format      Format        `json:"-"`
	TTest       time.Time     `json:"t"`
	TValidation time.Time     `json:"tValidation"`
	DeltaOut    time.Duration `json:"deltaOut"`
	Filters     []Filter      `json:"-"`

	// BasePath is the directory holding Filename.
	BasePath string `json:"basePath,omitempty"`
	// Source is an optional go-getter URL used when the file is missing.
	Source string `json:"source,omitempty"`
}

// Path returns the location of the dataset file.
func (p *Profile) Path() string {
	return filepath.Join(p.BasePath, p.Filename)
}

// Validate checks the temporal boundaries of the profile.
func (p *Profile) Validate() error {
	if !p.TValidation.Before(p.TTest) {
		return validation.NewError(validation.ErrInvalidRequest, "%s: validation cutoff %s must be before test cutoff %s",
			p.ID, p.TValidation.Format(time.RFC3339), p.TTest.Format(time.RFC3339))
	}
	if p.DeltaOut <= 0 {
		return validation.NewError(validation.ErrInvalidRequest, "%s: delta out must be positive", p.ID)
	}
	return nil
}

// Option customizes a resolved profile.
type Option func(*Profile)

// WithSource sets the remote location of the dataset file.
func WithSource(src string) Option {
	return func(p *Profile) {
		if src != "" {
			p.Source = src
		}
	}
}

// Resolve returns the named profile bound to the supplied base path.
func Resolve(id, basePath string, opts ...Option) (*Profile, error) {
	for _, p := range Profiles() {
		if p.ID != id {
			continue
		}

		p.BasePath = basePath
		for _, opt := range opts {
			opt(&p)
		}
		return &p, nil
	}

	return nil, validation.NewError(validation.ErrUnknownDataset, "%s is not a supported dataset, please use one of: %v", id, IDs())
}

// IDs returns the identifiers of the known datasets.
func IDs() []string {
	profiles := Profiles()
	ids := make([]string, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].ID
	}
	return ids
}
