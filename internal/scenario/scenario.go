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

// Package scenario partitions an interaction log into training, validation and
// test data around fixed points in time.
package scenario

import (
	"errors"
	"strings"
	"time"

	"github.com/tarslab/tarsctl/internal/dataset"
	"github.com/tarslab/tarsctl/internal/validation"
)

// Kind is the temporal split strategy.
type Kind string

const (
	// KindLastItemPrediction targets only the first interaction of each user after a cutoff.
	KindLastItemPrediction Kind = "last-item-prediction"
	// KindTimed targets every interaction of each user after a cutoff.
	KindTimed Kind = "timed"
)

// Kinds returns the supported split strategies.
func Kinds() []Kind {
	return []Kind{KindLastItemPrediction, KindTimed}
}

// ParseKind returns the split strategy with the supplied name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}

	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return "", validation.NewError(validation.ErrUnsupportedScenario, "unsupported scenario %q, please use one of: %s", s, strings.Join(names, ", "))
}

// ErrNotSplit is returned when partitions are requested before a split.
var ErrNotSplit = errors.New("scenario has not been split")

var errNoData = errors.New("interaction matrix is required")

// Scenario is a temporal partitioning of an interaction matrix.
type Scenario interface {
	// Kind returns the split strategy.
	Kind() Kind
	// Split partitions the interaction matrix.
	Split(m *dataset.InteractionMatrix) error

	FullTraining() *dataset.InteractionMatrix
	ValidationTraining() *dataset.InteractionMatrix
	ValidationIn() *dataset.InteractionMatrix
	ValidationOut() *dataset.InteractionMatrix
	TestIn() *dataset.InteractionMatrix
	TestOut() *dataset.InteractionMatrix
}

// New returns an unsplit scenario of the requested kind.
func New(kind Kind, t, tValidation time.Time, deltaOut time.Duration) (Scenario, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if !tValidation.Before(t) {
		return nil, validation.NewError(validation.ErrInvalidRequest, "validation cutoff must be before the test cutoff")
	}
	if deltaOut <= 0 {
		return nil, validation.NewError(validation.ErrInvalidRequest, "delta out must be positive")
	}

	s := &Timed{T: t, TValidation: tValidation, DeltaOut: deltaOut}
	if kind == KindLastItemPrediction {
		return &TimedLastItemPrediction{Timed: *s}, nil
	}
	return s, nil
}

// Timed holds out every interaction inside the window after each cutoff.
type Timed struct {
	T           time.Time
	TValidation time.Time
	DeltaOut    time.Duration

	partitions *partitions
}

type partitions struct {
	fullTraining, validationTraining *dataset.InteractionMatrix
	validationIn, validationOut      *dataset.InteractionMatrix
	testIn, testOut                  *dataset.InteractionMatrix
}

var _ Scenario = &Timed{}

func (s *Timed) Kind() Kind { return KindTimed }

func (s *Timed) Split(m *dataset.InteractionMatrix) error {
	if m == nil {
		return errNoData
	}
	s.partitions = s.split(m, func(out *dataset.InteractionMatrix) *dataset.InteractionMatrix { return out })
	return nil
}

func (s *Timed) split(m *dataset.InteractionMatrix, target func(*dataset.InteractionMatrix) *dataset.InteractionMatrix) *partitions {
	t, tVal, delta := s.T.Unix(), s.TValidation.Unix(), int64(s.DeltaOut/time.Second)

	p := &partitions{}
	p.fullTraining = m.Before(t)
	p.testOut = target(m.Window(t, t+delta))
	p.testIn = p.fullTraining.ForUsers(p.testOut.Users())

	valEnd := tVal + delta
	if valEnd > t {
		valEnd = t
	}
	p.validationTraining = m.Before(tVal)
	p.validationOut = target(m.Window(tVal, valEnd))
	p.validationIn = p.validationTraining.ForUsers(p.validationOut.Users())
	return p
}

func (s *Timed) FullTraining() *dataset.InteractionMatrix {
	if s.partitions == nil {
		return nil
	}
	return s.partitions.fullTraining
}

func (s *Timed) ValidationTraining() *dataset.InteractionMatrix {
	if s.partitions == nil {
		return nil
	}
	return s.partitions.validationTraining
}

func (s *Timed) ValidationIn() *dataset.InteractionMatrix {
	if s.partitions == nil {
		return nil
	}
	return s.partitions.validationIn
}

func (s *Timed) ValidationOut() *dataset.InteractionMatrix {
	if s.partitions == nil {
		return nil
	}
	return s.partitions.validationOut
}

func (s *Timed) TestIn() *dataset.InteractionMatrix {
	if s.partitions == nil {
		return nil
	}
	return s.partitions.testIn
}

func (s *Timed) TestOut() *dataset.InteractionMatrix {
	if s.partitions == nil {
		return nil
	}
	return s.partitions.testOut
}

// TimedLastItemPrediction holds out only the first interaction of each user inside
// the window after each cutoff.
type TimedLastItemPrediction struct {
	Timed
}

var _ Scenario = &TimedLastItemPrediction{}

func (s *TimedLastItemPrediction) Kind() Kind { return KindLastItemPrediction }

func (s *TimedLastItemPrediction) Split(m *dataset.InteractionMatrix) error {
	if m == nil {
		return errNoData
	}
	s.partitions = s.split(m, (*dataset.InteractionMatrix).FirstPerUser)
	return nil
}

// Check ensures a scenario has every partition populated.
func Check(s Scenario) error {
	for _, m := range []*dataset.InteractionMatrix{
		s.FullTraining(), s.ValidationTraining(), s.ValidationIn(), s.ValidationOut(), s.TestIn(), s.TestOut(),
	} {
		if m == nil {
			return ErrNotSplit
		}
	}
	return nil
}
