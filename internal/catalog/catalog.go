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

// Package catalog is the registry of runnable experiments: which algorithm each
// experiment trains, which parameters it pins and which parameters it searches.
package catalog

import (
	"sort"
	"sync"

	"github.com/tarslab/tarsctl/internal/numstr"
	"github.com/tarslab/tarsctl/internal/validation"
)

// Params are fixed (non-searched) algorithm parameter values.
type Params map[string]numstr.NumberOrString

// Keys returns the sorted parameter names.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeepCopy returns a copy of the parameters that can be modified freely.
func (p Params) DeepCopy() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Entry is a single runnable experiment.
type Entry struct {
	// ID is the unique experiment identifier.
	ID string `json:"id"`
	// Algorithm overrides the algorithm identifier, it defaults to the ID.
	Algorithm string `json:"algorithm,omitempty"`
	// Params are passed to the algorithm unchanged.
	Params Params `json:"params,omitempty"`
	// Search is the hyperparameter search space.
	Search SearchSpace `json:"search"`
}

// AlgorithmID returns the identifier of the algorithm trained by this experiment.
func (e *Entry) AlgorithmID() string {
	if e.Algorithm != "" {
		return e.Algorithm
	}
	return e.ID
}

func (e *Entry) validate() error {
	if e.ID == "" {
		return validation.NewError(validation.ErrInvalidCatalog, "experiment identifier is required")
	}
	if e.Search == nil {
		return validation.NewError(validation.ErrInvalidCatalog, "%s: search space is required", e.ID)
	}
	if err := validation.CheckDisjoint(e.ID, e.Params, e.Search.Names()); err != nil {
		return err
	}
	return e.Search.validate(e.ID)
}

// Resolved is the result of looking up an experiment.
type Resolved struct {
	ID          string
	AlgorithmID string
	Params      Params
	Search      SearchSpace
}

// Catalog is an ordered, read-only collection of experiments.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New returns a validated catalog of the supplied entries.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i := range entries {
		if _, ok := c.index[entries[i].ID]; ok {
			return nil, validation.NewError(validation.ErrInvalidCatalog, "duplicate experiment %q", entries[i].ID)
		}
		c.entries[i] = entries[i]
		c.entries[i].Params = entries[i].Params.DeepCopy()
		c.index[entries[i].ID] = i
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in experiment catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(defaultEntries()...)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup resolves an experiment identifier.
func (c *Catalog) Lookup(id string) (Resolved, error) {
	i, ok := c.index[id]
	if !ok {
		return Resolved{}, validation.NewError(validation.ErrUnknownExperiment,
			"%s not supported in experiment, please use one of the preconfigured algorithms", id)
	}

	e := &c.entries[i]
	return Resolved{
		ID:          e.ID,
		AlgorithmID: e.AlgorithmID(),
		Params:      e.Params.DeepCopy(),
		Search:      e.Search,
	}, nil
}

// Has checks to see if the experiment identifier is present.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// IDs returns the experiment identifiers in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i := range c.entries {
		ids[i] = c.entries[i].ID
	}
	return ids
}

// Entries returns a copy of the catalog entries in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i := range c.entries {
		out[i] = c.entries[i]
		out[i].Params = c.entries[i].Params.DeepCopy()
	}
	return out
}

// Validate checks every entry of the catalog.
func (c *Catalog) Validate() error {
	for i := range c.entries {
		if err := c.entries[i].validate(); err != nil {
			return err
		}
	}
	return nil
}
