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

package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/tarslab/tarsctl/internal/numstr"
	"github.com/tarslab/tarsctl/internal/validation"
)

// SearchKind identifies the shape of a search space.
type SearchKind string

const (
	// SearchGrid is an enumerated grid, every combination is evaluated.
	SearchGrid SearchKind = "grid"
	// SearchDistribution is a bounded space sampled by a sequential optimizer.
	SearchDistribution SearchKind = "distribution"
)

// SearchSpace is either a Grid or a Distribution.
type SearchSpace interface {
	// Kind returns the shape of the search space.
	Kind() SearchKind
	// Names returns the searched parameter names in declaration order.
	Names() []string

	validate(name string) error
}

// Assignment is a single point in a search space.
type Assignment map[string]numstr.NumberOrString

// GridParameter is a parameter with an ordered list of candidate values.
type GridParameter struct {
	Name   string                  `json:"name"`
	Values []numstr.NumberOrString `json:"values"`
}

// Grid is an enumerated search space.
type Grid struct {
	Parameters []GridParameter
}

var _ SearchSpace = &Grid{}

// NewGrid returns a grid over the supplied parameters.
func NewGrid(params ...GridParameter) *Grid {
	return &Grid{Parameters: params}
}

func (g *Grid) Kind() SearchKind { return SearchGrid }

func (g *Grid) Names() []string {
	names := make([]string, len(g.Parameters))
	for i := range g.Parameters {
		names[i] = g.Parameters[i].Name
	}
	return names
}

// Size returns the number of candidates in the grid, an empty grid has the single default candidate.
func (g *Grid) Size() int {
	size := 1
	for i := range g.Parameters {
		size *= len(g.Parameters[i].Values)
	}
	return size
}

// Candidates returns the Cartesian product of the grid; the first parameter varies slowest.
func (g *Grid) Candidates() []Assignment {
	result := []Assignment{{}}
	for _, p := range g.Parameters {
		next := make([]Assignment, 0, len(result)*len(p.Values))
		for _, a := range result {
			for _, v := range p.Values {
				c := make(Assignment, len(a)+1)
				for k := range a {
					c[k] = a[k]
				}
				c[p.Name] = v
				next = append(next, c)
			}
		}
		result = next
	}
	return result
}

func (g *Grid) validate(name string) error {
	if err := validation.CheckUnique(name, g.Names()); err != nil {
		return err
	}
	for _, p := range g.Parameters {
		if len(p.Values) == 0 {
			return validation.NewError(validation.ErrInvalidCatalog, "%s: grid parameter %s has no values", name, p.Name)
		}
	}
	return nil
}

func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       SearchKind      `json:"kind"`
		Parameters []GridParameter `json:"parameters"`
	}{Kind: SearchGrid, Parameters: g.Parameters})
}

// ParameterType is the sampling distribution of a parameter.
type ParameterType string

const (
	// ParameterTypeUniform is a continuous uniform distribution.
	ParameterTypeUniform ParameterType = "uniform"
	// ParameterTypeUniformInt is a discrete uniform distribution, inclusive of both bounds.
	ParameterTypeUniformInt ParameterType = "uniformint"
	// ParameterTypeChoice is a categorical choice.
	ParameterTypeChoice ParameterType = "choice"
)

// Bounds is the inclusive range of a numeric parameter.
type Bounds struct {
	Min numstr.NumberOrString `json:"min"`
	Max numstr.NumberOrString `json:"max"`
}

// Parameter is a searched parameter in a distribution.
type Parameter struct {
	Name   string                  `json:"name"`
	Type   ParameterType           `json:"type"`
	Bounds *Bounds                 `json:"bounds,omitempty"`
	Values []numstr.NumberOrString `json:"values,omitempty"`
}

// Uniform returns a continuous parameter.
func Uniform(name string, min, max float64) Parameter {
	return Parameter{Name: name, Type: ParameterTypeUniform, Bounds: &Bounds{Min: numstr.FromFloat64(min), Max: numstr.FromFloat64(max)}}
}

// UniformInt returns an integer parameter.
func UniformInt(name string, min, max int64) Parameter {
	return Parameter{Name: name, Type: ParameterTypeUniformInt, Bounds: &Bounds{Min: numstr.FromInt64(min), Max: numstr.FromInt64(max)}}
}

// Choice returns a categorical parameter.
func Choice(name string, values ...string) Parameter {
	return Parameter{Name: name, Type: ParameterTypeChoice, Values: numstr.Strings(values...)}
}

// Distribution is a bounded search space with a wall-clock and evaluation budget.
type Distribution struct {
	Parameters []Parameter
	Timeout    time.Duration
	MaxEvals   int
}

var _ SearchSpace = &Distribution{}

// NewDistribution returns a budgeted distribution over the supplied parameters.
func NewDistribution(timeout time.Duration, maxEvals int, params ...Parameter) *Distribution {
	return &Distribution{Parameters: params, Timeout: timeout, MaxEvals: maxEvals}
}

func (d *Distribution) Kind() SearchKind { return SearchDistribution }

func (d *Distribution) Names() []string {
	names := make([]string, len(d.Parameters))
	for i := range d.Parameters {
		names[i] = d.Parameters[i].Name
	}
	return names
}

// Sample draws a single random assignment from the distribution.
func (d *Distribution) Sample(r *rand.Rand) (Assignment, error) {
	a := make(Assignment, len(d.Parameters))
	for i := range d.Parameters {
		p := &d.Parameters[i]
		switch p.Type {
		case ParameterTypeUniformInt:
			min, max := p.Bounds.Min.Int64Value(), p.Bounds.Max.Int64Value()
			a[p.Name] = numstr.FromInt64(r.Int63n(max-min+1) + min)
		case ParameterTypeUniform:
			min, max := p.Bounds.Min.Float64Value(), p.Bounds.Max.Float64Value()
			a[p.Name] = numstr.FromFloat64(min + r.Float64()*(max-min))
		case ParameterTypeChoice:
			a[p.Name] = p.Values[r.Intn(len(p.Values))]
		default:
			return nil, fmt.Errorf("unable to produce random %v", p.Type)
		}
	}
	return a, nil
}

func (d *Distribution) validate(name string) error {
	if err := validation.CheckUnique(name, d.Names()); err != nil {
		return err
	}
	if d.Timeout <= 0 {
		return validation.NewError(validation.ErrInvalidCatalog, "%s: distribution timeout must be positive", name)
	}
	if d.MaxEvals <= 0 {
		return validation.NewError(validation.ErrInvalidCatalog, "%s: distribution evaluation limit must be positive", name)
	}
	for i := range d.Parameters {
		p := &d.Parameters[i]
		switch p.Type {
		case ParameterTypeUniform, ParameterTypeUniformInt:
			if p.Bounds == nil {
				return validation.NewError(validation.ErrInvalidCatalog, "%s: %s parameter %s requires bounds", name, p.Type, p.Name)
			}
			if err := validation.CheckBounds(name, p.Name, p.Bounds.Min, p.Bounds.Max); err != nil {
				return err
			}
		case ParameterTypeChoice:
			if len(p.Values) == 0 {
				return validation.NewError(validation.ErrInvalidCatalog, "%s: choice parameter %s has no values", name, p.Name)
			}
		default:
			return validation.NewError(validation.ErrInvalidCatalog, "%s: parameter %s has unknown type %q", name, p.Name, p.Type)
		}
	}
	return nil
}

func (d *Distribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       SearchKind  `json:"kind"`
		Parameters []Parameter `json:"parameters"`
		Timeout    int64       `json:"timeout"`
		MaxEvals   int         `json:"maxEvals"`
	}{Kind: SearchDistribution, Parameters: d.Parameters, Timeout: int64(d.Timeout / time.Second), MaxEvals: d.MaxEvals})
}
