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
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarslab/tarsctl/internal/numstr"
	"github.com/tarslab/tarsctl/internal/validation"
)

func TestDefault_Disjoint(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.IDs())
	for _, id := range c.IDs() {
		r, err := c.Lookup(id)
		require.NoError(t, err, id)
		for _, name := range r.Search.Names() {
			_, fixed := r.Params[name]
			assert.False(t, fixed, "%s: %s is both fixed and searched", id, name)
		}
	}
}

func TestDefault_AlgorithmID(t *testing.T) {
	c := Default()
	for _, e := range c.Entries() {
		r, err := c.Lookup(e.ID)
		require.NoError(t, err)
		if e.Algorithm == "" {
			assert.Equal(t, e.ID, r.AlgorithmID)
		} else {
			assert.Equal(t, e.Algorithm, r.AlgorithmID)
		}
	}

	r, err := c.Lookup("TARSItemKNNlog")
	require.NoError(t, err)
	assert.Equal(t, "TARSItemKNN", r.AlgorithmID)
	assert.Equal(t, "log", r.Params["decay_function"].StrVal)

	r, err = c.Lookup("TARSItemKNNVaz")
	require.NoError(t, err)
	assert.Equal(t, "TARSItemKNNVaz", r.AlgorithmID)
	assert.Empty(t, r.Params)
}

func TestDefault_Table(t *testing.T) {
	c := Default()
	cases := []struct {
		id   string
		kind SearchKind
		size int
	}{
		{id: "TARSItemKNNLee_W3", kind: SearchGrid, size: 2},
		{id: "TARSItemKNNLee", kind: SearchGrid, size: 14},
		{id: "TARSItemKNNLiu", kind: SearchGrid, size: 81},
		{id: "TARSItemKNNDing", kind: SearchGrid, size: 18},
		{id: "TARSItemKNNLiu2012", kind: SearchGrid, size: 8},
		{id: "TARSItemKNNVaz", kind: SearchGrid, size: 81},
		{id: "TARSItemKNNexponential", kind: SearchGrid, size: 200},
		{id: "TARSItemKNNinverse", kind: SearchGrid, size: 10},
		{id: "TARSItemKNNHermann", kind: SearchDistribution},
		{id: "TARSItemKNNCoocDistancelog", kind: SearchDistribution},
	}
	for _, c2 := range cases {
		t.Run(c2.id, func(t *testing.T) {
			r, err := c.Lookup(c2.id)
			require.NoError(t, err)
			assert.Equal(t, c2.kind, r.Search.Kind())
			if g, ok := r.Search.(*Grid); ok {
				assert.Equal(t, c2.size, g.Size())
			}
			if d, ok := r.Search.(*Distribution); ok {
				assert.Equal(t, 24*time.Hour, d.Timeout)
				assert.Equal(t, 50, d.MaxEvals)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Default().Lookup("NotARealAlgorithm")
	require.Error(t, err)
	assert.True(t, validation.IsType(err, validation.ErrUnknownExperiment))
	assert.Contains(t, err.Error(), "NotARealAlgorithm")
}

func TestLookup_ParamsAreCopied(t *testing.T) {
	c := Default()
	r, err := c.Lookup("TARSItemKNNlinear")
	require.NoError(t, err)
	r.Params["decay_function"] = numstr.FromString("mutated")

	r, err = c.Lookup("TARSItemKNNlinear")
	require.NoError(t, err)
	assert.Equal(t, "linear", r.Params["decay_function"].StrVal)
}

func TestNew(t *testing.T) {
	cases := []struct {
		desc    string
		entries []Entry
		err     string
	}{
		{
			desc: "Valid",
			entries: []Entry{
				{ID: "A", Search: NewGrid(grid("similarity", numstr.Strings("cosine", "pearson")))},
				{ID: "B", Algorithm: "A", Params: decay("log"), Search: NewDistribution(time.Hour, 5, Uniform("fit_decay", 0, 1))},
			},
		},
		{
			desc: "Overlap",
			entries: []Entry{
				{ID: "A", Params: Params{"similarity": numstr.FromString("cosine")}, Search: NewGrid(grid("similarity", numstr.Strings("cosine")))},
			},
			err: "A: parameters are both fixed and searched: similarity",
		},
		{
			desc: "Duplicate",
			entries: []Entry{
				{ID: "A", Search: NewGrid(grid("x", numstr.Ints(1)))},
				{ID: "A", Search: NewGrid(grid("x", numstr.Ints(1)))},
			},
			err: `duplicate experiment "A"`,
		},
		{
			desc:    "EmptyGrid",
			entries: []Entry{{ID: "A", Search: NewGrid(grid("x", nil))}},
			err:     "A: grid parameter x has no values",
		},
		{
			desc:    "NoSearch",
			entries: []Entry{{ID: "A"}},
			err:     "A: search space is required",
		},
		{
			desc:    "BadBounds",
			entries: []Entry{{ID: "A", Search: NewDistribution(time.Hour, 5, UniformInt("x", 10, 1))}},
			err:     "A: minimum for x must be strictly less then maximum [10,1]",
		},
		{
			desc:    "NoBudget",
			entries: []Entry{{ID: "A", Search: NewDistribution(0, 5, Uniform("x", 0, 1))}},
			err:     "A: distribution timeout must be positive",
		},
		{
			desc:    "NoChoices",
			entries: []Entry{{ID: "A", Search: NewDistribution(time.Hour, 5, Choice("x"))}},
			err:     "A: choice parameter x has no values",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cat, err := New(c.entries...)
			if c.err != "" {
				assert.EqualError(t, err, c.err)
				assert.True(t, validation.IsType(err, validation.ErrInvalidCatalog))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B"}, cat.IDs())
		})
	}
}

func TestGrid_Candidates(t *testing.T) {
	g := NewGrid(
		grid("similarity", numstr.Strings("cosine", "pearson")),
		grid("W", numstr.Ints(2, 3, 4)),
	)

	candidates := g.Candidates()
	require.Len(t, candidates, g.Size())
	assert.Equal(t, "cosine", candidates[0]["similarity"].StrVal)
	assert.Equal(t, int64(2), candidates[0]["W"].Int64Value())
	assert.Equal(t, "cosine", candidates[2]["similarity"].StrVal)
	assert.Equal(t, int64(4), candidates[2]["W"].Int64Value())
	assert.Equal(t, "pearson", candidates[3]["similarity"].StrVal)

	empty := NewGrid()
	assert.Equal(t, 1, empty.Size())
	assert.Equal(t, []Assignment{{}}, empty.Candidates())
}

func TestDistribution_Sample(t *testing.T) {
	d := NewDistribution(time.Hour, 10,
		Choice("similarity", "cooc", "conditional_probability"),
		Uniform("fit_decay", 0, 10),
		UniformInt("decay_interval", 1, 3),
	)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		a, err := d.Sample(r)
		require.NoError(t, err)

		fitDecay, interval := a["fit_decay"], a["decay_interval"]
		assert.NoError(t, validation.CheckValue("similarity", a["similarity"], nil, nil, d.Parameters[0].Values))
		assert.NoError(t, validation.CheckValue("fit_decay", fitDecay, &d.Parameters[1].Bounds.Min, &d.Parameters[1].Bounds.Max, nil))
		assert.NoError(t, validation.CheckValue("decay_interval", interval, &d.Parameters[2].Bounds.Min, &d.Parameters[2].Bounds.Max, nil))
		assert.Equal(t, float64(interval.Int64Value()), interval.Float64Value())
	}
}

func TestSearchSpace_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Entry{ID: "A", Search: NewGrid(grid("W", numstr.Ints(2, 3)))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"A","search":{"kind":"grid","parameters":[{"name":"W","values":[2,3]}]}}`, string(b))

	b, err = json.Marshal(NewDistribution(time.Hour, 5, UniformInt("x", 1, 2)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"distribution","parameters":[{"name":"x","type":"uniformint","bounds":{"min":1,"max":2}}],"timeout":3600,"maxEvals":5}`, string(b))
}
