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
	"time"

	"github.com/tarslab/tarsctl/internal/numstr"
)

// Time constants in seconds, the unit of every decay parameter.
const (
	Hour = 3600
	Day  = 24 * Hour
)

// Similarity functions accepted by the base algorithms.
var (
	similarityFunctions   = []string{"cosine", "conditional_probability"}
	coocDistanceFunctions = []string{"cooc", "conditional_probability"}
)

// Literature half-lives.
var (
	halfLives14d = []int64{1 * Hour, 2 * Hour, 3 * Hour, 6 * Hour, 12 * Hour, 1 * Day, 7 * Day, 14 * Day}
	halfLives30d = append(append([]int64{}, halfLives14d...), 30*Day)
	intervals    = []int64{1, Hour, Day, 7 * Day, 30 * Day}
)

// reciprocals returns 1/x for each duration in seconds.
func reciprocals(seconds []int64) []numstr.NumberOrString {
	out := make([]numstr.NumberOrString, len(seconds))
	for i, s := range seconds {
		out[i] = numstr.FromFloat64(1 / float64(s))
	}
	return out
}

func withZero(prefix bool, values []numstr.NumberOrString) []numstr.NumberOrString {
	if prefix {
		return append([]numstr.NumberOrString{numstr.FromInt64(0)}, values...)
	}
	return append(append([]numstr.NumberOrString{}, values...), numstr.FromInt64(0))
}

func grid(name string, values []numstr.NumberOrString) GridParameter {
	return GridParameter{Name: name, Values: values}
}

func decay(name string) Params {
	return Params{"decay_function": numstr.FromString(name)}
}

func defaultEntries() []Entry {
	const timeout, maxEvals = 24 * time.Hour, 50

	return []Entry{
		// Literature algorithms
		{
			ID:     "TARSItemKNNLee_W3",
			Search: NewGrid(grid("similarity", numstr.Strings("cosine", "pearson"))),
		},
		{
			ID:     "TARSItemKNNLee_W5",
			Search: NewGrid(grid("similarity", numstr.Strings("cosine", "pearson"))),
		},
		{
			ID: "TARSItemKNNLee",
			Search: NewGrid(
				grid("similarity", numstr.Strings("cosine", "pearson")),
				grid("W", numstr.Ints(2, 3, 4, 5, 8, 10, 16)),
			),
		},
		{
			ID: "TARSItemKNNLiu",
			Search: NewGrid(
				grid("fit_decay", withZero(true, reciprocals(halfLives14d))),
				grid("predict_decay", withZero(true, reciprocals(halfLives14d))),
			),
		},
		{
			ID: "TARSItemKNNDing",
			Search: NewGrid(
				grid("predict_decay", withZero(true, reciprocals(halfLives14d))),
				grid("similarity", numstr.Strings(similarityFunctions...)),
			),
		},
		{
			ID:     "TARSItemKNNLiu2012",
			Search: NewGrid(grid("decay", numstr.Ints(2, 5, 10, 50, 100, 200, 500, 1000))),
		},
		{
			ID: "TARSItemKNNVaz",
			Search: NewGrid(
				grid("fit_decay", reciprocals(halfLives30d)),
				grid("predict_decay", reciprocals(halfLives30d)),
			),
		},
		{
			ID: "TARSItemKNNHermann",
			Search: NewDistribution(timeout, maxEvals,
				UniformInt("decay_interval", 1, 30*Day),
			),
		},
		{
			ID:        "TARSItemKNNXia_concave",
			Algorithm: "TARSItemKNNXia",
			Params:    decay("concave"),
			Search: NewDistribution(timeout, maxEvals,
				Uniform("fit_decay", 0, 1),
				UniformInt("decay_interval", 1, 30*Day),
			),
		},
		{
			ID:        "TARSItemKNNXia_linear",
			Algorithm: "TARSItemKNNXia",
			Params:    decay("linear"),
			Search: NewDistribution(timeout, maxEvals,
				Uniform("fit_decay", 0, 10),
				UniformInt("decay_interval", 1, 30*Day),
			),
		},
		{
			ID:        "TARSItemKNNXia_convex",
			Algorithm: "TARSItemKNNXia",
			Params:    decay("convex"),
			Search: NewDistribution(timeout, maxEvals,
				Uniform("fit_decay", 0, 1),
				UniformInt("decay_interval", 1, 30*Day),
			),
		},

		// Extensions
		{
			ID:        "TARSItemKNNexponential",
			Algorithm: "TARSItemKNN",
			Params:    decay("exponential"),
			Search: NewGrid(
				grid("similarity", numstr.Strings(similarityFunctions...)),
				grid("fit_decay", withZero(false, reciprocals(halfLives30d))),
				grid("predict_decay", withZero(false, reciprocals(halfLives30d))),
			),
		},
		{
			ID:        "TARSItemKNNlog",
			Algorithm: "TARSItemKNN",
			Params:    decay("log"),
			Search: NewGrid(
				grid("similarity", numstr.Strings(similarityFunctions...)),
				grid("fit_decay", numstr.Ints(2, 4, 8, 16, 32)),
				grid("predict_decay", numstr.Ints(2, 4, 8, 16, 32)),
				grid("decay_interval", numstr.Ints(intervals...)),
			),
		},
		{
			ID:        "TARSItemKNNlinear",
			Algorithm: "TARSItemKNN",
			Params:    decay("linear"),
			Search: NewGrid(
				grid("similarity", numstr.Strings(similarityFunctions...)),
				grid("fit_decay", numstr.Floats(0.1, 0.3, 0.5, 0.7, 0.9, 1, 5, 10, 50, 100, 1000)),
				grid("predict_decay", numstr.Floats(0.1, 0.3, 0.5, 0.7, 0.9, 1, 5, 10, 50, 100, 1000)),
			),
		},
		{
			ID:        "TARSItemKNNlinear_steeper",
			Algorithm: "TARSItemKNN",
			Params:    decay("linear_steeper"),
			Search: NewGrid(
				grid("similarity", numstr.Strings(similarityFunctions...)),
				grid("fit_decay", numstr.Ints(1, 5, 10, 50, 100, 1000)),
				grid("predict_decay", numstr.Ints(1, 5, 10, 50, 100, 1000)),
			),
		},
		{
			ID:        "TARSItemKNNconcave",
			Algorithm: "TARSItemKNN",
			Params:    decay("concave"),
			Search: NewGrid(
				grid("similarity", numstr.Strings(similarityFunctions...)),
				grid("fit_decay", numstr.Floats(0.1, 0.3, 0.5, 0.7, 0.8, 0.9)),
				grid("predict_decay", numstr.Floats(0.1, 0.3, 0.5, 0.7, 0.8, 0.9)),
			),
		},
		{
			ID:        "TARSItemKNNconvex",
			Algorithm: "TARSItemKNN",
			Params:    decay("convex"),
			Search: NewGrid(
				grid("similarity", numstr.Strings(similarityFunctions...)),
				grid("fit_decay", numstr.Floats(0.01, 0.1, 0.3, 0.9)),
				grid("predict_decay", numstr.Floats(0.01, 0.1, 0.3, 0.9)),
			),
		},
		{
			ID:        "TARSItemKNNinverse",
			Algorithm: "TARSItemKNN",
			Params:    decay("inverse"),
			Search: NewGrid(
				grid("similarity", numstr.Strings(similarityFunctions...)),
				grid("decay_interval", numstr.Ints(intervals...)),
			),
		},
		{
			ID:        "TARSItemKNNCoocDistanceexponential",
			Algorithm: "TARSItemKNNCoocDistance",
			Params:    decay("exponential"),
			Search: NewDistribution(timeout, maxEvals,
				Choice("similarity", coocDistanceFunctions...),
				Uniform("fit_decay", 0, 1),
				Uniform("predict_decay", 0, 1),
				Uniform("event_age_weight", 0, 1),
			),
		},
		{
			ID:        "TARSItemKNNCoocDistancelog",
			Algorithm: "TARSItemKNNCoocDistance",
			Params:    decay("log"),
			Search: NewDistribution(timeout, maxEvals,
				Choice("similarity", coocDistanceFunctions...),
				UniformInt("fit_decay", 2, 64),
				UniformInt("predict_decay", 2, 64),
				UniformInt("decay_interval", 1, 30*Day),
				Uniform("event_age_weight", 0, 1),
			),
		},
		{
			ID:        "TARSItemKNNCoocDistancelinear",
			Algorithm: "TARSItemKNNCoocDistance",
			Params:    decay("linear"),
			Search: NewDistribution(timeout, maxEvals,
				Choice("similarity", coocDistanceFunctions...),
				Uniform("fit_decay", 0, 10),
				Uniform("predict_decay", 0, 10),
				UniformInt("decay_interval", 1, 30*Day),
				Uniform("event_age_weight", 0, 1),
			),
		},
		{
			ID:        "TARSItemKNNCoocDistanceconcave",
			Algorithm: "TARSItemKNNCoocDistance",
			Params:    decay("concave"),
			Search: NewDistribution(timeout, maxEvals,
				Choice("similarity", coocDistanceFunctions...),
				Uniform("fit_decay", 0, 1),
				Uniform("predict_decay", 0, 1),
				UniformInt("decay_interval", 1, 30*Day),
				Uniform("event_age_weight", 0, 1),
			),
		},
	}
}
