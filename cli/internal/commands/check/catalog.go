/*
Copyright 2020 GramLabs, Inc.

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

package check

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/tarslab/tarsctl/cli/internal/commander"
	"github.com/tarslab/tarsctl/internal/catalog"
)

// MaxGridSize is the number of grid candidates above which a search is reported as expensive.
const MaxGridSize = 500

// ErrLint is returned when the linter reports at least one error.
var ErrLint = errors.New("catalog check failed")

// CatalogOptions are the options for checking the experiment catalog
type CatalogOptions struct {
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Catalog is the catalog to check, defaults to the preconfigured catalog
	Catalog *catalog.Catalog
}

// NewCatalogCommand creates a new command for checking the experiment catalog
func NewCatalogCommand(o *CatalogOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Check the experiment catalog",
		Long:  "Check the preconfigured experiments for invalid or expensive search spaces",
		Args:  cobra.NoArgs,

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE:   commander.WithContextE(o.checkCatalog),
	}

	return cmd
}

func (o *CatalogOptions) checkCatalog(ctx context.Context) error {
	c := o.Catalog
	if c == nil {
		c = catalog.Default()
	}

	var hasError bool
	l := &linter{
		logger: commander.NewLintLogger(o.ErrOut, func() { hasError = true }),
		rand:   rand.New(rand.NewSource(1)),
	}

	if err := c.Validate(); err != nil {
		l.logger.Error(err, "Catalog is invalid")
	}

	catalog.Walk(ctx, l, c)

	if hasError {
		return ErrLint
	}
	return nil
}

type linter struct {
	logger logr.Logger
	rand   *rand.Rand
}

func (l *linter) Visit(ctx context.Context, obj interface{}) catalog.Visitor {
	lint := l.logger.WithValues("path", strings.Join(catalog.WalkPath(ctx), "/"))

	switch o := obj.(type) {

	case *catalog.Grid:
		if n := o.Size(); n > MaxGridSize {
			lint.Info("Grid search is expensive, consider a distribution", "candidates", n)
		}

	case *catalog.GridParameter:
		if len(o.Values) == 1 {
			lint.Info("Grid parameter has a single value, consider a fixed parameter", "value", o.Values[0].String())
		}
		seen := make(map[string]struct{}, len(o.Values))
		for i := range o.Values {
			v := o.Values[i].String()
			if _, ok := seen[v]; ok {
				lint.Error(nil, "Grid parameter has duplicate values", "value", v)
			}
			seen[v] = struct{}{}
		}

	case *catalog.Distribution:
		if n := len(o.Parameters); n > 0 && o.MaxEvals < 10*n {
			lint.Info("Distribution evaluation limit is low for the number of parameters", "maxEvals", o.MaxEvals, "recommended", 10*n)
		}
		// Dry run a single draw
		if _, err := o.Sample(l.rand); err != nil {
			lint.Error(err, "Distribution cannot be sampled")
		}

	case *catalog.Parameter:
		switch o.Type {
		case catalog.ParameterTypeChoice:
			if len(o.Values) == 1 {
				lint.Info("Choice parameter has a single value, consider a fixed parameter", "value", o.Values[0].String())
			}
		case catalog.ParameterTypeUniformInt:
			if o.Bounds != nil && (o.Bounds.Min.Float64Value() != float64(o.Bounds.Min.Int64Value()) ||
				o.Bounds.Max.Float64Value() != float64(o.Bounds.Max.Int64Value())) {
				lint.Error(nil, "Integer parameter bounds must be whole numbers", "min", o.Bounds.Min.String(), "max", o.Bounds.Max.String())
			}
		}
	}

	return l
}
