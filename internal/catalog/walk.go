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

package catalog

import (
	"context"
	"fmt"
)

// Visitor is used to inspect individual sections of a catalog.
type Visitor interface {
	// Visit a catalog section. The supplied object will be a slice or a pointer
	// to a catalog type. The return value is used to halt traversal.
	Visit(ctx context.Context, obj interface{}) Visitor
}

// Walk traverses a catalog depth first; obj must not be nil; visitor will be invoked
// with relevant non-nil members of the catalog followed by an invocation with nil.
func Walk(ctx context.Context, v Visitor, obj interface{}) {
	if v = v.Visit(ctx, obj); v == nil {
		return
	}

	switch o := obj.(type) {

	case *Catalog:
		Walk(ctx, v, o.entries)

	case []Entry:
		for i := range o {
			Walk(withPath(ctx, o[i].ID), v, &o[i])
		}

	case *Entry:
		if o.Params != nil {
			Walk(withPath(ctx, "params"), v, o.Params)
		}
		if o.Search != nil {
			Walk(withPath(ctx, "search"), v, o.Search)
		}

	case Params:
		// Do nothing

	case *Grid:
		Walk(withPath(ctx, "parameters"), v, o.Parameters)

	case []GridParameter:
		for i := range o {
			Walk(withPath(ctx, o[i].Name), v, &o[i])
		}

	case *GridParameter:
		// Do nothing

	case *Distribution:
		Walk(withPath(ctx, "parameters"), v, o.Parameters)

	case []Parameter:
		for i := range o {
			Walk(withPath(ctx, o[i].Name), v, &o[i])
		}

	case *Parameter:
		// Do nothing

	default:
		panic(fmt.Sprintf("catalog.Walk: unexpected type %T", obj))
	}

	v.Visit(ctx, nil)
}

// pathKey is used as a context key for the walk path.
type pathKey struct{}

// WalkPath returns the path to current element on the context as an array of element names.
func WalkPath(ctx context.Context) []string {
	if v, ok := ctx.Value(pathKey{}).([]string); ok {
		return v
	}
	return nil
}

// withPath adds the specified element to the path while walking.
func withPath(ctx context.Context, elem string) context.Context {
	path := WalkPath(ctx)
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return context.WithValue(ctx, pathKey{}, append(next, elem))
}
