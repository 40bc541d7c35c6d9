// Package query builds MongoDB filter, projection and update documents from
// typed calls so services never assemble bson maps by hand.
package query

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"assistant/internal/domain"
)

// Query is a finalized filter plus an optional projection.
// A nil Projection returns every field.
type Query struct {
	Filter     bson.M
	Projection bson.M
}

// Filter accumulates one constraint per field. Targeting the same field twice
// replaces the earlier constraint; constraints are never merged.
type Filter struct {
	conditions bson.M
	include    []string
	exclude    []string
	excludeID  bool
}

// NewFilter returns an empty filter
func NewFilter() *Filter {
	return &Filter{conditions: bson.M{}}
}

func (f *Filter) Equals(field string, value any) *Filter {
	f.conditions[field] = value
	return f
}

func (f *Filter) NotEquals(field string, value any) *Filter {
	f.conditions[field] = bson.M{"$ne": value}
	return f
}

func (f *Filter) GreaterThan(field string, value any) *Filter {
	f.conditions[field] = bson.M{"$gt": value}
	return f
}

func (f *Filter) LessThan(field string, value any) *Filter {
	f.conditions[field] = bson.M{"$lt": value}
	return f
}

func (f *Filter) InList(field string, values ...any) *Filter {
	f.conditions[field] = bson.M{"$in": bson.A(values)}
	return f
}

func (f *Filter) NotInList(field string, values ...any) *Filter {
	f.conditions[field] = bson.M{"$nin": bson.A(values)}
	return f
}

func (f *Filter) Exists(field string, exists bool) *Filter {
	f.conditions[field] = bson.M{"$exists": exists}
	return f
}

// Regex matches string fields against a Go/PCRE compatible pattern
func (f *Filter) Regex(field, pattern string) *Filter {
	f.conditions[field] = bson.M{"$regex": pattern}
	return f
}

// Include adds fields to the inclusion projection
func (f *Filter) Include(fields ...string) *Filter {
	f.include = append(f.include, fields...)
	return f
}

// Exclude adds fields to the exclusion projection
func (f *Filter) Exclude(fields ...string) *Filter {
	f.exclude = append(f.exclude, fields...)
	return f
}

// ExcludeID strips the identifier from results
func (f *Filter) ExcludeID() *Filter {
	f.excludeID = true
	return f
}

// Build returns a copy of the filter document
func (f *Filter) Build() bson.M {
	out := make(bson.M, len(f.conditions))
	for k, v := range f.conditions {
		out[k] = v
	}
	return out
}

// BuildWithProjection finalizes the filter and its projection. A field may be
// included or excluded, not both, and inclusion cannot be mixed with exclusion
// except for the identifier.
func (f *Filter) BuildWithProjection() (Query, error) {
	projection, err := f.projection()
	if err != nil {
		return Query{}, err
	}
	return Query{Filter: f.Build(), Projection: projection}, nil
}

func (f *Filter) projection() (bson.M, error) {
	included := make(map[string]bool, len(f.include))
	for _, field := range f.include {
		included[field] = true
	}

	var conflicts []string
	for _, field := range f.exclude {
		if included[field] {
			conflicts = append(conflicts, field)
		}
	}
	if f.excludeID && included["_id"] {
		conflicts = append(conflicts, "_id")
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, fmt.Errorf("%w: fields both included and excluded: %v", domain.ErrInvalidQuery, conflicts)
	}

	projection := bson.M{}
	for _, field := range f.include {
		projection[field] = 1
	}
	for _, field := range f.exclude {
		if field == "_id" {
			continue
		}
		if len(f.include) > 0 {
			return nil, fmt.Errorf("%w: cannot mix inclusion with exclusion of %q", domain.ErrInvalidQuery, field)
		}
		projection[field] = 0
	}
	if f.excludeID || contains(f.exclude, "_id") {
		projection["_id"] = 0
	}

	if len(projection) == 0 {
		return nil, nil
	}
	return projection, nil
}

func contains(fields []string, target string) bool {
	for _, f := range fields {
		if f == target {
			return true
		}
	}
	return false
}
