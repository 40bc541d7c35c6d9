package memory

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assistant/internal/domain"
)

// applyUpdate mutates doc with an operator update document. A field may be
// targeted by only one operator per update.
func applyUpdate(doc, update bson.M) error {
	seen := map[string]string{}
	for op, raw := range update {
		fields, ok := asDocument(raw)
		if !ok {
			return fmt.Errorf("%w: %s needs a document", domain.ErrInvalidQuery, op)
		}
		for field := range fields {
			if field == "_id" {
				return fmt.Errorf("%w: _id is immutable", domain.ErrInvalidQuery)
			}
			if prev, dup := seen[field]; dup {
				return fmt.Errorf("%w: %s and %s both target %q", domain.ErrInvalidQuery, prev, op, field)
			}
			seen[field] = op
		}
	}

	for op, raw := range update {
		fields, _ := asDocument(raw)
		for field, value := range fields {
			if err := applyOperator(doc, op, field, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyOperator(doc bson.M, op, field string, value any) error {
	current, present := lookup(doc, field)

	switch op {
	case "$set":
		return assign(doc, field, value)

	case "$unset":
		remove(doc, field)
		return nil

	case "$inc":
		delta, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%w: $inc on %q needs a number", domain.ErrInvalidQuery, field)
		}
		if !present {
			return assign(doc, field, value)
		}
		if _, ok := toFloat(current); !ok {
			return fmt.Errorf("%w: $inc on non-numeric field %q", domain.ErrInvalidQuery, field)
		}
		return assign(doc, field, addNumbers(current, value, delta))

	case "$push", "$addToSet":
		arr, err := arrayField(current, present, op, field)
		if err != nil {
			return err
		}
		for _, el := range eachValues(value) {
			if op == "$addToSet" && containsValue(arr, el) {
				continue
			}
			arr = append(arr, el)
		}
		return assign(doc, field, arr)

	case "$pull":
		if !present {
			return nil
		}
		arr, err := arrayField(current, present, op, field)
		if err != nil {
			return err
		}
		kept := primitive.A{}
		for _, el := range arr {
			drop, err := pullMatches(el, value)
			if err != nil {
				return err
			}
			if !drop {
				kept = append(kept, el)
			}
		}
		return assign(doc, field, kept)
	}

	if strings.HasPrefix(op, "$") {
		return fmt.Errorf("%w: unsupported update operator %s", domain.ErrInvalidQuery, op)
	}
	return fmt.Errorf("%w: replacement documents are not supported, got field %q", domain.ErrInvalidQuery, op)
}

// pullMatches decides whether $pull removes el. An operator document is
// applied to the element itself, a plain document is a query against
// document elements, and anything else must be equal.
func pullMatches(el, cond any) (bool, error) {
	if ops, ok := operatorDocument(cond); ok {
		for op, arg := range ops {
			ok, err := matchOperator(op, el, true, arg)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	if query, ok := asDocument(cond); ok {
		elDoc, ok := asDocument(el)
		if !ok {
			return false, nil
		}
		return matches(elDoc, query)
	}
	return equal(el, cond), nil
}

func arrayField(current any, present bool, op, field string) (primitive.A, error) {
	if !present || current == nil {
		return primitive.A{}, nil
	}
	arr, ok := asArray(current)
	if !ok {
		return nil, fmt.Errorf("%w: %s on non-array field %q", domain.ErrInvalidQuery, op, field)
	}
	return append(primitive.A{}, arr...), nil
}

// eachValues unwraps the {"$each": [...]} modifier
func eachValues(value any) primitive.A {
	if m, ok := asDocument(value); ok {
		if each, ok := m["$each"]; ok {
			if arr, ok := asArray(each); ok {
				return arr
			}
		}
	}
	return primitive.A{value}
}

func containsValue(arr primitive.A, v any) bool {
	for _, el := range arr {
		if equal(el, v) {
			return true
		}
	}
	return false
}

// addNumbers keeps integer fields integral when both sides are integers
func addNumbers(current, value any, delta float64) any {
	ci, cInt := asInt(current)
	vi, vInt := asInt(value)
	if cInt && vInt {
		return ci + vi
	}
	cf, _ := toFloat(current)
	return cf + delta
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
