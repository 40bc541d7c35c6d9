package memory

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"assistant/internal/domain"
)

// matches evaluates a filter document against doc
func matches(doc, filter bson.M) (bool, error) {
	for field, cond := range filter {
		if strings.HasPrefix(field, "$") {
			return false, fmt.Errorf("%w: unsupported top-level operator %s", domain.ErrInvalidQuery, field)
		}
		value, present := lookup(doc, field)

		ops, isOps := operatorDocument(cond)
		if !isOps {
			if !matchEquals(value, present, cond) {
				return false, nil
			}
			continue
		}

		for op, arg := range ops {
			ok, err := matchOperator(op, value, present, arg)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

// operatorDocument reports whether cond is an operator expression like {"$gt": 1}
func operatorDocument(cond any) (bson.M, bool) {
	m, ok := asDocument(cond)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

// matchEquals follows document-store equality: an array field matches when
// any element equals the operand, and a missing field equals null.
func matchEquals(value any, present bool, operand any) bool {
	if !present {
		return operand == nil
	}
	if equal(value, operand) {
		return true
	}
	if arr, ok := asArray(value); ok {
		for _, el := range arr {
			if equal(el, operand) {
				return true
			}
		}
	}
	return false
}

func matchOperator(op string, value any, present bool, arg any) (bool, error) {
	switch op {
	case "$eq":
		return matchEquals(value, present, arg), nil
	case "$ne":
		return !matchEquals(value, present, arg), nil
	case "$gt", "$gte", "$lt", "$lte":
		if !present {
			return false, nil
		}
		return matchCompare(op, value, arg), nil
	case "$in", "$nin":
		list, ok := asArray(arg)
		if !ok {
			return false, fmt.Errorf("%w: %s needs an array", domain.ErrInvalidQuery, op)
		}
		found := false
		for _, candidate := range list {
			if matchEquals(value, present, candidate) {
				found = true
				break
			}
		}
		if op == "$in" {
			return found, nil
		}
		return !found, nil
	case "$exists":
		want, ok := arg.(bool)
		if !ok {
			return false, fmt.Errorf("%w: $exists needs a boolean", domain.ErrInvalidQuery)
		}
		return present == want, nil
	case "$regex":
		pattern, ok := arg.(string)
		if !ok {
			return false, fmt.Errorf("%w: $regex needs a string", domain.ErrInvalidQuery)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
		}
		s, ok := value.(string)
		return present && ok && re.MatchString(s), nil
	}
	return false, fmt.Errorf("%w: unsupported operator %s", domain.ErrInvalidQuery, op)
}

func matchCompare(op string, value, arg any) bool {
	check := func(v any) bool {
		c, ok := compare(v, arg)
		if !ok {
			return false
		}
		switch op {
		case "$gt":
			return c > 0
		case "$gte":
			return c >= 0
		case "$lt":
			return c < 0
		}
		return c <= 0
	}
	if check(value) {
		return true
	}
	if arr, ok := asArray(value); ok {
		for _, el := range arr {
			if check(el) {
				return true
			}
		}
	}
	return false
}

// project applies an inclusion or exclusion projection to a copy of doc
func project(doc, projection bson.M) bson.M {
	if len(projection) == 0 {
		return doc
	}

	inclusive := false
	for _, v := range projection {
		if truthy(v) {
			inclusive = true
			break
		}
	}

	out := bson.M{}
	if inclusive {
		for field, v := range projection {
			if !truthy(v) {
				continue
			}
			if val, ok := lookup(doc, field); ok {
				_ = assign(out, field, val)
			}
		}
		if id, ok := doc["_id"]; ok {
			if v, set := projection["_id"]; !set || truthy(v) {
				out["_id"] = id
			}
		}
		return out
	}

	for k, v := range doc {
		out[k] = v
	}
	for field, v := range projection {
		if !truthy(v) {
			remove(out, field)
		}
	}
	return out
}

func truthy(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}
