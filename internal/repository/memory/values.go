package memory

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// normalize round-trips v through BSON so stored documents, filters and
// update values share the driver's decoded representation. It also deep-copies.
func normalize(v bson.M) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeValue normalizes a single value by wrapping it in a document
func normalizeValue(v any) (any, error) {
	doc, err := normalize(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

// asDocument returns v as a map when it is an embedded document
func asDocument(v any) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case primitive.D:
		return d.Map(), true
	case map[string]any:
		return bson.M(d), true
	}
	return nil, false
}

func asArray(v any) (primitive.A, bool) {
	switch a := v.(type) {
	case primitive.A:
		return a, true
	case []any:
		return primitive.A(a), true
	}
	return nil, false
}

// lookup resolves a dotted path
func lookup(doc bson.M, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = doc
	for _, part := range parts {
		m, ok := asDocument(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// assign sets a dotted path, creating intermediate documents
func assign(doc bson.M, path string, value any) error {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok || next == nil {
			m := bson.M{}
			cur[part] = m
			cur = m
			continue
		}
		m, ok := asDocument(next)
		if !ok {
			return fmt.Errorf("cannot create field %q in non-document %q", path, part)
		}
		cur[part] = m
		cur = m
	}
	cur[parts[len(parts)-1]] = value
	return nil
}

// remove deletes a dotted path if present
func remove(doc bson.M, path string) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		m, ok := asDocument(cur[part])
		if !ok {
			return
		}
		cur[part] = m
		cur = m
	}
	delete(cur, parts[len(parts)-1])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// compare orders two values of the same kind. ok is false when they are not comparable.
func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case primitive.ObjectID:
		y, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(x[:], y[:]), true
	case primitive.DateTime:
		y, ok := b.(primitive.DateTime)
		if !ok {
			return 0, false
		}
		return x.Time().Compare(y.Time()), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// equal reports value equality with numeric types unified
func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	if da, ok := asDocument(a); ok {
		db, ok := asDocument(b)
		if !ok || len(da) != len(db) {
			return false
		}
		for k, va := range da {
			vb, ok := db[k]
			if !ok || !equal(va, vb) {
				return false
			}
		}
		return true
	}
	if aa, ok := asArray(a); ok {
		ab, ok := asArray(b)
		if !ok || len(aa) != len(ab) {
			return false
		}
		for i := range aa {
			if !equal(aa[i], ab[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
