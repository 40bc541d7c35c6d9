package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/repositories"
	"assistant/internal/query"
)

// readOne runs q and returns the first record
func readOne(ctx context.Context, store repositories.DocumentStore, coll string, q query.Query) (models.Record, error) {
	records, err := store.Read(ctx, coll, q)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// readAll runs q and decodes every record. No matches is an empty list.
func readAll[T any](ctx context.Context, store repositories.DocumentStore, coll string, q query.Query, decode func(models.Record) (T, error)) ([]T, error) {
	records, err := store.Read(ctx, coll, q)
	if errors.Is(err, domain.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ensureExists fails with ErrNotFound when no document in coll has id
func ensureExists(ctx context.Context, store repositories.DocumentStore, coll, kind, id string) error {
	f, err := query.ByID(id)
	if err != nil {
		return err
	}
	q, err := f.Include("_id").BuildWithProjection()
	if err != nil {
		return err
	}
	if _, err := store.Read(ctx, coll, q); err != nil {
		return withKind(kind, id, err)
	}
	return nil
}

// withKind adds the resource kind and id to a NotFound error
func withKind(kind, id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}
	return err
}

// notBlank rejects strings that are empty after trimming
func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}
