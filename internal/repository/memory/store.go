// Package memory implements the document store in process memory. It mirrors
// the MongoDB store's semantics and backs STORE_DRIVER=memory and tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/repositories"
	"assistant/internal/metrics"
	"assistant/internal/query"
)

type collection struct {
	docs   []bson.M // insertion order
	unique []string
}

// Store is an in-memory repositories.Store
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty store. m may be nil.
func NewStore(logger *slog.Logger, m *metrics.Metrics) *Store {
	return &Store{
		collections: make(map[string]*collection),
		logger:      logger,
		metrics:     m,
	}
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{}
		s.collections[name] = c
	}
	return c
}

// track starts timing an operation; call the result with the named error on return
func (s *Store) track(op, coll string) func(*error) {
	start := time.Now()
	return func(err *error) {
		s.metrics.RecordStoreOperation(op, coll, metrics.StatusLabel(*err), time.Since(start))
	}
}

func (s *Store) Create(ctx context.Context, coll string, doc models.Entity) (id primitive.ObjectID, err error) {
	defer s.track("create", coll)(&err)

	if coll == "" {
		return primitive.NilObjectID, domain.ErrCollectionMissing
	}
	if doc == nil {
		return primitive.NilObjectID, domain.ErrNoData
	}
	rec, err := doc.StorageRecord()
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("serialize document: %w", err)
	}
	if len(rec) == 0 {
		return primitive.NilObjectID, domain.ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}

	rec, err = normalize(rec)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("serialize document: %w", err)
	}
	if _, ok := rec["_id"]; !ok {
		rec["_id"] = primitive.NewObjectID()
	}
	id, ok := rec["_id"].(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: _id must be an ObjectID", domain.ErrInvalidQuery)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(coll)
	if err := c.checkUnique(coll, rec, -1); err != nil {
		return primitive.NilObjectID, err
	}
	c.docs = append(c.docs, rec)
	return id, nil
}

func (s *Store) Read(ctx context.Context, coll string, q query.Query) (out []models.Record, err error) {
	defer s.track("read", coll)(&err)

	if coll == "" {
		return nil, domain.ErrCollectionMissing
	}
	if len(q.Filter) == 0 {
		return nil, domain.ErrNoFilter
	}
	filter, err := normalize(q.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[coll]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		copied, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, project(copied, q.Projection))
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

// Update applies update to the first match in insertion order
func (s *Store) Update(ctx context.Context, coll string, filter, update bson.M) (err error) {
	defer s.track("update", coll)(&err)

	if coll == "" {
		return domain.ErrCollectionMissing
	}
	if len(filter) == 0 {
		return domain.ErrNoFilter
	}
	if len(update) == 0 {
		return domain.ErrNoData
	}
	nf, err := normalize(filter)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	nu, err := normalize(update)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[coll]
	if !ok {
		return domain.ErrNotFound
	}
	idx, err := c.first(nf)
	if err != nil {
		return err
	}
	if idx < 0 {
		return domain.ErrNotFound
	}

	updated, err := normalize(c.docs[idx])
	if err != nil {
		return err
	}
	if err := applyUpdate(updated, nu); err != nil {
		return err
	}
	if err := c.checkUnique(coll, updated, idx); err != nil {
		return err
	}
	c.docs[idx] = updated
	return nil
}

// Delete removes the first match in insertion order
func (s *Store) Delete(ctx context.Context, coll string, filter bson.M) (err error) {
	defer s.track("delete", coll)(&err)

	if coll == "" {
		return domain.ErrCollectionMissing
	}
	if len(filter) == 0 {
		return domain.ErrNoFilter
	}
	nf, err := normalize(filter)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[coll]
	if !ok {
		return domain.ErrNotFound
	}
	idx, err := c.first(nf)
	if err != nil {
		return err
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)
	return nil
}

// EnsureIndexes registers unique constraints. Non-unique specs are skipped
// since lookups scan anyway.
func (s *Store) EnsureIndexes(ctx context.Context, specs []repositories.IndexSpec) repositories.IndexReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := make(repositories.IndexReport, 0, len(specs))
	for _, spec := range specs {
		res := repositories.IndexResult{IndexSpec: spec}
		switch {
		case spec.Collection == "" || spec.Field == "":
			res.Status = repositories.IndexFailed
			res.Error = "collection and field are required"
		case !spec.Unique:
			res.Status = repositories.IndexSkipped
		default:
			c := s.coll(spec.Collection)
			if containsString(c.unique, spec.Field) {
				res.Status = repositories.IndexSkipped
				break
			}
			if dup := c.duplicateOf(spec.Field); dup != nil {
				res.Status = repositories.IndexFailed
				res.Error = fmt.Sprintf("duplicate value %v for %s", dup, spec.Field)
				break
			}
			c.unique = append(c.unique, spec.Field)
			res.Status = repositories.IndexCreated
		}

		if res.Status == repositories.IndexFailed {
			s.metrics.RecordIndexFailure()
			s.logger.Warn("index not ensured",
				"collection", spec.Collection,
				"field", spec.Field,
				"error", res.Error,
			)
		}
		report = append(report, res)
	}
	return report
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(context.Context) error {
	return nil
}

// first returns the index of the first matching document or -1
func (c *collection) first(filter bson.M) (int, error) {
	for i, doc := range c.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// checkUnique rejects candidate when it clashes with another document on _id
// or a unique field. skip is the candidate's own position, or -1 for inserts.
func (c *collection) checkUnique(name string, candidate bson.M, skip int) error {
	fields := append([]string{"_id"}, c.unique...)
	for i, doc := range c.docs {
		if i == skip {
			continue
		}
		for _, field := range fields {
			a, _ := lookup(doc, field)
			b, _ := lookup(candidate, field)
			if equal(a, b) {
				return &domain.ConflictError{
					Message:    fmt.Sprintf("%s with this %s already exists", name, field),
					Collection: name,
					Field:      field,
				}
			}
		}
	}
	return nil
}

// duplicateOf returns a value held by two documents for field, or nil
func (c *collection) duplicateOf(field string) any {
	for i := range c.docs {
		a, _ := lookup(c.docs[i], field)
		for j := i + 1; j < len(c.docs); j++ {
			b, _ := lookup(c.docs[j], field)
			if equal(a, b) {
				if a == nil {
					return "null"
				}
				return a
			}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
