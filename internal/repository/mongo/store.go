package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/repositories"
	"assistant/internal/metrics"
	"assistant/internal/query"
)

// Store implements repositories.Store on one MongoDB database.
// The driver pools connections and is safe for concurrent use.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ repositories.Store = (*Store)(nil)

// NewStore binds a store to database. m may be nil.
func NewStore(client *mongo.Client, database string, logger *slog.Logger, m *metrics.Metrics) *Store {
	return &Store{
		client:  client,
		db:      client.Database(database),
		logger:  logger,
		metrics: m,
	}
}

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

	result, err := s.db.Collection(coll).InsertOne(ctx, rec)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return primitive.NilObjectID, conflictError(coll, err)
		}
		if IsUnacknowledged(err) {
			return primitive.NilObjectID, domain.ErrCreateFailed
		}
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", coll, err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: unexpected inserted id %v", domain.ErrCreateFailed, result.InsertedID)
	}
	return id, nil
}

func (s *Store) Read(ctx context.Context, coll string, q query.Query) (records []models.Record, err error) {
	defer s.track("read", coll)(&err)

	if coll == "" {
		return nil, domain.ErrCollectionMissing
	}
	if len(q.Filter) == 0 {
		return nil, domain.ErrNoFilter
	}

	opts := options.Find()
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}

	cursor, err := s.db.Collection(coll).Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	return records, nil
}

// Update acts on the first match in natural order. Matching without changing
// anything still succeeds.
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

	result, err := s.db.Collection(coll).UpdateOne(ctx, filter, update)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return conflictError(coll, err)
		}
		return fmt.Errorf("update %s: %w", coll, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the first match in natural order
func (s *Store) Delete(ctx context.Context, coll string, filter bson.M) (err error) {
	defer s.track("delete", coll)(&err)

	if coll == "" {
		return domain.ErrCollectionMissing
	}
	if len(filter) == 0 {
		return domain.ErrNoFilter
	}

	result, err := s.db.Collection(coll).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", coll, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
