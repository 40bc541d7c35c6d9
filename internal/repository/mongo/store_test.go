package mongo

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/repositories"
	"assistant/internal/metrics"
	"assistant/internal/query"
)

func newMockStore(mt *mtest.T) *Store {
	return NewStore(mt.Client, mt.DB.Name(), slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.New())
}

func TestConfig_URI(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "without credentials",
			cfg:  Config{Host: "localhost", Port: 27017},
			want: "mongodb://localhost:27017/",
		},
		{
			name: "with escaped credentials",
			cfg:  Config{Host: "db", Port: 27018, User: "app", Password: "p@ss:word"},
			want: "mongodb://app:p%40ss%3Aword@db:27018/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.URI())
		})
	}
}

func TestStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create returns inserted id", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := s.Create(context.Background(), mt.Coll.Name(), models.NewProject("Demo"))
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
	})

	mt.Run("create duplicate is a conflict", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.projects index: project_title_1 dup key: { project_title: "Demo" }`,
		}))

		_, err := s.Create(context.Background(), mt.Coll.Name(), models.NewProject("Demo"))
		var conflict *domain.ConflictError
		require.ErrorAs(mt, err, &conflict)
		assert.Equal(mt, "project_title", conflict.Field)
		assert.ErrorIs(mt, err, domain.ErrConflict)
	})

	mt.Run("contract errors skip the server", func(mt *mtest.T) {
		s := newMockStore(mt)
		ctx := context.Background()

		_, err := s.Create(ctx, "", models.NewProject("Demo"))
		assert.ErrorIs(mt, err, domain.ErrCollectionMissing)
		_, err = s.Read(ctx, mt.Coll.Name(), query.Query{})
		assert.ErrorIs(mt, err, domain.ErrNoFilter)
		assert.ErrorIs(mt, s.Update(ctx, mt.Coll.Name(), bson.M{"a": 1}, nil), domain.ErrNoData)
		assert.ErrorIs(mt, s.Delete(ctx, mt.Coll.Name(), nil), domain.ErrNoFilter)
	})

	mt.Run("read decodes records", func(mt *mtest.T) {
		s := newMockStore(mt)
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "project_title", Value: "Demo"},
			{Key: "updated_at", Value: "2024-01-02 03:04:05"},
		}))

		q, err := query.NewFilter().Exists("project_title", true).
			Include("project_title", "updated_at").
			BuildWithProjection()
		require.NoError(mt, err)

		records, err := s.Read(context.Background(), mt.Coll.Name(), q)
		require.NoError(mt, err)
		require.Len(mt, records, 1)

		p, err := models.ProjectFromRecord(records[0])
		require.NoError(mt, err)
		assert.Equal(mt, id, p.ID)
		assert.Equal(mt, "2024-01-02 03:04:05", p.UpdatedAt.String())
	})

	mt.Run("read with no matches is not found", func(mt *mtest.T) {
		s := newMockStore(mt)
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.Read(context.Background(), mt.Coll.Name(), query.Query{Filter: bson.M{"a": 1}})
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("update matching nothing is not found", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := s.Update(context.Background(), mt.Coll.Name(), bson.M{"a": 1}, bson.M{"$set": bson.M{"b": 2}})
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("update matching without modifying succeeds", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		err := s.Update(context.Background(), mt.Coll.Name(), bson.M{"a": 1}, bson.M{"$set": bson.M{"b": 2}})
		assert.NoError(mt, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		assert.NoError(mt, s.Delete(context.Background(), mt.Coll.Name(), bson.M{"a": 1}))
		assert.ErrorIs(mt, s.Delete(context.Background(), mt.Coll.Name(), bson.M{"a": 1}), domain.ErrNotFound)
	})

	mt.Run("server errors are wrapped", func(mt *mtest.T) {
		s := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "unknown operator",
		}))

		err := s.Update(context.Background(), mt.Coll.Name(), bson.M{"a": 1}, bson.M{"$nope": bson.M{"b": 2}})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestStore_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates missing and skips existing", func(mt *mtest.T) {
		s := newMockStore(mt)
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			// listIndexes
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "name", Value: "_id_"}, {Key: "key", Value: bson.D{{Key: "_id", Value: 1}}}},
				bson.D{{Key: "name", Value: "prompt_version_1"}, {Key: "key", Value: bson.D{{Key: "prompt_version", Value: 1}}}},
			),
			// createIndexes
			mtest.CreateSuccessResponse(),
		)

		report := s.EnsureIndexes(context.Background(), []repositories.IndexSpec{
			{Collection: mt.Coll.Name(), Field: "prompt_version", Unique: true},
			{Collection: mt.Coll.Name(), Field: "project_title", Unique: true},
			{Collection: "", Field: "x"},
		})

		require.Len(mt, report, 3)
		assert.Equal(mt, repositories.IndexSkipped, report[0].Status)
		assert.Equal(mt, repositories.IndexCreated, report[1].Status)
		assert.Equal(mt, repositories.IndexFailed, report[2].Status)
	})

	mt.Run("reports creation failures", func(mt *mtest.T) {
		s := newMockStore(mt)
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Name:    "DuplicateKey",
				Message: "E11000 duplicate key error",
			}),
		)

		report := s.EnsureIndexes(context.Background(), []repositories.IndexSpec{
			{Collection: mt.Coll.Name(), Field: "project_title", Unique: true},
		})

		require.Len(mt, report, 1)
		assert.Equal(mt, repositories.IndexFailed, report[0].Status)
		assert.NotEmpty(mt, report[0].Error)
		assert.False(mt, report.Healthy())
	})
}
