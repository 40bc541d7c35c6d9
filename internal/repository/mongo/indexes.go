package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assistant/internal/domain/repositories"
)

// EnsureIndexes creates single-field ascending indexes. An index whose key
// already exists is skipped; failures are reported and logged, never fatal.
func (s *Store) EnsureIndexes(ctx context.Context, specs []repositories.IndexSpec) repositories.IndexReport {
	report := make(repositories.IndexReport, 0, len(specs))
	existing := map[string]map[string]bool{}

	for _, spec := range specs {
		res := repositories.IndexResult{IndexSpec: spec}

		if spec.Collection == "" || spec.Field == "" {
			res.Status = repositories.IndexFailed
			res.Error = "collection and field are required"
			report = append(report, s.logIndex(res))
			continue
		}

		keys, ok := existing[spec.Collection]
		if !ok {
			keys = s.indexedFields(ctx, spec.Collection)
			existing[spec.Collection] = keys
		}
		if keys[spec.Field] {
			res.Status = repositories.IndexSkipped
			report = append(report, s.logIndex(res))
			continue
		}

		model := mongo.IndexModel{
			Keys:    bson.D{{Key: spec.Field, Value: 1}},
			Options: options.Index().SetUnique(spec.Unique),
		}
		if _, err := s.db.Collection(spec.Collection).Indexes().CreateOne(ctx, model); err != nil {
			res.Status = repositories.IndexFailed
			res.Error = err.Error()
		} else {
			res.Status = repositories.IndexCreated
			keys[spec.Field] = true
		}
		report = append(report, s.logIndex(res))
	}
	return report
}

// indexedFields lists fields that already lead a single-field index. A missing
// collection has none.
func (s *Store) indexedFields(ctx context.Context, coll string) map[string]bool {
	fields := map[string]bool{}

	cursor, err := s.db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		return fields
	}
	defer cursor.Close(ctx)

	var indexes []bson.M
	if err := cursor.All(ctx, &indexes); err != nil {
		return fields
	}
	for _, idx := range indexes {
		var key bson.D
		switch k := idx["key"].(type) {
		case bson.D:
			key = k
		case bson.M:
			for field, v := range k {
				key = append(key, bson.E{Key: field, Value: v})
			}
		}
		if len(key) == 1 {
			fields[key[0].Key] = true
		}
	}
	return fields
}

func (s *Store) logIndex(res repositories.IndexResult) repositories.IndexResult {
	switch res.Status {
	case repositories.IndexFailed:
		s.metrics.RecordIndexFailure()
		s.logger.Warn("index not ensured",
			"collection", res.Collection,
			"field", res.Field,
			"error", res.Error,
		)
	default:
		s.logger.Info("index ensured",
			"collection", res.Collection,
			"field", res.Field,
			"status", res.Status,
		)
	}
	return res
}
