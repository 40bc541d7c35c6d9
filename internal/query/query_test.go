package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
)

func TestFilter_Operators(t *testing.T) {
	got := NewFilter().
		Equals("a", 1).
		NotEquals("b", 2).
		GreaterThan("c", 3).
		LessThan("d", 4).
		InList("e", "x", "y").
		NotInList("f", "z").
		Exists("g", true).
		Regex("h", "^demo").
		Build()

	assert.Equal(t, bson.M{
		"a": 1,
		"b": bson.M{"$ne": 2},
		"c": bson.M{"$gt": 3},
		"d": bson.M{"$lt": 4},
		"e": bson.M{"$in": bson.A{"x", "y"}},
		"f": bson.M{"$nin": bson.A{"z"}},
		"g": bson.M{"$exists": true},
		"h": bson.M{"$regex": "^demo"},
	}, got)
}

func TestFilter_LastWriteWins(t *testing.T) {
	got := NewFilter().
		GreaterThan("age", 10).
		LessThan("age", 20).
		Build()

	// The second constraint replaces the first; they are not merged into a range.
	assert.Equal(t, bson.M{"age": bson.M{"$lt": 20}}, got)
}

func TestFilter_BuildReturnsCopy(t *testing.T) {
	f := NewFilter().Equals("a", 1)
	built := f.Build()
	built["b"] = 2
	assert.Equal(t, bson.M{"a": 1}, f.Build())
}

func TestFilter_Projection(t *testing.T) {
	tests := []struct {
		name     string
		filter   *Filter
		expected bson.M
		wantErr  bool
	}{
		{
			name:     "no projection",
			filter:   NewFilter().Equals("a", 1),
			expected: nil,
		},
		{
			name:     "include",
			filter:   NewFilter().Include("project_title", "updated_at"),
			expected: bson.M{"project_title": 1, "updated_at": 1},
		},
		{
			name:     "include without id",
			filter:   NewFilter().Include("project_title").ExcludeID(),
			expected: bson.M{"project_title": 1, "_id": 0},
		},
		{
			name:     "exclude",
			filter:   NewFilter().Exclude("dialog_content"),
			expected: bson.M{"dialog_content": 0},
		},
		{
			name:     "include with _id exclusion",
			filter:   NewFilter().Include("a").Exclude("_id"),
			expected: bson.M{"a": 1, "_id": 0},
		},
		{
			name:    "field both included and excluded",
			filter:  NewFilter().Include("a").Exclude("a"),
			wantErr: true,
		},
		{
			name:    "id included and stripped",
			filter:  NewFilter().Include("_id").ExcludeID(),
			wantErr: true,
		},
		{
			name:    "mixed inclusion and exclusion",
			filter:  NewFilter().Include("a").Exclude("b"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.filter.BuildWithProjection()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidQuery)
				assert.True(t, domain.IsContractViolation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, q.Projection)
		})
	}
}

func TestUpdate_Operators(t *testing.T) {
	got := NewUpdate().
		Set("title", "new").
		Unset("legacy").
		Increment("count", 1).
		Push("tags", "a").
		AddToSet("labels", "b").
		RemoveFromArray("old", "c").
		Build()

	assert.Equal(t, bson.M{
		"$set":      bson.M{"title": "new"},
		"$unset":    bson.M{"legacy": ""},
		"$inc":      bson.M{"count": 1},
		"$push":     bson.M{"tags": "a"},
		"$addToSet": bson.M{"labels": "b"},
		"$pull":     bson.M{"old": "c"},
	}, got)
}

func TestUpdate_PushAllPreservesOrder(t *testing.T) {
	got := NewUpdate().PushAll("dialog_content", "m1", "m2", "m3").Build()
	assert.Equal(t, bson.M{
		"$push": bson.M{"dialog_content": bson.M{"$each": bson.A{"m1", "m2", "m3"}}},
	}, got)
}

func TestUpdate_SetUpdatedAt(t *testing.T) {
	u := NewUpdate()
	assert.True(t, u.IsEmpty())

	got := u.SetUpdatedAt().Build()
	assert.False(t, u.IsEmpty())

	stamp, ok := got["$set"].(bson.M)["updated_at"].(models.Timestamp)
	require.True(t, ok)
	assert.False(t, stamp.IsZero())
}

func TestObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	parsed, err := ObjectID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ObjectID("not-an-id")
	assert.ErrorIs(t, err, domain.ErrValidation)

	f, err := ByID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": id}, f.Build())
}
