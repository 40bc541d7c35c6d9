package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"assistant/internal/domain"
)

// ObjectID parses an external identifier
func ObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, hex)
	}
	return id, nil
}

// ByID returns a filter matching a single document by identifier
func ByID(hex string) (*Filter, error) {
	id, err := ObjectID(hex)
	if err != nil {
		return nil, err
	}
	return NewFilter().Equals("_id", id), nil
}
