package mongo

import (
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"

	"assistant/internal/domain"
)

var dupKeyField = regexp.MustCompile(`dup key: \{ ?"?([\w.]+)"?:`)

// IsDuplicateKeyError checks if err is a unique index violation
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsUnacknowledged checks if the server did not acknowledge a write
func IsUnacknowledged(err error) bool {
	return errors.Is(err, mongo.ErrUnacknowledgedWrite)
}

// conflictError converts a duplicate key error into a *domain.ConflictError
func conflictError(collection string, err error) error {
	field := ""
	if m := dupKeyField.FindStringSubmatch(err.Error()); m != nil {
		field = m[1]
	}
	msg := fmt.Sprintf("%s already holds a document with this value", collection)
	if field != "" {
		msg = fmt.Sprintf("%s with this %s already exists", collection, field)
	}
	return &domain.ConflictError{
		Message:    msg,
		Collection: collection,
		Field:      field,
	}
}
