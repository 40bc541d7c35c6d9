package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assistant/internal/domain"
)

// Record is an untyped key-value document as it crosses the store boundary.
type Record = bson.M

// Entity is implemented by every persisted document type
type Entity interface {
	// StorageRecord renders the entity for insertion, leaving unset fields out
	StorageRecord() (Record, error)
}

// Document holds the fields shared by every persisted entity
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitzero"`
	CreatedAt Timestamp          `bson:"created_at,omitempty" json:"created_at,omitzero"`
	UpdatedAt Timestamp          `bson:"updated_at,omitempty" json:"updated_at,omitzero"`
}

// NewDocument returns a document stamped with the current time
func NewDocument() Document {
	now := Now()
	return Document{CreatedAt: now, UpdatedAt: now}
}

// Touch bumps updated_at, never moving it before created_at
func (d *Document) Touch() {
	now := Now()
	if now.Before(d.CreatedAt.Time) {
		now = d.CreatedAt
	}
	d.UpdatedAt = now
}

// IDHex returns the identifier in its external form, or "" before insert
func (d Document) IDHex() string {
	if d.ID.IsZero() {
		return ""
	}
	return d.ID.Hex()
}

func toRecord(v any) (Record, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var rec Record
	if err := bson.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

// fromRecord decodes rec into dst. Unknown fields are ignored; every name in
// required must be present and non-null.
func fromRecord(rec Record, dst any, required ...string) error {
	if rec == nil {
		return fmt.Errorf("%w: empty record", domain.ErrMalformedRecord)
	}
	for _, field := range required {
		if v, ok := rec[field]; !ok || v == nil {
			return fmt.Errorf("%w: missing field %q", domain.ErrMalformedRecord, field)
		}
	}

	data, err := bson.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if err := bson.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	return nil
}
