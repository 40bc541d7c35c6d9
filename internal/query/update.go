package query

import (
	"go.mongodb.org/mongo-driver/bson"

	"assistant/internal/domain/models"
)

// Update operators
const (
	OpSet      = "$set"
	OpUnset    = "$unset"
	OpInc      = "$inc"
	OpPush     = "$push"
	OpAddToSet = "$addToSet"
	OpPull     = "$pull"
)

// Update groups field changes by operator. Combining two operators on the same
// field is left to the store to reject.
type Update struct {
	ops map[string]bson.M
}

// NewUpdate returns an empty update
func NewUpdate() *Update {
	return &Update{ops: map[string]bson.M{}}
}

func (u *Update) add(op, field string, value any) *Update {
	fields, ok := u.ops[op]
	if !ok {
		fields = bson.M{}
		u.ops[op] = fields
	}
	fields[field] = value
	return u
}

func (u *Update) Set(field string, value any) *Update {
	return u.add(OpSet, field, value)
}

func (u *Update) Unset(field string) *Update {
	return u.add(OpUnset, field, "")
}

func (u *Update) Increment(field string, delta any) *Update {
	return u.add(OpInc, field, delta)
}

// Push appends one element to an array field
func (u *Update) Push(field string, value any) *Update {
	return u.add(OpPush, field, value)
}

// PushAll appends values in order. It shares $push with Push, so the later
// call wins for a given field.
func (u *Update) PushAll(field string, values ...any) *Update {
	return u.add(OpPush, field, bson.M{"$each": bson.A(values)})
}

// AddToSet appends value unless an equal element is already present
func (u *Update) AddToSet(field string, value any) *Update {
	return u.add(OpAddToSet, field, value)
}

// RemoveFromArray removes matching elements. A document value is a query
// against each element, so {"role": "user"} pulls every user message
// whatever its content.
func (u *Update) RemoveFromArray(field string, value any) *Update {
	return u.add(OpPull, field, value)
}

// SetUpdatedAt stamps updated_at with the current time
func (u *Update) SetUpdatedAt() *Update {
	return u.Set("updated_at", models.Now())
}

// IsEmpty reports whether no operator has been recorded
func (u *Update) IsEmpty() bool {
	return len(u.ops) == 0
}

// Build returns the update document
func (u *Update) Build() bson.M {
	out := make(bson.M, len(u.ops))
	for op, fields := range u.ops {
		copied := make(bson.M, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		out[op] = copied
	}
	return out
}
