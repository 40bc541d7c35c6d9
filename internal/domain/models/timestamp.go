package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// TimestampLayout is the persisted timestamp format. Stored values compare as strings.
const TimestampLayout = "2006-01-02 15:04:05"

// KST is the fixed +09:00 offset every timestamp is rendered in.
var KST = time.FixedZone("KST", 9*60*60)

// Timestamp is a second-resolution instant persisted as a KST string.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to the persisted resolution
func Now() Timestamp {
	return Timestamp{Time: time.Now().In(KST).Truncate(time.Second)}
}

// NewTimestamp converts t to the persisted resolution and offset
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.In(KST).Truncate(time.Second)}
}

// ParseTimestamp parses a value written by Timestamp.String
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, KST)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

func (t Timestamp) String() string {
	return t.In(KST).Format(TimestampLayout)
}

// MarshalBSONValue stores the timestamp as a fixed-format string
func (t Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.String())
}

// UnmarshalBSONValue accepts the string form and, for older data, native datetimes
func (t *Timestamp) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: typ, Value: data}
	switch typ {
	case bsontype.String:
		parsed, err := ParseTimestamp(raw.StringValue())
		if err != nil {
			return err
		}
		*t = parsed
	case bsontype.DateTime:
		*t = NewTimestamp(raw.Time())
	case bsontype.Null, bsontype.Undefined:
		*t = Timestamp{}
	default:
		return fmt.Errorf("cannot decode %s into timestamp", typ)
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
