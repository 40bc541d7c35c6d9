package repositories

import "context"

// IndexStatus is the outcome of ensuring one index
type IndexStatus string

const (
	IndexCreated IndexStatus = "created"
	IndexSkipped IndexStatus = "skipped"
	IndexFailed  IndexStatus = "failed"
)

// IndexSpec describes a single-field index
type IndexSpec struct {
	Collection string `json:"collection"`
	Field      string `json:"field"`
	Unique     bool   `json:"unique"`
}

// IndexResult records what happened to one IndexSpec
type IndexResult struct {
	IndexSpec
	Status IndexStatus `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// IndexReport is surfaced at startup and on the health endpoint
type IndexReport []IndexResult

// Healthy reports whether no index failed
func (r IndexReport) Healthy() bool {
	for _, res := range r {
		if res.Status == IndexFailed {
			return false
		}
	}
	return true
}

// IndexManager ensures indexes exist. Failures are reported, never returned.
type IndexManager interface {
	EnsureIndexes(ctx context.Context, specs []IndexSpec) IndexReport
}

// DefaultIndexes are the uniqueness constraints every deployment carries
func DefaultIndexes(names *CollectionNames) []IndexSpec {
	return []IndexSpec{
		{Collection: names.Projects, Field: "project_title", Unique: true},
		{Collection: names.Prompts, Field: "prompt_version", Unique: true},
	}
}
