package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCollectionNames(t *testing.T) {
	names := NewCollectionNames("dev_")
	assert.Equal(t, "dev_projects", names.Projects)
	assert.Equal(t, "dev_prompts", names.Prompts)
	assert.Equal(t, "dev_dialogs", names.Dialogs)

	assert.Equal(t, "projects", NewCollectionNames("").Projects)
}

func TestIndexReport_Healthy(t *testing.T) {
	tests := []struct {
		name   string
		report IndexReport
		want   bool
	}{
		{name: "empty", report: nil, want: true},
		{name: "created and skipped", report: IndexReport{{Status: IndexCreated}, {Status: IndexSkipped}}, want: true},
		{name: "one failure", report: IndexReport{{Status: IndexCreated}, {Status: IndexFailed}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Healthy())
		})
	}
}

func TestDefaultIndexes(t *testing.T) {
	specs := DefaultIndexes(NewCollectionNames("test_"))
	assert.Equal(t, []IndexSpec{
		{Collection: "test_projects", Field: "project_title", Unique: true},
		{Collection: "test_prompts", Field: "prompt_version", Unique: true},
	}, specs)
}
