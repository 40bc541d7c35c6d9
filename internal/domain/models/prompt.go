package models

// Prompt is a versioned system prompt belonging to a project
type Prompt struct {
	Document      `bson:",inline"`
	ProjectID     string `bson:"project_id,omitempty" json:"project_id"`
	PromptVersion string `bson:"prompt_version,omitempty" json:"prompt_version"`
	PromptContent string `bson:"prompt_content,omitempty" json:"prompt_content"`
}

func NewPrompt(projectID, version, content string) *Prompt {
	return &Prompt{
		Document:      NewDocument(),
		ProjectID:     projectID,
		PromptVersion: version,
		PromptContent: content,
	}
}

// PromptFromRecord decodes a stored prompt
func PromptFromRecord(rec Record) (*Prompt, error) {
	var p Prompt
	if err := fromRecord(rec, &p, "project_id", "prompt_version", "prompt_content"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Prompt) StorageRecord() (Record, error) {
	return toRecord(p)
}
