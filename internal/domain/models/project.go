package models

// Project groups prompts and dialogs under a unique title
type Project struct {
	Document     `bson:",inline"`
	ProjectTitle string `bson:"project_title,omitempty" json:"project_title"`
}

// NewProject returns an unsaved project stamped with the current time
func NewProject(title string) *Project {
	return &Project{Document: NewDocument(), ProjectTitle: title}
}

// ProjectFromRecord decodes a stored project. project_title is required.
func ProjectFromRecord(rec Record) (*Project, error) {
	var p Project
	if err := fromRecord(rec, &p, "project_title"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Project) StorageRecord() (Record, error) {
	return toRecord(p)
}
