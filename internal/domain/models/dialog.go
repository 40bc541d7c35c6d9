package models

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

// Dialog is an ordered conversation belonging to a project
type Dialog struct {
	Document      `bson:",inline"`
	ProjectID     string    `bson:"project_id,omitempty" json:"project_id"`
	DialogTitle   string    `bson:"dialog_title,omitempty" json:"dialog_title"`
	DialogContent []Message `bson:"dialog_content" json:"dialog_content,omitzero"`
}

// NewDialog returns an unsaved dialog with an empty message list
func NewDialog(projectID, title string, content []Message) *Dialog {
	if content == nil {
		content = []Message{}
	}
	return &Dialog{
		Document:      NewDocument(),
		ProjectID:     projectID,
		DialogTitle:   title,
		DialogContent: content,
	}
}

// DialogFromRecord decodes a stored dialog. dialog_content may be projected away.
func DialogFromRecord(rec Record) (*Dialog, error) {
	var d Dialog
	if err := fromRecord(rec, &d, "project_id", "dialog_title"); err != nil {
		return nil, err
	}
	if _, ok := rec["dialog_content"]; ok && d.DialogContent == nil {
		d.DialogContent = []Message{}
	}
	return &d, nil
}

// StorageRecord always writes dialog_content as an array so appends can target it
func (d *Dialog) StorageRecord() (Record, error) {
	if d.DialogContent == nil {
		d.DialogContent = []Message{}
	}
	return toRecord(d)
}

// Record renders the message for an append update
func (m Message) Record() Record {
	return Record{"role": m.Role, "content": m.Content}
}
