package repositories

import "fmt"

// CollectionNames holds environment-prefixed collection names
type CollectionNames struct {
	Projects string
	Prompts  string
	Dialogs  string
}

// NewCollectionNames creates collection names with the given prefix
func NewCollectionNames(prefix string) *CollectionNames {
	return &CollectionNames{
		Projects: fmt.Sprintf("%sprojects", prefix),
		Prompts:  fmt.Sprintf("%sprompts", prefix),
		Dialogs:  fmt.Sprintf("%sdialogs", prefix),
	}
}
