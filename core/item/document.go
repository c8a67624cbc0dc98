package item

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goto/encoded/core/validator"
)

// Document is an item as written to the search index by the indexer.
// Embedded and Object are the frames search results are projected to.
type Document struct {
	UUID              string                 `json:"uuid" validate:"required"`
	ItemType          string                 `json:"item_type" validate:"required"`
	Embedded          map[string]interface{} `json:"embedded" validate:"required"`
	Object            map[string]interface{} `json:"object,omitempty"`
	PrincipalsAllowed PrincipalsAllowed      `json:"principals_allowed"`
	Audit             map[string]interface{} `json:"audit,omitempty"`
}

// PrincipalsAllowed lists the principals that may act on a document.
type PrincipalsAllowed struct {
	View []string `json:"view" validate:"required,min=1"`
	Edit []string `json:"edit,omitempty"`
}

type documentsFile struct {
	Items []Document `json:"items" validate:"dive"`
}

// LoadDocuments reads a JSON file of the form {"items": [...]}.
func LoadDocuments(path string) ([]Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents file: %w", err)
	}

	var f documentsFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse documents file %q: %w", path, err)
	}
	if err := validator.ValidateStruct(f); err != nil {
		return nil, fmt.Errorf("validate documents file %q: %w", path, err)
	}
	return f.Items, nil
}
