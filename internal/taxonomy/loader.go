// Package taxonomy loads the read-only category taxonomy consumed by the
// downstream classifier. The file is owned externally; this package only
// reads it, once per classification call, so edits are picked up without a
// restart.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category is one node of the taxonomy document.
type Category struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
	Tier1    string `json:"tier_1"`
	Tier2    string `json:"tier_2"`
	Tier3    string `json:"tier_3"`
	Tier4    string `json:"tier_4"`
}

// Taxonomy is the full structured document handed to the classifier.
type Taxonomy struct {
	Categories []Category `json:"categories"`
}

// Load reads and parses the taxonomy file at path.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	var t Taxonomy
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}

	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy file %s contains no categories", path)
	}

	return &t, nil
}

// JSON returns the taxonomy serialized for prompt embedding.
func (t *Taxonomy) JSON() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to serialize taxonomy: %w", err)
	}
	return string(data), nil
}
