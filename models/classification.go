package models

import "encoding/json"

// requiredResultFields are the keys the downstream classifier must return.
var requiredResultFields = []string{
	"description", "id", "parent_id", "name",
	"tier_1", "tier_2", "tier_3", "tier_4",
}

// ClassificationResult is the structured object returned by the downstream
// classifier for one description.
type ClassificationResult struct {
	Description string `json:"description"`
	ID          string `json:"id"`
	ParentID    string `json:"parent_id"`
	Name        string `json:"name"`
	Tier1       string `json:"tier_1"`
	Tier2       string `json:"tier_2"`
	Tier3       string `json:"tier_3"`
	Tier4       string `json:"tier_4"`
}

// ParseClassificationResult decodes raw classifier output and reports which
// required fields are absent. Presence is checked on the JSON keys, not on
// emptiness, so a legitimately empty parent_id on a root category still
// counts as present.
func ParseClassificationResult(raw []byte) (*ClassificationResult, []string, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, field := range requiredResultFields {
		if _, ok := keys[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, missing, nil
	}

	var result ClassificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, err
	}
	return &result, nil, nil
}
