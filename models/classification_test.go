package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassificationResult(t *testing.T) {
	raw := []byte(`{
		"description": "stainless steel water bottle",
		"id": "204",
		"parent_id": "200",
		"name": "Water Bottles",
		"tier_1": "Home & Kitchen",
		"tier_2": "Drinkware",
		"tier_3": "Water Bottles",
		"tier_4": ""
	}`)

	result, missing, err := ParseClassificationResult(raw)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "204", result.ID)
	assert.Equal(t, "Water Bottles", result.Name)
}

func TestParseClassificationResultMissingFields(t *testing.T) {
	raw := []byte(`{"description": "something", "id": "1", "name": "x"}`)

	result, missing, err := ParseClassificationResult(raw)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.ElementsMatch(t, []string{"parent_id", "tier_1", "tier_2", "tier_3", "tier_4"}, missing)
}

func TestParseClassificationResultEmptyValuePresent(t *testing.T) {
	// parent_id may legitimately be empty for a root category; presence is
	// checked on the key, not the value.
	raw := []byte(`{
		"description": "d", "id": "1", "parent_id": "", "name": "n",
		"tier_1": "t1", "tier_2": "", "tier_3": "", "tier_4": ""
	}`)

	result, missing, err := ParseClassificationResult(raw)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "", result.ParentID)
}

func TestParseClassificationResultMalformed(t *testing.T) {
	_, _, err := ParseClassificationResult([]byte("not json"))
	assert.Error(t, err)
}
