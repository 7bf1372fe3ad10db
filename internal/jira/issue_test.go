package jira

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_CustomFields(t *testing.T) {
	issue := decodeIssue(t, `{
		"key": "CENPRO-1",
		"fields": {
			"summary": "s",
			"customfield_1": "CENPRO-9",
			"customfield_2": {"displayName": "Sam"},
			"customfield_3": {"value": "Option A", "id": "1001"},
			"customfield_4": null,
			"customfield_5": "",
			"customfield_6": 42
		}
	}`)
	f := issue.Fields

	assert.Equal(t, ptr("CENPRO-9"), f.CustomString("customfield_1"))
	assert.Nil(t, f.CustomString("customfield_2"), "objects are not strings")
	assert.Nil(t, f.CustomString("customfield_4"))
	assert.Nil(t, f.CustomString("customfield_5"))
	assert.Nil(t, f.CustomString("customfield_missing"))

	assert.Equal(t, ptr("Sam"), f.CustomDisplayName("customfield_2"))
	assert.Equal(t, ptr("Option A"), f.CustomDisplayName("customfield_3"))
	assert.Nil(t, f.CustomDisplayName("customfield_4"))
	assert.Nil(t, f.CustomDisplayName("customfield_6"))
	assert.Nil(t, f.CustomDisplayName("customfield_1"))

	assert.NotContains(t, f.Custom, "summary")
}

func TestFields_RoundTripKeepsCustomFields(t *testing.T) {
	in := decodeIssue(t, `{"key": "CENPRO-1", "fields": {"summary": "s", "customfield_1": "CENPRO-9"}}`)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Issue
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "s", out.Fields.Summary)
	assert.Equal(t, ptr("CENPRO-9"), out.Fields.CustomString("customfield_1"))
}

func TestQueries(t *testing.T) {
	assert.Equal(t,
		`project = CENPRO AND issuetype = "Specification Clarification Request" AND (created >= startOfYear(-1) OR resolved >= startOfYear(-1) OR resolution is EMPTY) ORDER BY created ASC`,
		ScrQuery("CENPRO", "startOfYear(-1)"))
	assert.Equal(t,
		`issuetype = Story AND "Epic Link" is not EMPTY AND (created >= -30d OR resolved >= -30d OR resolution is EMPTY) ORDER BY created ASC`,
		StoryQuery("-30d"))
	assert.Equal(t,
		`project = CENPRO AND issuetype = Epic AND (created >= startOfYear(-1) OR resolved >= startOfYear(-1) OR resolution is EMPTY) ORDER BY created ASC`,
		EpicQuery("CENPRO", "startOfYear(-1)"))
}
