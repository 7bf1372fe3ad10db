package jira

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/epicreport/internal/config"
	"github.com/robby/epicreport/internal/domain"
)

func testNormalizer() Normalizer {
	return Normalizer{
		EpicLinkField: config.DefaultEpicLinkField,
		OwnerField:    config.DefaultOwnerField,
		EpicPrefix:    "CENPRO-",
	}
}

// decodeIssue builds an Issue from API-shaped JSON so custom fields go through UnmarshalJSON.
func decodeIssue(t *testing.T, raw string) Issue {
	t.Helper()
	var issue Issue
	require.NoError(t, json.Unmarshal([]byte(raw), &issue))
	return issue
}

func named(name string) *Named { return &Named{Name: name} }

func TestNormalize_Status(t *testing.T) {
	tests := []struct {
		name       string
		status     *Named
		resolution *Named
		labels     []string
		want       string
	}{
		{name: "done resolved done", status: named("Done"), resolution: named("Done"), want: domain.StatusDone},
		{name: "done resolved won't do", status: named("Done"), resolution: named("Won't Do"), want: domain.StatusRejected},
		{name: "done without resolution", status: named("Done"), want: domain.StatusRejected},
		{name: "done with exec reject", status: named("Done"), resolution: named("Done"), labels: []string{"infra", "ExecReject"}, want: domain.StatusRejected},
		{name: "done with other labels", status: named("Done"), resolution: named("Done"), labels: []string{"infra"}, want: domain.StatusDone},
		{name: "in progress passes through", status: named("In Progress"), resolution: named("Won't Do"), labels: []string{"ExecReject"}, want: "In Progress"},
		{name: "case sensitive done", status: named("done"), want: "done"},
		{name: "missing status", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := Issue{Key: "CENPRO-1", Fields: Fields{
				Status:     tt.status,
				Resolution: tt.resolution,
				Labels:     tt.labels,
			}}
			assert.Equal(t, tt.want, testNormalizer().Normalize(issue).Status)
		})
	}
}

func TestNormalize_EpicFromLinkField(t *testing.T) {
	issue := decodeIssue(t, `{
		"key": "APP-1",
		"fields": {
			"customfield_10014": "CENPRO-7",
			"issuelinks": [{"type": {"name": "Relates"}, "outwardIssue": {"key": "CENPRO-42"}}]
		}
	}`)

	ticket := testNormalizer().Normalize(issue)
	require.NotNil(t, ticket.Epic)
	assert.Equal(t, "CENPRO-7", *ticket.Epic)
}

func TestNormalize_EpicFromRelatesLink(t *testing.T) {
	tests := []struct {
		name  string
		links string
		want  *string
	}{
		{
			name:  "relates into epic project",
			links: `[{"type": {"name": "Relates"}, "outwardIssue": {"key": "CENPRO-42"}}]`,
			want:  ptr("CENPRO-42"),
		},
		{
			name:  "wrong prefix",
			links: `[{"type": {"name": "Relates"}, "outwardIssue": {"key": "OTHER-1"}}]`,
		},
		{
			name:  "wrong link type",
			links: `[{"type": {"name": "Blocks"}, "outwardIssue": {"key": "CENPRO-42"}}]`,
		},
		{
			name:  "inward side",
			links: `[{"type": {"name": "Relates"}, "inwardIssue": {"key": "CENPRO-9"}}]`,
			want:  ptr("CENPRO-9"),
		},
		{
			name: "first qualifying link wins",
			links: `[
				{"type": {"name": "Relates"}, "outwardIssue": {"key": "OTHER-1"}},
				{"type": {"name": "Relates"}, "outwardIssue": {"key": "CENPRO-3"}},
				{"type": {"name": "Relates"}, "outwardIssue": {"key": "CENPRO-4"}}
			]`,
			want: ptr("CENPRO-3"),
		},
		{
			name:  "link without type",
			links: `[{"outwardIssue": {"key": "CENPRO-42"}}]`,
		},
		{
			name:  "no links",
			links: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := decodeIssue(t, `{"key": "APP-1", "fields": {"customfield_10014": null, "issuelinks": `+tt.links+`}}`)
			assert.Equal(t, tt.want, testNormalizer().Normalize(issue).Epic)
		})
	}
}

func TestNormalize_Passthrough(t *testing.T) {
	issue := decodeIssue(t, `{
		"key": "CENPRO-42",
		"fields": {
			"summary": "Ship the thing",
			"created": "2023-05-01T10:00:00.000Z",
			"resolutiondate": "2023-06-02T11:00:00.000Z",
			"reporter": {"displayName": "Rita Reporter"},
			"customfield_12500": {"displayName": "Sam Senior"},
			"status": {"name": "Open"}
		}
	}`)

	ticket := testNormalizer().Normalize(issue)

	assert.Equal(t, "CENPRO-42", ticket.Key)
	assert.Equal(t, "Ship the thing", ticket.Summary)
	assert.Equal(t, "Open", ticket.Status)
	assert.Equal(t, ptr("2023-05-01T10:00:00.000Z"), ticket.Created)
	assert.Equal(t, ptr("2023-06-02T11:00:00.000Z"), ticket.Resolved)
	assert.Equal(t, ptr("Rita Reporter"), ticket.Reporter)
	assert.Equal(t, ptr("Sam Senior"), ticket.SVP)
	assert.Nil(t, ticket.Epic)
}

func TestNormalize_MissingNestedFields(t *testing.T) {
	issue := decodeIssue(t, `{"key": "CENPRO-1", "fields": {"summary": "bare", "reporter": null, "resolution": null}}`)

	ticket := testNormalizer().Normalize(issue)

	assert.Equal(t, "CENPRO-1", ticket.Key)
	assert.Nil(t, ticket.Epic)
	assert.Nil(t, ticket.Created)
	assert.Nil(t, ticket.Resolved)
	assert.Nil(t, ticket.Reporter)
	assert.Nil(t, ticket.SVP)
	assert.Empty(t, ticket.Status)
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	issues := []Issue{{Key: "CENPRO-3"}, {Key: "CENPRO-1"}, {Key: "CENPRO-2"}}

	tickets := testNormalizer().NormalizeAll(issues)

	require.Len(t, tickets, 3)
	assert.Equal(t, "CENPRO-3", tickets[0].Key)
	assert.Equal(t, "CENPRO-1", tickets[1].Key)
	assert.Equal(t, "CENPRO-2", tickets[2].Key)
}

func ptr(s string) *string { return &s }
