package jira

import (
	"encoding/json"
	"strings"
)

// Issue is a raw issue as returned by the search API.
type Issue struct {
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields holds the issue fields requested by SearchFields.
// Nested objects are pointers: Jira sends null or omits them freely.
type Fields struct {
	Summary        string      `json:"summary"`
	Created        *string     `json:"created"`
	ResolutionDate *string     `json:"resolutiondate"`
	Labels         []string    `json:"labels"`
	Status         *Named      `json:"status"`
	Resolution     *Named      `json:"resolution"`
	Reporter       *User       `json:"reporter"`
	IssueLinks     []IssueLink `json:"issuelinks"`

	// Custom holds the raw customfield_* values, keyed by field id.
	Custom map[string]json.RawMessage `json:"-"`
}

// Named is any Jira object identified by its name (status, resolution, link type).
type Named struct {
	Name string `json:"name"`
}

// User is a Jira user reference.
type User struct {
	DisplayName string `json:"displayName"`
}

// IssueLink is one entry of the issuelinks field. Exactly one side is normally set.
type IssueLink struct {
	Type         *Named     `json:"type"`
	OutwardIssue *LinkedRef `json:"outwardIssue"`
	InwardIssue  *LinkedRef `json:"inwardIssue"`
}

// LinkedRef is the issue on the other end of a link.
type LinkedRef struct {
	Key string `json:"key"`
}

// UnmarshalJSON decodes the standard fields and keeps custom fields as raw JSON.
func (f *Fields) UnmarshalJSON(data []byte) error {
	type plain Fields
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for id, raw := range all {
		if !strings.HasPrefix(id, "customfield_") {
			continue
		}
		if p.Custom == nil {
			p.Custom = make(map[string]json.RawMessage)
		}
		p.Custom[id] = raw
	}

	*f = Fields(p)
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON; custom fields are written inline.
func (f Fields) MarshalJSON() ([]byte, error) {
	type plain Fields
	base, err := json.Marshal(plain(f))
	if err != nil {
		return nil, err
	}
	if len(f.Custom) == 0 {
		return base, nil
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(base, &all); err != nil {
		return nil, err
	}
	for id, raw := range f.Custom {
		all[id] = raw
	}
	return json.Marshal(all)
}

// CustomString returns a custom field holding a plain string (e.g., the epic link).
// Returns nil when the field is absent, null, empty, or not a string.
func (f Fields) CustomString(id string) *string {
	raw, ok := f.Custom[id]
	if !ok {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil || *s == "" {
		return nil
	}
	return s
}

// CustomDisplayName returns the display text of a user or option custom field.
// User fields carry displayName, single-select fields carry value.
func (f Fields) CustomDisplayName(id string) *string {
	raw, ok := f.Custom[id]
	if !ok {
		return nil
	}
	var obj *struct {
		DisplayName string `json:"displayName"`
		Value       string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil
	}
	if obj.DisplayName != "" {
		return &obj.DisplayName
	}
	if obj.Value != "" {
		return &obj.Value
	}
	return nil
}
