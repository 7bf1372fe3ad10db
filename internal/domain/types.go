// Package domain defines the normalized domain types for the epic report.
// These types represent the core concepts independent of the Jira REST API structure.
package domain

// Ticket is a normalized tracker issue.
// Optional fields are nil when the tracker did not supply them.
type Ticket struct {
	Key      string  // Issue key (e.g., "CENPRO-42")
	Epic     *string // Parent epic key, from the epic link field or a "Relates" link
	Summary  string  // Issue title
	Status   string  // Derived status: StatusDone, StatusRejected, or the raw status name
	Created  *string // ISO8601 timestamp of creation
	Resolved *string // ISO8601 timestamp of resolution
	SVP      *string // Display name of the accountable executive (epics only)
	Reporter *string // Display name of the ticket creator
}

// GenericIssue is the report-ready projection shared by epics and their children.
type GenericIssue struct {
	Key      string
	Title    string
	Status   string
	Created  string  // Date only (YYYY-MM-DD)
	Resolved *string // Date only, nil if unresolved
}

// Story is a story linked to an epic.
type Story struct {
	GenericIssue
}

// Scr is a specification clarification request linked to an epic.
type Scr struct {
	GenericIssue
	Reporter *string
}

// Epic aggregates the stories and SCRs that reference it.
type Epic struct {
	GenericIssue
	SVP     *string
	Stories []Story
	Scrs    []Scr
}

// Child is the child side of a report row. Reporter is only set for SCRs.
type Child struct {
	GenericIssue
	Reporter *string
}

// Row is a single flattened report line: one child under one epic.
type Row struct {
	Epic  *Epic
	Type  string // RowTypeStory or RowTypeSCR
	Child Child
}

// Status constants for derived ticket status.
const (
	StatusDone     = "Done"
	StatusRejected = "Rejected"
)

// RowType constants for report rows.
const (
	RowTypeStory = "Story"
	RowTypeSCR   = "SCR"
)

// dateLength is the length of the YYYY-MM-DD prefix of an ISO8601 timestamp.
const dateLength = 10

// Issue projects a ticket into its report-ready shape.
func (t Ticket) Issue() GenericIssue {
	issue := GenericIssue{
		Key:    t.Key,
		Title:  t.Summary,
		Status: t.Status,
	}
	if t.Created != nil {
		issue.Created = DateOnly(*t.Created)
	}
	if t.Resolved != nil {
		resolved := DateOnly(*t.Resolved)
		issue.Resolved = &resolved
	}
	return issue
}

// DateOnly returns the date part of an ISO8601 timestamp.
// Values shorter than a date are returned unchanged.
func DateOnly(ts string) string {
	if len(ts) < dateLength {
		return ts
	}
	return ts[:dateLength]
}

// Value returns the pointed-to string, or "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
