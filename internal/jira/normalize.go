package jira

import (
	"slices"
	"strings"

	"github.com/robby/epicreport/internal/domain"
)

// Names the normalizer matches on.
const (
	LinkTypeRelates   = "Relates"
	LabelExecReject   = "ExecReject"
	rawStatusDone     = "Done"
	rawResolutionDone = "Done"
)

// Normalizer maps raw issues into domain tickets. It has no side effects.
type Normalizer struct {
	EpicLinkField string
	OwnerField    string
	// EpicPrefix qualifies a "Relates" link target as an epic, e.g. "CENPRO-".
	EpicPrefix string
}

// Normalize converts a raw issue into a domain.Ticket.
func (n Normalizer) Normalize(issue Issue) domain.Ticket {
	f := issue.Fields

	ticket := domain.Ticket{
		Key:      issue.Key,
		Epic:     n.resolveEpic(f),
		Summary:  f.Summary,
		Status:   deriveStatus(f),
		Created:  f.Created,
		Resolved: f.ResolutionDate,
		SVP:      f.CustomDisplayName(n.OwnerField),
	}
	if f.Reporter != nil {
		reporter := f.Reporter.DisplayName
		ticket.Reporter = &reporter
	}
	return ticket
}

// NormalizeAll normalizes issues preserving their order.
func (n Normalizer) NormalizeAll(issues []Issue) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(issues))
	for _, issue := range issues {
		tickets = append(tickets, n.Normalize(issue))
	}
	return tickets
}

// resolveEpic prefers the epic link field. Otherwise the first "Relates" link
// pointing into the epic project is used, in link-list order.
func (n Normalizer) resolveEpic(f Fields) *string {
	if epic := f.CustomString(n.EpicLinkField); epic != nil {
		return epic
	}

	for _, link := range f.IssueLinks {
		if link.Type == nil || link.Type.Name != LinkTypeRelates {
			continue
		}
		if key := n.epicKey(link.OutwardIssue); key != nil {
			return key
		}
		if key := n.epicKey(link.InwardIssue); key != nil {
			return key
		}
	}
	return nil
}

func (n Normalizer) epicKey(ref *LinkedRef) *string {
	if ref == nil || !strings.HasPrefix(ref.Key, n.EpicPrefix) {
		return nil
	}
	key := ref.Key
	return &key
}

// deriveStatus classifies "Done" issues as Done or Rejected.
// A Done issue is Rejected if it is labeled ExecReject or its resolution is anything
// but Done, including no resolution at all. Other statuses pass through unchanged.
func deriveStatus(f Fields) string {
	if f.Status == nil {
		return ""
	}
	if f.Status.Name != rawStatusDone {
		return f.Status.Name
	}

	if slices.Contains(f.Labels, LabelExecReject) {
		return domain.StatusRejected
	}
	if f.Resolution == nil || f.Resolution.Name != rawResolutionDone {
		return domain.StatusRejected
	}
	return domain.StatusDone
}
