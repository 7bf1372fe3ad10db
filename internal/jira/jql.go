package jira

import "fmt"

// IssueTypeSCR is the issue type name of specification clarification requests.
const IssueTypeSCR = "Specification Clarification Request"

// windowClause restricts a query to issues that were created or resolved inside the
// window, or are still unresolved.
func windowClause(timeFrame string) string {
	return fmt.Sprintf("(created >= %[1]s OR resolved >= %[1]s OR resolution is EMPTY)", timeFrame)
}

// ScrQuery selects the clarification requests of the epic project.
func ScrQuery(projectKey, timeFrame string) string {
	return fmt.Sprintf("project = %s AND issuetype = %q AND %s ORDER BY created ASC",
		projectKey, IssueTypeSCR, windowClause(timeFrame))
}

// StoryQuery selects stories from any project that carry an epic link.
func StoryQuery(timeFrame string) string {
	return fmt.Sprintf(`issuetype = Story AND "Epic Link" is not EMPTY AND %s ORDER BY created ASC`,
		windowClause(timeFrame))
}

// EpicQuery selects the epics of the epic project.
func EpicQuery(projectKey, timeFrame string) string {
	return fmt.Sprintf("project = %s AND issuetype = Epic AND %s ORDER BY created ASC",
		projectKey, windowClause(timeFrame))
}
