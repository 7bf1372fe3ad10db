package jira

import (
	"context"
	"errors"
	"fmt"
)

// ErrPageLimitExceeded indicates a query still returned issues after the configured
// number of pages. It guards against an API that never returns an empty page.
var ErrPageLimitExceeded = errors.New("jira search page limit exceeded")

// searchRequest is the POST body of the search endpoint.
type searchRequest struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
}

// searchResponse is the relevant subset of the search response.
type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// SearchFields returns the field selection sent with every search.
// epicLinkField and ownerField are the instance-specific custom field ids.
func SearchFields(epicLinkField, ownerField string) []string {
	return []string{
		"id",
		"reporter",
		epicLinkField,
		ownerField,
		"summary",
		"created",
		"resolutiondate",
		"status",
		"issuelinks",
		"labels",
		"resolution",
	}
}

// Search fetches every issue matching jql.
// Pages of pageSize are requested from offset 0 until a page comes back empty.
// The offset always advances by pageSize, even if the server returned fewer issues.
func (c *Client) Search(ctx context.Context, jql string) ([]Issue, error) {
	var issues []Issue
	startAt := 0

	for page := 0; page < c.maxPages; page++ {
		req := searchRequest{
			JQL:        jql,
			Fields:     c.fields,
			StartAt:    startAt,
			MaxResults: c.pageSize,
		}

		var resp searchResponse
		if err := c.makeRequest(ctx, searchPath, req, &resp); err != nil {
			return nil, fmt.Errorf("failed to search issues at offset %d: %w", startAt, err)
		}

		c.log.Debug().
			Str("jql", jql).
			Int("start_at", startAt).
			Int("count", len(resp.Issues)).
			Msg("jira page fetched")

		if len(resp.Issues) == 0 {
			return issues, nil
		}

		issues = append(issues, resp.Issues...)
		startAt += c.pageSize
	}

	return nil, fmt.Errorf("%w: %d pages of %d issues for %q", ErrPageLimitExceeded, c.maxPages, c.pageSize, jql)
}
