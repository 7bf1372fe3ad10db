// Package jira provides a client for the Jira REST search API.
// It fetches complete result sets for a JQL query and normalizes raw issues into domain tickets.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robby/epicreport/internal/auth"
	"github.com/robby/epicreport/internal/config"
)

const searchPath = "/rest/api/2/search"

// ErrUnexpectedStatus indicates a non-2xx response from the API.
var ErrUnexpectedStatus = errors.New("jira API returned unexpected status")

// Client is a Jira REST API client bound to one set of credentials.
type Client struct {
	http     *http.Client
	baseURL  string
	creds    auth.Credentials
	log      zerolog.Logger
	fields   []string
	pageSize int
	maxPages int
}

// New creates a client from the run configuration and resolved credentials.
func New(cfg config.Config, creds auth.Credentials, log zerolog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		creds:    creds,
		log:      log,
		fields:   SearchFields(cfg.EpicLinkField, cfg.OwnerField),
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
	}
}

// BrowseURL returns the web URL of an issue.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// makeRequest POSTs body as JSON to path and decodes the response into out.
// Any transport error or non-2xx status is returned as-is; there is no retry.
func (c *Client) makeRequest(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.creds.Username, c.creds.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status=%d body=%s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
