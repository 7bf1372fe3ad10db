// Package config holds the explicit run configuration for the epic report.
// Nothing in the program reads ambient configuration except through this struct.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var (
	// ErrMissingBaseURL indicates no tracker base URL was configured.
	ErrMissingBaseURL = errors.New("jira base URL not set")
	// ErrMissingOutputPath indicates an empty output path.
	ErrMissingOutputPath = errors.New("output path not set")
	// ErrMissingProjectKey indicates an empty epic project key.
	ErrMissingProjectKey = errors.New("project key not set")
	// ErrInvalidPageSize indicates a non-positive page size.
	ErrInvalidPageSize = errors.New("page size must be positive")
	// ErrInvalidMaxPages indicates a non-positive page limit.
	ErrInvalidMaxPages = errors.New("max pages must be positive")
)

// Defaults.
const (
	DefaultTimeFrame     = "startOfYear(-1)"
	DefaultOutputPath    = "output/epics.csv"
	DefaultProjectKey    = "CENPRO"
	DefaultEpicLinkField = "customfield_10014"
	DefaultOwnerField    = "customfield_12500"
	DefaultPageSize      = 250
	DefaultMaxPages      = 400
	DefaultHTTPTimeout   = 60 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// Config is the complete configuration of one report run.
type Config struct {
	JiraUsername string
	JiraPassword string
	BaseURL      string

	// TimeFrameExpression is a JQL date expression bounding all three queries.
	TimeFrameExpression string
	OutputPath          string

	// ProjectKey is the epic project. Its "KEY-" prefix qualifies "Relates" links as epic links.
	ProjectKey    string
	EpicLinkField string
	OwnerField    string

	PageSize    int
	MaxPages    int
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Default returns a Config with every optional value filled in.
func Default() Config {
	return Config{
		TimeFrameExpression: DefaultTimeFrame,
		OutputPath:          DefaultOutputPath,
		ProjectKey:          DefaultProjectKey,
		EpicLinkField:       DefaultEpicLinkField,
		OwnerField:          DefaultOwnerField,
		PageSize:            DefaultPageSize,
		MaxPages:            DefaultMaxPages,
		HTTPTimeout:         DefaultHTTPTimeout,
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
	}
}

// RegisterFlags binds every option to a flag on fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.JiraUsername, "username", c.JiraUsername, "Jira username (falls back to $JIRA_USERNAME)")
	fs.StringVar(&c.JiraPassword, "password", c.JiraPassword, "Jira password or API token (falls back to $JIRA_PASSWORD)")
	fs.StringVar(&c.BaseURL, "base-url", c.BaseURL, "Jira base URL, e.g. https://example.atlassian.net (falls back to $JIRA_BASE_URL)")
	fs.StringVar(&c.TimeFrameExpression, "time-frame", c.TimeFrameExpression, "JQL date expression bounding the report window")
	fs.StringVarP(&c.OutputPath, "output", "o", c.OutputPath, "CSV output path; the directory must exist")
	fs.StringVar(&c.ProjectKey, "project", c.ProjectKey, "Project key holding the epics")
	fs.StringVar(&c.EpicLinkField, "epic-link-field", c.EpicLinkField, "Custom field id of the epic link")
	fs.StringVar(&c.OwnerField, "owner-field", c.OwnerField, "Custom field id of the SVP owner")
	fs.IntVar(&c.MaxPages, "max-pages", c.MaxPages, "Abort a query after this many pages")
	fs.DurationVar(&c.HTTPTimeout, "http-timeout", c.HTTPTimeout, "Timeout for a single API request")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (console or json)")
}

// Validate checks the options that cannot be defaulted.
// Credentials are resolved separately by the auth package.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrMissingOutputPath
	}
	if strings.TrimSpace(c.ProjectKey) == "" {
		return ErrMissingProjectKey
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.PageSize)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxPages, c.MaxPages)
	}
	return nil
}

// EpicPrefix is the key prefix of issues in the epic project.
func (c Config) EpicPrefix() string {
	return c.ProjectKey + "-"
}
