// Package auth resolves the Jira basic-auth credentials.
// Providers are tried in order; the first one returning a complete pair wins.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment variables read by EnvProvider.
const (
	EnvUsername = "JIRA_USERNAME"
	EnvPassword = "JIRA_PASSWORD"
)

// ErrMissingCredentials indicates that no provider could supply credentials.
var ErrMissingCredentials = errors.New("jira credentials not set")

// Credentials is a basic-auth username/password pair.
// The values are passed to the HTTP client as-is, never validated for format.
type Credentials struct {
	Username string
	Password string
}

// CredentialProvider defines the interface for obtaining Jira credentials.
type CredentialProvider interface {
	Credentials() (Credentials, error)
}

// StaticProvider returns fixed credentials, typically from command-line flags.
type StaticProvider struct {
	Username string
	Password string
}

// Credentials returns the configured pair, or an error if either half is empty.
func (s *StaticProvider) Credentials() (Credentials, error) {
	if s.Username == "" || s.Password == "" {
		return Credentials{}, errors.New("--username and --password not both set")
	}
	return Credentials{Username: s.Username, Password: s.Password}, nil
}

// EnvProvider reads credentials from JIRA_USERNAME and JIRA_PASSWORD.
type EnvProvider struct{}

// Credentials reads the environment variables.
// Returns an error if either variable is not set or is empty.
func (e *EnvProvider) Credentials() (Credentials, error) {
	user := strings.TrimSpace(os.Getenv(EnvUsername))
	pass := os.Getenv(EnvPassword)
	if user == "" || pass == "" {
		return Credentials{}, fmt.Errorf("%s and %s environment variables not both set", EnvUsername, EnvPassword)
	}
	return Credentials{Username: user, Password: pass}, nil
}

// Resolve tries each provider in order and returns the first complete pair.
// When every provider fails, the error lists each failure and how to fix it.
func Resolve(providers ...CredentialProvider) (Credentials, error) {
	var failures []string
	for _, p := range providers {
		creds, err := p.Credentials()
		if err == nil {
			return creds, nil
		}
		failures = append(failures, err.Error())
	}

	return Credentials{}, fmt.Errorf(
		"%w (%s).\n"+
			"Please either:\n"+
			"  1. Pass --username and --password, or\n"+
			"  2. Set the %s and %s environment variables",
		ErrMissingCredentials, strings.Join(failures, "; "), EnvUsername, EnvPassword,
	)
}
