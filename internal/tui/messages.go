// Package tui provides the Bubble Tea model for the interactive report preview.
package tui

import "github.com/robby/epicreport/internal/store"

// ReportLoadedMsg is emitted when the pipeline finished and rows are ready.
type ReportLoadedMsg struct {
	Store *store.Store
}

// ErrorMsg is emitted when loading the report fails.
type ErrorMsg struct {
	Err error
}

// openResultMsg reports the outcome of opening a ticket in the browser.
type openResultMsg struct {
	key string
	err error
}
