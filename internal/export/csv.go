// Package export writes flattened report rows to disk.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/robby/epicreport/internal/domain"
)

// Separator joins the path of a nested field into a column name.
const Separator = "."

// filePerms is the mode of the written report.
const filePerms = 0o644

// Column maps one nested row attribute to a CSV column.
type Column struct {
	Path  []string // e.g. {"epic", "key"}
	Value func(domain.Row) string
}

// Header returns the column name, e.g. "epic.key".
func (c Column) Header() string {
	return strings.Join(c.Path, Separator)
}

// Columns is the fixed report schema, in output order.
var Columns = []Column{
	{Path: []string{"epic", "key"}, Value: func(r domain.Row) string { return r.Epic.Key }},
	{Path: []string{"epic", "title"}, Value: func(r domain.Row) string { return r.Epic.Title }},
	{Path: []string{"epic", "svp"}, Value: func(r domain.Row) string { return domain.Value(r.Epic.SVP) }},
	{Path: []string{"type"}, Value: func(r domain.Row) string { return r.Type }},
	{Path: []string{"child", "key"}, Value: func(r domain.Row) string { return r.Child.Key }},
	{Path: []string{"child", "title"}, Value: func(r domain.Row) string { return r.Child.Title }},
	{Path: []string{"child", "reporter"}, Value: func(r domain.Row) string { return domain.Value(r.Child.Reporter) }},
	{Path: []string{"child", "status"}, Value: func(r domain.Row) string { return r.Child.Status }},
	{Path: []string{"child", "created"}, Value: func(r domain.Row) string { return r.Child.Created }},
	{Path: []string{"child", "resolved"}, Value: func(r domain.Row) string { return domain.Value(r.Child.Resolved) }},
}

// Headers returns the header row of the schema.
func Headers() []string {
	headers := make([]string, 0, len(Columns))
	for _, c := range Columns {
		headers = append(headers, c.Header())
	}
	return headers
}

// Encode writes a header row followed by one record per row.
func Encode(w io.Writer, rows []domain.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(Columns))
	for i, row := range rows {
		for j, c := range Columns {
			record[j] = c.Value(row)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteFile encodes rows and replaces path with the result.
// The file is written to a temporary sibling and renamed into place, so a failed
// run never leaves a partial report. The parent directory must already exist.
func WriteFile(path string, rows []domain.Row) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rows); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	// atomic.WriteFile leaves new files at the temp file's 0600
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}
