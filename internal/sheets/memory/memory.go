// Package memory is an in-process ReportWriter used in development and
// tests, when no spreadsheet credentials are configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "sitebook/internal/sheets"
)

type Sink struct {
	mu      sync.Mutex
	appends int
	rows    []ports.ReportRow
}

var _ ports.ReportWriter = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

// AppendRows stores the rows and returns a synthetic reference.
func (s *Sink) AppendRows(_ context.Context, _ string, rows []ports.ReportRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
	s.appends++
	return fmt.Sprintf("mem:%d", s.appends), nil
}

// Rows returns a copy of everything appended so far.
func (s *Sink) Rows() []ports.ReportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ReportRow(nil), s.rows...)
}
