// Package memory records disclosure rows in memory. Used in tests and when
// no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fondo/internal/core"
	"fondo/internal/disclosure"
)

type Report struct {
	mu   sync.Mutex
	rows []core.Expenditure
}

var _ disclosure.ReportWriter = (*Report)(nil)

func New() *Report {
	return &Report{}
}

// AppendExpenditure stores the row and returns a synthetic reference.
func (r *Report) AppendExpenditure(_ context.Context, e core.Expenditure) (string, error) {
	if !e.Approved {
		return "", fmt.Errorf("expenditure %d not approved", e.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, e)
	return fmt.Sprintf("mem:%d", len(r.rows)), nil
}

// Rows returns a copy of everything disclosed so far.
func (r *Report) Rows() []core.Expenditure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Expenditure, len(r.rows))
	copy(out, r.rows)
	return out
}
