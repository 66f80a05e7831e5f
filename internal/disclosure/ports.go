// Package disclosure defines the port for publishing approved expenditures
// to the public disclosure report.
package disclosure

import (
	"context"

	"fondo/internal/core"
)

// ReportWriter appends an approved expenditure to the disclosure report and
// returns an opaque reference to the written row.
type ReportWriter interface {
	AppendExpenditure(ctx context.Context, e core.Expenditure) (string, error)
}
