// Package export defines the outbound port for monthly report delivery.
package export

import (
	"context"

	"budgeteer/internal/core"
)

// MonthlyReport is one budget's spending summary for one calendar month.
type MonthlyReport struct {
	Username   string
	BudgetName string
	Year       int
	Month      int
	Total      core.Money
}

// ReportWriter delivers monthly reports to an external destination.
type ReportWriter interface {
	AppendReports(ctx context.Context, reports []MonthlyReport) error
}
