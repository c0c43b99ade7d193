package storage

import (
	"context"
	"fmt"

	"budgeteer/internal/core"
)

// CategoryTotal is the summed spend for one category.
type CategoryTotal struct {
	Category core.Category
	Total    core.Money
}

// MonthTotal is the summed spend for one calendar month.
type MonthTotal struct {
	Year  int
	Month int
	Total core.Money
}

// CategoryTotals sums a budget's expenses per category for the given calendar
// month. Categories with no expenses are omitted.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, budgetID int64, year, month int) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents)
		FROM expenses
		WHERE budget_id = ?
		  AND CAST(strftime('%Y', transaction_date) AS INTEGER) = ?
		  AND CAST(strftime('%m', transaction_date) AS INTEGER) = ?
		GROUP BY category
		ORDER BY category`, budgetID, year, month)
	if err != nil {
		return nil, fmt.Errorf("query category totals: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// MonthlyTotals sums a budget's expenses per calendar month across its whole
// history, in chronological order.
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context, budgetID int64) ([]MonthTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%Y', transaction_date) AS INTEGER) AS year,
		       CAST(strftime('%m', transaction_date) AS INTEGER) AS month,
		       SUM(amount_cents)
		FROM expenses
		WHERE budget_id = ?
		GROUP BY year, month
		ORDER BY year, month`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("query monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []MonthTotal
	for rows.Next() {
		var t MonthTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// MonthlyReportRow is one user's active-budget spending for one month.
type MonthlyReportRow struct {
	Username   string
	BudgetName string
	Year       int
	Month      int
	Total      core.Money
}

// MonthlyReports sums the given month's spending per user, limited to each
// user's active budget. Users without spending that month are omitted.
func (r *SQLiteRepository) MonthlyReports(ctx context.Context, year, month int) ([]MonthlyReportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.username, b.name, SUM(e.amount_cents)
		FROM budget_selections s
		JOIN users u ON u.id = s.user_id
		JOIN budgets b ON b.id = s.budget_id
		JOIN expenses e ON e.budget_id = b.id
		WHERE s.budget_id != 0
		  AND CAST(strftime('%Y', e.transaction_date) AS INTEGER) = ?
		  AND CAST(strftime('%m', e.transaction_date) AS INTEGER) = ?
		GROUP BY u.id
		ORDER BY u.username`, year, month)
	if err != nil {
		return nil, fmt.Errorf("query monthly reports: %w", err)
	}
	defer rows.Close()

	var reports []MonthlyReportRow
	for rows.Next() {
		r := MonthlyReportRow{Year: year, Month: month}
		if err := rows.Scan(&r.Username, &r.BudgetName, &r.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// MonthlyIncomeTotal sums a budget's normalized monthly income.
func (r *SQLiteRepository) MonthlyIncomeTotal(ctx context.Context, budgetID int64) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(monthly_cents), 0) FROM incomes WHERE budget_id = ?",
		budgetID).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("query monthly income total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}
