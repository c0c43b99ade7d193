package services

import (
	"context"
	"fmt"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/storage"
)

// ReportService builds the dashboard aggregates for the active budget.
type ReportService struct {
	storage *storage.SQLiteRepository
}

func NewReportService(storage *storage.SQLiteRepository) *ReportService {
	return &ReportService{storage: storage}
}

// PieSlice is one slice of the category breakdown chart.
type PieSlice struct {
	Label string
	Value float64
}

// BarPoint is one month on the spending history chart.
type BarPoint struct {
	Label string
	Value float64
}

// ExpenseRow is an expense decorated with its due-date reminder text.
type ExpenseRow struct {
	core.Expense
	Reminder string
}

// ExpenseRows decorates expenses with their reminder text relative to now.
func ExpenseRows(expenses []core.Expense, now time.Time) []ExpenseRow {
	rows := make([]ExpenseRow, len(expenses))
	for i, e := range expenses {
		rows[i] = ExpenseRow{Expense: e, Reminder: core.DueReminder(e.DueDay, now)}
	}
	return rows
}

// Overview is the full dashboard payload for one user's active budget.
type Overview struct {
	Budget        core.Budget
	GrossMonthly  core.Money
	NetMonthly    core.Money
	MonthSpending core.Money
	Categories    []PieSlice
	History       []BarPoint
	Expenses      []ExpenseRow
	Placeholder   bool
}

// placeholderSlices is shown when the current month has no expenses yet, so
// the chart renders instead of collapsing to nothing.
func placeholderSlices() []PieSlice {
	return []PieSlice{
		{Label: "ex1", Value: 5},
		{Label: "ex2", Value: 10},
		{Label: "ex3", Value: 3},
	}
}

// CategoryBreakdown returns the current month's per-category spending as pie
// slices. When the month is empty it falls back to placeholder slices and
// reports that through the bool.
func (s *ReportService) CategoryBreakdown(ctx context.Context, budgetID int64, now time.Time) ([]PieSlice, bool, error) {
	totals, err := s.storage.CategoryTotals(ctx, budgetID, now.Year(), int(now.Month()))
	if err != nil {
		return nil, false, fmt.Errorf("category totals: %w", err)
	}
	if len(totals) == 0 {
		return placeholderSlices(), true, nil
	}

	slices := make([]PieSlice, len(totals))
	for i, t := range totals {
		slices[i] = PieSlice{
			Label: t.Category.Label(),
			Value: float64(t.Total.Cents) / 100,
		}
	}
	return slices, false, nil
}

// SpendingHistory returns per-month spending totals for the budget's whole
// history, oldest first.
func (s *ReportService) SpendingHistory(ctx context.Context, budgetID int64) ([]BarPoint, error) {
	totals, err := s.storage.MonthlyTotals(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	points := make([]BarPoint, len(totals))
	for i, t := range totals {
		points[i] = BarPoint{
			Label: fmt.Sprintf("%04d-%02d", t.Year, t.Month),
			Value: float64(t.Total.Cents) / 100,
		}
	}
	return points, nil
}

// Dashboard assembles the overview for the user's active budget.
func (s *ReportService) Dashboard(ctx context.Context, userID int64, now time.Time) (Overview, error) {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return Overview{}, err
	}

	budget, err := s.storage.GetBudget(ctx, budgetID, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("get budget: %w", err)
	}

	gross, err := s.storage.MonthlyIncomeTotal(ctx, budgetID)
	if err != nil {
		return Overview{}, err
	}

	incomes, err := s.storage.ListIncomes(ctx, budgetID)
	if err != nil {
		return Overview{}, fmt.Errorf("list incomes: %w", err)
	}
	var netCents int64
	for _, in := range incomes {
		netCents += in.MonthlyAmount.AfterTax(in.TaxPercent).Cents
	}

	slices, placeholder, err := s.CategoryBreakdown(ctx, budgetID, now)
	if err != nil {
		return Overview{}, err
	}

	var monthCents int64
	if !placeholder {
		totals, err := s.storage.CategoryTotals(ctx, budgetID, now.Year(), int(now.Month()))
		if err != nil {
			return Overview{}, fmt.Errorf("category totals: %w", err)
		}
		for _, t := range totals {
			monthCents += t.Total.Cents
		}
	}

	history, err := s.SpendingHistory(ctx, budgetID)
	if err != nil {
		return Overview{}, err
	}

	expenses, err := s.storage.ListExpenses(ctx, budgetID, storage.ExpenseFilter{})
	if err != nil {
		return Overview{}, fmt.Errorf("list expenses: %w", err)
	}
	rows := ExpenseRows(expenses, now)

	return Overview{
		Budget:        budget,
		GrossMonthly:  gross,
		NetMonthly:    core.Money{Cents: netCents},
		MonthSpending: core.Money{Cents: monthCents},
		Categories:    slices,
		History:       history,
		Expenses:      rows,
		Placeholder:   placeholder,
	}, nil
}
