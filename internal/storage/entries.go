package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budgeteer/internal/core"
)

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO incomes (budget_id, description, monthly_cents, tax_percent) VALUES (?, ?, ?, ?)",
		in.BudgetID, in.Description, in.MonthlyAmount.Cents, in.TaxPercent)
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Income{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetIncome(ctx, id, in.BudgetID)
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id, budgetID int64) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, budget_id, description, monthly_cents, tax_percent, created_at FROM incomes WHERE id = ? AND budget_id = ?",
		id, budgetID)
	return scanIncome(row)
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, budgetID int64) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, budget_id, description, monthly_cents, tax_percent, created_at FROM incomes WHERE budget_id = ? ORDER BY id",
		budgetID)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		var in core.Income
		if err := rows.Scan(&in.ID, &in.BudgetID, &in.Description, &in.MonthlyAmount.Cents,
			&in.TaxPercent, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE incomes SET description = ?, monthly_cents = ?, tax_percent = ? WHERE id = ? AND budget_id = ?",
		in.Description, in.MonthlyAmount.Cents, in.TaxPercent, in.ID, in.BudgetID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id, budgetID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM incomes WHERE id = ? AND budget_id = ?", id, budgetID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res)
}

func scanIncome(row *sql.Row) (core.Income, error) {
	var in core.Income
	err := row.Scan(&in.ID, &in.BudgetID, &in.Description, &in.MonthlyAmount.Cents,
		&in.TaxPercent, &in.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}
	return in, nil
}

// ExpenseFilter narrows ListExpenses. Zero values match everything.
type ExpenseFilter struct {
	Category core.Category
	Type     core.ExpenseType
}

const expenseColumns = "id, budget_id, description, amount_cents, category, expense_type, due_day, transaction_date, created_at"

// sqliteTimeLayout is the text form dates are stored in. SQLite's date
// functions only understand ISO-8601 strings, and the monthly aggregates
// bucket by strftime over transaction_date, so the value is formatted
// explicitly instead of left to the driver's default rendering.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (budget_id, description, amount_cents, category, expense_type, due_day, transaction_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.BudgetID, e.Description, e.Amount.Cents, e.Category, e.Type, e.DueDay,
		e.TransactionDate.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetExpense(ctx, id, e.BudgetID)
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id, budgetID int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND budget_id = ?", id, budgetID)

	var e core.Expense
	err := row.Scan(&e.ID, &e.BudgetID, &e.Description, &e.Amount.Cents, &e.Category,
		&e.Type, &e.DueDay, &e.TransactionDate, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns a budget's expenses newest first, optionally filtered
// by category or type.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, budgetID int64, filter ExpenseFilter) ([]core.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE budget_id = ?"
	args := []any{budgetID}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Type != "" {
		query += " AND expense_type = ?"
		args = append(args, filter.Type)
	}
	query += " ORDER BY transaction_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.BudgetID, &e.Description, &e.Amount.Cents, &e.Category,
			&e.Type, &e.DueDay, &e.TransactionDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount_cents = ?, category = ?, expense_type = ?, due_day = ?, transaction_date = ? WHERE id = ? AND budget_id = ?",
		e.Description, e.Amount.Cents, e.Category, e.Type, e.DueDay,
		e.TransactionDate.UTC().Format(sqliteTimeLayout), e.ID, e.BudgetID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id, budgetID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND budget_id = ?", id, budgetID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

// ListMonthlyBills returns every monthly bill across all budgets of all
// users. The reminder worker scans these for upcoming due dates.
func (r *SQLiteRepository) ListMonthlyBills(ctx context.Context) ([]BillRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.budget_id, b.user_id, e.description, e.amount_cents, e.due_day
		FROM expenses e
		JOIN budgets b ON b.id = e.budget_id
		WHERE e.expense_type = ?
		ORDER BY e.due_day, e.id`, core.TypeMonthlyBill)
	if err != nil {
		return nil, fmt.Errorf("query monthly bills: %w", err)
	}
	defer rows.Close()

	var bills []BillRow
	for rows.Next() {
		var b BillRow
		if err := rows.Scan(&b.ExpenseID, &b.BudgetID, &b.UserID, &b.Description,
			&b.Amount.Cents, &b.DueDay); err != nil {
			return nil, fmt.Errorf("scan monthly bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// BillRow is a monthly bill joined with its owning budget and user.
type BillRow struct {
	ExpenseID   int64
	BudgetID    int64
	UserID      int64
	Description string
	Amount      core.Money
	DueDay      int
}
