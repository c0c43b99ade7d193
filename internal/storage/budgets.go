package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budgeteer/internal/core"
)

// CreateBudget inserts a budget and makes it the owner's active budget.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Budget{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO budgets (user_id, name, description) VALUES (?, ?, ?)",
		b.UserID, b.Name, b.Description)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("last insert id: %w", err)
	}

	// A freshly created budget always becomes the active one.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO budget_selections (user_id, budget_id) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET budget_id = excluded.budget_id`,
		b.UserID, id); err != nil {
		return core.Budget{}, fmt.Errorf("select new budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Budget{}, fmt.Errorf("commit transaction: %w", err)
	}

	return r.GetBudget(ctx, id, b.UserID)
}

// GetBudget fetches a budget scoped to its owner.
func (r *SQLiteRepository) GetBudget(ctx context.Context, id, userID int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, description, created_at FROM budgets WHERE id = ? AND user_id = ?",
		id, userID)

	var b core.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns all of a user's budgets, oldest first.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, name, description, created_at FROM budgets WHERE user_id = ? ORDER BY id",
		userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE budgets SET name = ?, description = ? WHERE id = ? AND user_id = ?",
		b.Name, b.Description, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

// DeleteBudget removes a budget with its incomes and expenses, and resets the
// owner's selection when the deleted budget was the active one.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE budget_selections SET budget_id = 0 WHERE user_id = ? AND budget_id = ?",
		userID, id); err != nil {
		return fmt.Errorf("reset budget selection: %w", err)
	}

	return tx.Commit()
}

// ActiveBudgetID returns the user's selected budget id, or 0 when none is active.
func (r *SQLiteRepository) ActiveBudgetID(ctx context.Context, userID int64) (int64, error) {
	var budgetID int64
	err := r.db.QueryRowContext(ctx,
		"SELECT budget_id FROM budget_selections WHERE user_id = ?", userID).Scan(&budgetID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scan budget selection: %w", err)
	}
	return budgetID, nil
}

// SetActiveBudget points the user's selection at budgetID. The budget must
// belong to the user.
func (r *SQLiteRepository) SetActiveBudget(ctx context.Context, userID, budgetID int64) error {
	if _, err := r.GetBudget(ctx, budgetID, userID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_selections (user_id, budget_id) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET budget_id = excluded.budget_id`,
		userID, budgetID); err != nil {
		return fmt.Errorf("set budget selection: %w", err)
	}
	return nil
}
