// Package services orchestrates budget, income, and expense operations on top
// of the storage layer.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budgeteer/internal/core"
	"budgeteer/internal/storage"
)

var (
	// ErrNoActiveBudget is returned when an operation needs an active budget
	// and the user has none selected.
	ErrNoActiveBudget = errors.New("no active budget selected")

	// ErrInvalidSelection is returned for selection targets that can never be
	// valid, such as id 0.
	ErrInvalidSelection = errors.New("invalid budget selection")
)

// BudgetService manages budget lifecycle and the per-user active selection.
type BudgetService struct {
	storage *storage.SQLiteRepository
}

func NewBudgetService(storage *storage.SQLiteRepository) *BudgetService {
	return &BudgetService{storage: storage}
}

// Create validates and stores a new budget. The new budget always becomes the
// user's active one.
func (s *BudgetService) Create(ctx context.Context, userID int64, name, description string) (core.Budget, error) {
	b := core.Budget{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	created, err := s.storage.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"budget_id", created.ID,
		"user_id", userID,
		"name", created.Name)

	return created, nil
}

func (s *BudgetService) List(ctx context.Context, userID int64) ([]core.Budget, error) {
	return s.storage.ListBudgets(ctx, userID)
}

func (s *BudgetService) Get(ctx context.Context, userID, budgetID int64) (core.Budget, error) {
	return s.storage.GetBudget(ctx, budgetID, userID)
}

// Select makes budgetID the user's active budget. Id 0 is the reserved
// "nothing selected" marker and cannot be selected explicitly; budgets owned
// by other users come back as storage.ErrNotFound.
func (s *BudgetService) Select(ctx context.Context, userID, budgetID int64) error {
	if budgetID <= 0 {
		return ErrInvalidSelection
	}
	if err := s.storage.SetActiveBudget(ctx, userID, budgetID); err != nil {
		return fmt.Errorf("select budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget selected", "budget_id", budgetID, "user_id", userID)
	return nil
}

// Active returns the user's active budget. The bool is false when no budget
// is selected.
func (s *BudgetService) Active(ctx context.Context, userID int64) (core.Budget, bool, error) {
	id, err := s.storage.ActiveBudgetID(ctx, userID)
	if err != nil {
		return core.Budget{}, false, fmt.Errorf("get active budget id: %w", err)
	}
	if id == 0 {
		return core.Budget{}, false, nil
	}

	b, err := s.storage.GetBudget(ctx, id, userID)
	if err != nil {
		return core.Budget{}, false, fmt.Errorf("get active budget: %w", err)
	}
	return b, true, nil
}

// BudgetPatch carries optional budget changes. Nil fields are left as-is.
type BudgetPatch struct {
	Name        *string
	Description *string
}

// Edit applies a partial update to one of the user's budgets.
func (s *BudgetService) Edit(ctx context.Context, userID, budgetID int64, patch BudgetPatch) (core.Budget, error) {
	b, err := s.storage.GetBudget(ctx, budgetID, userID)
	if err != nil {
		return core.Budget{}, err
	}

	if patch.Name != nil {
		b.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		b.Description = strings.TrimSpace(*patch.Description)
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	if err := s.storage.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// Delete removes a budget together with its incomes and expenses. Deleting
// the active budget leaves the user with no selection.
func (s *BudgetService) Delete(ctx context.Context, userID, budgetID int64) error {
	if err := s.storage.DeleteBudget(ctx, budgetID, userID); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget deleted", "budget_id", budgetID, "user_id", userID)
	return nil
}

// activeBudgetID resolves the caller's active budget, failing with
// ErrNoActiveBudget when none is selected.
func activeBudgetID(ctx context.Context, repo *storage.SQLiteRepository, userID int64) (int64, error) {
	id, err := repo.ActiveBudgetID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get active budget id: %w", err)
	}
	if id == 0 {
		return 0, ErrNoActiveBudget
	}
	return id, nil
}
