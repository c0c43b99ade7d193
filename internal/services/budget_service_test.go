package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"budgeteer/internal/core"
	"budgeteer/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestUser(t *testing.T, repo *storage.SQLiteRepository, username string) core.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func TestBudgetService_CreateSelectsNewBudget(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewBudgetService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "alice")

	first, err := svc.Create(ctx, user.ID, "Groceries", "weekly shop")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	active, ok, err := svc.Active(ctx, user.ID)
	if err != nil || !ok {
		t.Fatalf("Active() = %v, %v, %v", active, ok, err)
	}
	if active.ID != first.ID {
		t.Errorf("active budget = %d, want %d", active.ID, first.ID)
	}

	second, err := svc.Create(ctx, user.ID, "Vacation", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	active, _, err = svc.Active(ctx, user.ID)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active budget = %d, want newest %d", active.ID, second.ID)
	}
}

func TestBudgetService_CreateRejectsEmptyName(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewBudgetService(repo)
	user := newTestUser(t, repo, "bob")

	if _, err := svc.Create(context.Background(), user.ID, "   ", ""); !errors.Is(err, core.ErrEmptyBudgetName) {
		t.Errorf("Create() error = %v, want ErrEmptyBudgetName", err)
	}
}

func TestBudgetService_SelectRejectsZero(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewBudgetService(repo)
	user := newTestUser(t, repo, "carol")

	if err := svc.Select(context.Background(), user.ID, 0); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("Select(0) error = %v, want ErrInvalidSelection", err)
	}
	if err := svc.Select(context.Background(), user.ID, -3); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("Select(-3) error = %v, want ErrInvalidSelection", err)
	}
}

func TestBudgetService_SelectRejectsForeignBudget(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewBudgetService(repo)
	ctx := context.Background()
	alice := newTestUser(t, repo, "alice")
	mallory := newTestUser(t, repo, "mallory")

	budget, err := svc.Create(ctx, alice.ID, "Private", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Select(ctx, mallory.ID, budget.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Select() error = %v, want ErrNotFound", err)
	}
}

func TestBudgetService_SwitchBetweenBudgets(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewBudgetService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "dave")

	first, _ := svc.Create(ctx, user.ID, "First", "")
	second, _ := svc.Create(ctx, user.ID, "Second", "")

	if err := svc.Select(ctx, user.ID, first.ID); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	active, _, _ := svc.Active(ctx, user.ID)
	if active.ID != first.ID {
		t.Errorf("active = %d, want %d", active.ID, first.ID)
	}

	if err := svc.Select(ctx, user.ID, second.ID); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	active, _, _ = svc.Active(ctx, user.ID)
	if active.ID != second.ID {
		t.Errorf("active = %d, want %d", active.ID, second.ID)
	}
}

func TestBudgetService_DeleteActiveClearsSelection(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewBudgetService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "erin")

	budget, err := svc.Create(ctx, user.ID, "Doomed", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, user.ID, budget.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, ok, err := svc.Active(ctx, user.ID)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if ok {
		t.Error("expected no active budget after deleting the selected one")
	}
}

func TestBudgetService_Edit(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewBudgetService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "frank")

	budget, err := svc.Create(ctx, user.ID, "Old name", "old description")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newName := "New name"
	updated, err := svc.Edit(ctx, user.ID, budget.ID, BudgetPatch{Name: &newName})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if updated.Name != "New name" {
		t.Errorf("Name = %q, want %q", updated.Name, "New name")
	}
	if updated.Description != "old description" {
		t.Errorf("Description = %q, want untouched original", updated.Description)
	}

	empty := " "
	if _, err := svc.Edit(ctx, user.ID, budget.ID, BudgetPatch{Name: &empty}); !errors.Is(err, core.ErrEmptyBudgetName) {
		t.Errorf("Edit() with blank name error = %v, want ErrEmptyBudgetName", err)
	}
}
