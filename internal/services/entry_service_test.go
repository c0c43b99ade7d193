package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/storage"
)

func TestEntryService_AddIncomeNormalizes(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "alice")

	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name      string
		amount    string
		payPeriod string
		wantCents int64
	}{
		{"weekly paycheck", "500", "weekly", 216667},
		{"bi-weekly paycheck", "1000", "bi_weekly", 216667},
		{"semi-monthly paycheck", "1200", "semi_monthly", 240000},
		{"monthly passthrough", "2500", "monthly", 250000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income, err := entries.AddIncome(ctx, user.ID, AddIncomeInput{
				Description: "Paycheck",
				Amount:      tt.amount,
				PayPeriod:   tt.payPeriod,
			})
			if err != nil {
				t.Fatalf("AddIncome() error = %v", err)
			}
			if income.MonthlyAmount.Cents != tt.wantCents {
				t.Errorf("MonthlyAmount = %d cents, want %d", income.MonthlyAmount.Cents, tt.wantCents)
			}
		})
	}
}

func TestEntryService_AddIncomeRequiresActiveBudget(t *testing.T) {
	repo := newTestRepo(t)
	entries := NewEntryService(repo)
	user := newTestUser(t, repo, "bob")

	_, err := entries.AddIncome(context.Background(), user.ID, AddIncomeInput{
		Description: "Paycheck",
		Amount:      "500",
		PayPeriod:   "weekly",
	})
	if !errors.Is(err, ErrNoActiveBudget) {
		t.Errorf("AddIncome() error = %v, want ErrNoActiveBudget", err)
	}
}

func TestEntryService_AddIncomeInvalidInput(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "carol")
	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		in      AddIncomeInput
		wantErr error
	}{
		{"zero amount", AddIncomeInput{Description: "x", Amount: "0", PayPeriod: "weekly"}, core.ErrInvalidAmount},
		{"negative amount", AddIncomeInput{Description: "x", Amount: "-5", PayPeriod: "weekly"}, core.ErrInvalidAmount},
		{"garbage amount", AddIncomeInput{Description: "x", Amount: "abc", PayPeriod: "weekly"}, core.ErrInvalidAmount},
		{"bad period", AddIncomeInput{Description: "x", Amount: "500", PayPeriod: "fortnightly"}, core.ErrInvalidPayPeriod},
		{"empty description", AddIncomeInput{Description: "  ", Amount: "500", PayPeriod: "weekly"}, core.ErrEmptyDescription},
		{"bad tax percent", AddIncomeInput{Description: "x", Amount: "500", PayPeriod: "weekly", TaxPercent: 120}, core.ErrInvalidTaxPercent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := entries.AddIncome(ctx, user.ID, tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddIncome() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryService_EditIncomeRenormalizes(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "dave")
	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}

	income, err := entries.AddIncome(ctx, user.ID, AddIncomeInput{
		Description: "Paycheck",
		Amount:      "500",
		PayPeriod:   "weekly",
	})
	if err != nil {
		t.Fatalf("AddIncome() error = %v", err)
	}

	amount, period := "1200", "semi_monthly"
	updated, err := entries.EditIncome(ctx, user.ID, income.ID, IncomePatch{
		Amount:    &amount,
		PayPeriod: &period,
	})
	if err != nil {
		t.Fatalf("EditIncome() error = %v", err)
	}
	if updated.MonthlyAmount.Cents != 240000 {
		t.Errorf("MonthlyAmount = %d cents, want 240000", updated.MonthlyAmount.Cents)
	}
	if updated.Description != "Paycheck" {
		t.Errorf("Description = %q, want untouched original", updated.Description)
	}

	// Amount without a pay period cannot be renormalized.
	if _, err := entries.EditIncome(ctx, user.ID, income.ID, IncomePatch{Amount: &amount}); !errors.Is(err, core.ErrInvalidPayPeriod) {
		t.Errorf("EditIncome() error = %v, want ErrInvalidPayPeriod", err)
	}
}

func TestEntryService_AddExpenseDueDayRules(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "erin")
	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		in      AddExpenseInput
		wantErr error
	}{
		{
			name: "monthly bill with due day",
			in:   AddExpenseInput{Description: "Rent", Amount: "1200", Category: "housing", Type: "monthly_bill", DueDay: 1},
		},
		{
			name:    "monthly bill without due day",
			in:      AddExpenseInput{Description: "Rent", Amount: "1200", Category: "housing", Type: "monthly_bill"},
			wantErr: core.ErrDueDayRequired,
		},
		{
			name:    "monthly bill due day out of range",
			in:      AddExpenseInput{Description: "Rent", Amount: "1200", Category: "housing", Type: "monthly_bill", DueDay: 31},
			wantErr: core.ErrInvalidDueDay,
		},
		{
			name: "one time without due day",
			in:   AddExpenseInput{Description: "Shoes", Amount: "80", Category: "shopping", Type: "one_time"},
		},
		{
			name:    "unknown category",
			in:      AddExpenseInput{Description: "Thing", Amount: "10", Category: "misc", Type: "one_time"},
			wantErr: core.ErrInvalidCategory,
		},
		{
			name:    "unknown type",
			in:      AddExpenseInput{Description: "Thing", Amount: "10", Category: "other", Type: "recurring"},
			wantErr: core.ErrInvalidExpenseType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entries.AddExpense(ctx, user.ID, tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("AddExpense() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddExpense() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryService_EditExpensePartialPatch(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "frank")
	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}

	expense, err := entries.AddExpense(ctx, user.ID, AddExpenseInput{
		Description: "Internet",
		Amount:      "50",
		Category:    "utility",
		Type:        "monthly_bill",
		DueDay:      12,
	})
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	amount := "65.50"
	updated, err := entries.EditExpense(ctx, user.ID, expense.ID, ExpensePatch{Amount: &amount})
	if err != nil {
		t.Fatalf("EditExpense() error = %v", err)
	}
	if updated.Amount.Cents != 6550 {
		t.Errorf("Amount = %d cents, want 6550", updated.Amount.Cents)
	}
	if updated.Description != "Internet" || updated.DueDay != 12 {
		t.Errorf("unpatched fields changed: %+v", updated)
	}

	// Switching to one-time drops the due day.
	oneTime := "one_time"
	updated, err = entries.EditExpense(ctx, user.ID, expense.ID, ExpensePatch{Type: &oneTime})
	if err != nil {
		t.Fatalf("EditExpense() error = %v", err)
	}
	if updated.DueDay != 0 {
		t.Errorf("DueDay = %d after switch to one-time, want 0", updated.DueDay)
	}
}

func TestEntryService_ScopedToActiveBudget(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "gina")

	first, _ := budgets.Create(ctx, user.ID, "First", "")
	expense, err := entries.AddExpense(ctx, user.ID, AddExpenseInput{
		Description: "Coffee", Amount: "4.50", Category: "other", Type: "one_time",
	})
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	// A second budget takes over the selection; the old expense is out of reach.
	if _, err := budgets.Create(ctx, user.ID, "Second", ""); err != nil {
		t.Fatal(err)
	}
	if err := entries.DeleteExpense(ctx, user.ID, expense.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteExpense() from other budget error = %v, want ErrNotFound", err)
	}

	// Back on the first budget it is reachable again.
	if err := budgets.Select(ctx, user.ID, first.ID); err != nil {
		t.Fatal(err)
	}
	if err := entries.DeleteExpense(ctx, user.ID, expense.ID); err != nil {
		t.Errorf("DeleteExpense() error = %v", err)
	}
}

func TestEntryService_ListExpensesFiltered(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "henry")
	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}

	seed := []AddExpenseInput{
		{Description: "Rent", Amount: "1200", Category: "housing", Type: "monthly_bill", DueDay: 1},
		{Description: "Shoes", Amount: "80", Category: "shopping", Type: "one_time"},
		{Description: "Power", Amount: "60", Category: "utility", Type: "monthly_bill", DueDay: 15},
	}
	for _, in := range seed {
		in.TransactionDate = time.Now()
		if _, err := entries.AddExpense(ctx, user.ID, in); err != nil {
			t.Fatalf("AddExpense(%q) error = %v", in.Description, err)
		}
	}

	bills, err := entries.ListExpenses(ctx, user.ID, storage.ExpenseFilter{Type: core.TypeMonthlyBill})
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(bills) != 2 {
		t.Errorf("filtered list = %d expenses, want 2", len(bills))
	}
}
