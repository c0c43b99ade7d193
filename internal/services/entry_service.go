package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/storage"
)

// EntryService manages incomes and expenses inside the caller's active budget.
type EntryService struct {
	storage *storage.SQLiteRepository
}

func NewEntryService(storage *storage.SQLiteRepository) *EntryService {
	return &EntryService{storage: storage}
}

// AddIncomeInput is a raw income submission. Amount is the per-paycheck
// amount as entered; it is normalized to a monthly figure before storage.
type AddIncomeInput struct {
	Description string
	Amount      string
	PayPeriod   string
	TaxPercent  float64
}

// AddIncome normalizes and stores an income in the active budget.
func (s *EntryService) AddIncome(ctx context.Context, userID int64, in AddIncomeInput) (core.Income, error) {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return core.Income{}, err
	}

	monthly, err := normalizeIncomeAmount(in.Amount, in.PayPeriod)
	if err != nil {
		return core.Income{}, err
	}

	income := core.Income{
		BudgetID:      budgetID,
		Description:   strings.TrimSpace(in.Description),
		MonthlyAmount: monthly,
		TaxPercent:    in.TaxPercent,
	}
	if err := income.Validate(); err != nil {
		return core.Income{}, err
	}

	created, err := s.storage.CreateIncome(ctx, income)
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income added",
		"income_id", created.ID,
		"budget_id", budgetID,
		"amount_cents", created.MonthlyAmount.Cents)

	return created, nil
}

// IncomePatch carries optional income changes. Amount and PayPeriod travel
// together so the monthly figure can be renormalized.
type IncomePatch struct {
	Description *string
	Amount      *string
	PayPeriod   *string
	TaxPercent  *float64
}

func (s *EntryService) EditIncome(ctx context.Context, userID, incomeID int64, patch IncomePatch) (core.Income, error) {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return core.Income{}, err
	}

	income, err := s.storage.GetIncome(ctx, incomeID, budgetID)
	if err != nil {
		return core.Income{}, err
	}

	if patch.Description != nil {
		income.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		if patch.PayPeriod == nil {
			return core.Income{}, core.ErrInvalidPayPeriod
		}
		income.MonthlyAmount, err = normalizeIncomeAmount(*patch.Amount, *patch.PayPeriod)
		if err != nil {
			return core.Income{}, err
		}
	}
	if patch.TaxPercent != nil {
		income.TaxPercent = *patch.TaxPercent
	}
	if err := income.Validate(); err != nil {
		return core.Income{}, err
	}

	if err := s.storage.UpdateIncome(ctx, income); err != nil {
		return core.Income{}, fmt.Errorf("update income: %w", err)
	}
	return income, nil
}

func (s *EntryService) DeleteIncome(ctx context.Context, userID, incomeID int64) error {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteIncome(ctx, incomeID, budgetID); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}

	slog.InfoContext(ctx, "Income deleted", "income_id", incomeID, "budget_id", budgetID)
	return nil
}

func (s *EntryService) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return nil, err
	}
	return s.storage.ListIncomes(ctx, budgetID)
}

// AddExpenseInput is a raw expense submission.
type AddExpenseInput struct {
	Description     string
	Amount          string
	Category        string
	Type            string
	DueDay          int
	TransactionDate time.Time
}

// AddExpense validates and stores an expense in the active budget.
func (s *EntryService) AddExpense(ctx context.Context, userID int64, in AddExpenseInput) (core.Expense, error) {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return core.Expense{}, err
	}

	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ParseCategory(in.Category)
	if err != nil {
		return core.Expense{}, err
	}
	expenseType, err := core.ParseExpenseType(in.Type)
	if err != nil {
		return core.Expense{}, err
	}

	date := in.TransactionDate
	if date.IsZero() {
		date = time.Now()
	}

	expense := core.Expense{
		BudgetID:        budgetID,
		Description:     strings.TrimSpace(in.Description),
		Amount:          amount,
		Category:        category,
		Type:            expenseType,
		DueDay:          in.DueDay,
		TransactionDate: date,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.storage.CreateExpense(ctx, expense)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense added",
		"expense_id", created.ID,
		"budget_id", budgetID,
		"category", created.Category,
		"amount_cents", created.Amount.Cents)

	return created, nil
}

// ExpensePatch carries optional expense changes. Nil fields are left as-is.
type ExpensePatch struct {
	Description     *string
	Amount          *string
	Category        *string
	Type            *string
	DueDay          *int
	TransactionDate *time.Time
}

func (s *EntryService) EditExpense(ctx context.Context, userID, expenseID int64, patch ExpensePatch) (core.Expense, error) {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return core.Expense{}, err
	}

	expense, err := s.storage.GetExpense(ctx, expenseID, budgetID)
	if err != nil {
		return core.Expense{}, err
	}

	if patch.Description != nil {
		expense.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		expense.Amount, err = core.ParseAmount(*patch.Amount)
		if err != nil {
			return core.Expense{}, err
		}
	}
	if patch.Category != nil {
		expense.Category, err = core.ParseCategory(*patch.Category)
		if err != nil {
			return core.Expense{}, err
		}
	}
	if patch.Type != nil {
		expense.Type, err = core.ParseExpenseType(*patch.Type)
		if err != nil {
			return core.Expense{}, err
		}
		// Switching to one-time clears the due day unless a new one
		// arrives in the same patch.
		if expense.Type == core.TypeOneTime && patch.DueDay == nil {
			expense.DueDay = 0
		}
	}
	if patch.DueDay != nil {
		expense.DueDay = *patch.DueDay
	}
	if patch.TransactionDate != nil {
		expense.TransactionDate = *patch.TransactionDate
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.storage.UpdateExpense(ctx, expense); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

func (s *EntryService) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteExpense(ctx, expenseID, budgetID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", expenseID, "budget_id", budgetID)
	return nil
}

func (s *EntryService) ListExpenses(ctx context.Context, userID int64, filter storage.ExpenseFilter) ([]core.Expense, error) {
	budgetID, err := activeBudgetID(ctx, s.storage, userID)
	if err != nil {
		return nil, err
	}
	return s.storage.ListExpenses(ctx, budgetID, filter)
}

func normalizeIncomeAmount(amount, payPeriod string) (core.Money, error) {
	raw, err := core.ParseAmount(amount)
	if err != nil {
		return core.Money{}, err
	}
	period, err := core.ParsePayPeriod(payPeriod)
	if err != nil {
		return core.Money{}, err
	}
	return core.NormalizeMonthly(period, raw)
}
