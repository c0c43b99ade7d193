package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgeteer/internal/amqp"
)

func TestReportService_CategoryBreakdownPlaceholder(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	reports := NewReportService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "alice")

	budget, err := budgets.Create(ctx, user.ID, "Main", "")
	if err != nil {
		t.Fatal(err)
	}

	slices, placeholder, err := reports.CategoryBreakdown(ctx, budget.ID, time.Now())
	if err != nil {
		t.Fatalf("CategoryBreakdown() error = %v", err)
	}
	if !placeholder {
		t.Error("expected placeholder fallback for empty month")
	}
	want := []PieSlice{{"ex1", 5}, {"ex2", 10}, {"ex3", 3}}
	if len(slices) != len(want) {
		t.Fatalf("slices = %v, want %v", slices, want)
	}
	for i := range want {
		if slices[i] != want[i] {
			t.Errorf("slice[%d] = %v, want %v", i, slices[i], want[i])
		}
	}
}

func TestReportService_CategoryBreakdownRealData(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	reports := NewReportService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "bob")

	budget, err := budgets.Create(ctx, user.ID, "Main", "")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	seed := []AddExpenseInput{
		{Description: "Rent", Amount: "1200", Category: "housing", Type: "monthly_bill", DueDay: 1, TransactionDate: now},
		{Description: "Repairs", Amount: "300", Category: "housing", Type: "one_time", TransactionDate: now},
		{Description: "Shoes", Amount: "80", Category: "shopping", Type: "one_time", TransactionDate: now},
	}
	for _, in := range seed {
		if _, err := entries.AddExpense(ctx, user.ID, in); err != nil {
			t.Fatalf("AddExpense(%q) error = %v", in.Description, err)
		}
	}

	slices, placeholder, err := reports.CategoryBreakdown(ctx, budget.ID, now)
	if err != nil {
		t.Fatalf("CategoryBreakdown() error = %v", err)
	}
	if placeholder {
		t.Error("placeholder used despite real expenses")
	}

	byLabel := map[string]float64{}
	for _, s := range slices {
		byLabel[s.Label] = s.Value
	}
	if byLabel["Housing"] != 1500 {
		t.Errorf("Housing = %v, want 1500", byLabel["Housing"])
	}
	if byLabel["Shopping"] != 80 {
		t.Errorf("Shopping = %v, want 80", byLabel["Shopping"])
	}
}

func TestReportService_Dashboard(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	reports := NewReportService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "carol")

	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}

	if _, err := entries.AddIncome(ctx, user.ID, AddIncomeInput{
		Description: "Salary", Amount: "500", PayPeriod: "weekly", TaxPercent: 15,
	}); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	if _, err := entries.AddExpense(ctx, user.ID, AddExpenseInput{
		Description: "Internet", Amount: "50", Category: "utility", Type: "monthly_bill",
		DueDay: 12, TransactionDate: now,
	}); err != nil {
		t.Fatal(err)
	}

	overview, err := reports.Dashboard(ctx, user.ID, now)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	if overview.GrossMonthly.Cents != 216667 {
		t.Errorf("GrossMonthly = %d cents, want 216667", overview.GrossMonthly.Cents)
	}
	if overview.NetMonthly.Cents != 184167 {
		t.Errorf("NetMonthly = %d cents, want 184167", overview.NetMonthly.Cents)
	}
	if overview.MonthSpending.Cents != 5000 {
		t.Errorf("MonthSpending = %d cents, want 5000", overview.MonthSpending.Cents)
	}
	if overview.Placeholder {
		t.Error("placeholder used despite real expenses")
	}
	if len(overview.Expenses) != 1 {
		t.Fatalf("Expenses = %d rows, want 1", len(overview.Expenses))
	}
	if overview.Expenses[0].Reminder != "Due in 2 day/s!" {
		t.Errorf("Reminder = %q, want %q", overview.Expenses[0].Reminder, "Due in 2 day/s!")
	}
	if len(overview.History) != 1 || overview.History[0].Label != "2024-03" {
		t.Errorf("History = %v, want one 2024-03 point", overview.History)
	}
}

func TestReportService_DashboardRequiresActiveBudget(t *testing.T) {
	repo := newTestRepo(t)
	reports := NewReportService(repo)
	user := newTestUser(t, repo, "dave")

	if _, err := reports.Dashboard(context.Background(), user.ID, time.Now()); !errors.Is(err, ErrNoActiveBudget) {
		t.Errorf("Dashboard() error = %v, want ErrNoActiveBudget", err)
	}
}

type fakePublisher struct {
	published []*amqp.BillReminderMessage
	err       error
}

func (f *fakePublisher) PublishBillReminder(_ context.Context, msg *amqp.BillReminderMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func TestReminderService_Scan(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "erin")
	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}

	seed := []AddExpenseInput{
		{Description: "Internet", Amount: "50", Category: "utility", Type: "monthly_bill", DueDay: 12},
		{Description: "Rent", Amount: "1200", Category: "housing", Type: "monthly_bill", DueDay: 25},
		{Description: "Gym", Amount: "30", Category: "medical", Type: "monthly_bill", DueDay: 8},
		{Description: "Shoes", Amount: "80", Category: "shopping", Type: "one_time"},
	}
	for _, in := range seed {
		if _, err := entries.AddExpense(ctx, user.ID, in); err != nil {
			t.Fatalf("AddExpense(%q) error = %v", in.Description, err)
		}
	}

	pub := &fakePublisher{}
	svc := NewReminderService(repo, pub)

	// March 10th: the internet bill (day 12) is inside the upcoming window,
	// rent (day 25) is not, and the gym bill (day 8) is already past due.
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	published, err := svc.Scan(ctx, now)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if published != 1 {
		t.Fatalf("Scan() published = %d, want 1", published)
	}
	msg := pub.published[0]
	if msg.Description != "Internet" || msg.Reminder != "Due in 2 day/s!" {
		t.Errorf("published message = %+v", msg)
	}
	if msg.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", msg.UserID, user.ID)
	}
}

func TestReminderService_ScanPublishFailureSkips(t *testing.T) {
	repo := newTestRepo(t)
	budgets := NewBudgetService(repo)
	entries := NewEntryService(repo)
	ctx := context.Background()
	user := newTestUser(t, repo, "frank")
	if _, err := budgets.Create(ctx, user.ID, "Main", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := entries.AddExpense(ctx, user.ID, AddExpenseInput{
		Description: "Internet", Amount: "50", Category: "utility", Type: "monthly_bill", DueDay: 12,
	}); err != nil {
		t.Fatal(err)
	}

	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewReminderService(repo, pub)

	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	published, err := svc.Scan(ctx, now)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if published != 0 {
		t.Errorf("Scan() published = %d, want 0 on publish failure", published)
	}
}
