package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgeteer/internal/amqp"
	"budgeteer/internal/core"
	"budgeteer/internal/storage"
)

// ReminderPublisher pushes bill reminder messages to the broker.
type ReminderPublisher interface {
	PublishBillReminder(ctx context.Context, msg *amqp.BillReminderMessage) error
}

// ReminderService scans monthly bills and publishes a message for every one
// whose due date is coming up.
type ReminderService struct {
	storage   *storage.SQLiteRepository
	publisher ReminderPublisher
}

func NewReminderService(storage *storage.SQLiteRepository, publisher ReminderPublisher) *ReminderService {
	return &ReminderService{storage: storage, publisher: publisher}
}

// Scan walks all monthly bills and publishes reminders for the ones due
// within the upcoming window. It returns how many reminders were published.
// Publish failures are logged and skipped so one broken message does not
// starve the rest of the scan.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) (int, error) {
	bills, err := s.storage.ListMonthlyBills(ctx)
	if err != nil {
		return 0, fmt.Errorf("list monthly bills: %w", err)
	}

	published := 0
	for _, bill := range bills {
		reminder := core.DueReminder(bill.DueDay, now)
		if !strings.HasPrefix(reminder, "Due in") {
			continue
		}

		if s.publisher == nil {
			slog.WarnContext(ctx, "No publisher configured, skipping reminder",
				"expense_id", bill.ExpenseID)
			continue
		}

		msg := amqp.NewBillReminderMessage(bill.UserID, bill.ExpenseID,
			bill.Description, bill.Amount.Cents, bill.DueDay, reminder)
		if err := s.publisher.PublishBillReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"expense_id", bill.ExpenseID,
				"error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Reminder scan completed",
		"bills", len(bills),
		"published", published)

	return published, nil
}
