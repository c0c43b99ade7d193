package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgeteer/internal/amqp"
	"budgeteer/internal/config"
	"budgeteer/internal/export"
	"budgeteer/internal/export/google"
	"budgeteer/internal/log"
	"budgeteer/internal/services"
	"budgeteer/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentReminder})
	log.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Monthly report export is optional; skipped without a spreadsheet id.
	var reportWriter export.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := google.NewClient(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleReportSheet)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		reportWriter = sheets
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	reminders := services.NewReminderService(repo, amqpClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Drain the queue and record deliveries. Notification channels (mail,
	// push) hook in here.
	go func() {
		err := amqpClient.ConsumeBillReminders(ctx, func(msg *amqp.BillReminderMessage) error {
			logger.Info("Bill reminder delivered",
				"user_id", msg.UserID,
				"expense_id", msg.ExpenseID,
				"description", msg.Description,
				"reminder", msg.Reminder)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("Reminder consumption stopped", "error", err)
		}
	}()

	runScan(ctx, logger, reminders, repo, reportWriter)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			return
		case <-ticker.C:
			runScan(ctx, logger, reminders, repo, reportWriter)
		}
	}
}

func runScan(ctx context.Context, logger *log.Logger, reminders *services.ReminderService, repo *storage.SQLiteRepository, reportWriter export.ReportWriter) {
	now := time.Now()

	published, err := reminders.Scan(ctx, now)
	if err != nil {
		logger.Error("Reminder scan failed", "error", err)
	} else {
		logger.Info("Reminder scan complete", "published", published)
	}

	if reportWriter != nil {
		if err := exportMonthlyReports(ctx, repo, reportWriter, now); err != nil {
			logger.Error("Monthly report export failed", "error", err)
		}
	}
}

// exportMonthlyReports appends each user's active-budget spending for the
// current month to the configured sheet.
func exportMonthlyReports(ctx context.Context, repo *storage.SQLiteRepository, w export.ReportWriter, now time.Time) error {
	rows, err := repo.MonthlyReports(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	reports := make([]export.MonthlyReport, len(rows))
	for i, row := range rows {
		reports[i] = export.MonthlyReport{
			Username:   row.Username,
			BudgetName: row.BudgetName,
			Year:       row.Year,
			Month:      row.Month,
			Total:      row.Total,
		}
	}
	return w.AppendReports(ctx, reports)
}
