package core

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestDueReminder(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		dueDay int
		want   string
	}{
		{
			name:   "no due day",
			dueDay: 0,
			want:   "",
		},
		{
			name:   "due in two days",
			dueDay: 12,
			want:   "Due in 2 day/s!",
		},
		{
			name:   "due today",
			dueDay: 10,
			want:   "Due in 0 day/s!",
		},
		{
			name:   "edge of upcoming window",
			dueDay: 14,
			want:   "Due in 4 day/s!",
		},
		{
			name:   "just outside upcoming window",
			dueDay: 15,
			want:   "",
		},
		{
			name:   "two days overdue",
			dueDay: 8,
			want:   "Passed due date from -2 day/s!",
		},
		{
			name:   "outside overdue window",
			dueDay: 7,
			want:   "",
		},
		{
			name:   "far in the future",
			dueDay: 20,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueReminder(tt.dueDay, today); got != tt.want {
				t.Errorf("DueReminder(%d) = %q, want %q", tt.dueDay, got, tt.want)
			}
		})
	}
}

// A bill due on the 2nd is not flagged from the 30th of the prior month; the
// due date is always built inside the current calendar month.
func TestDueReminder_NoMonthBoundaryLookahead(t *testing.T) {
	endOfMonth := time.Date(2024, 3, 30, 9, 0, 0, 0, time.UTC)
	if got := DueReminder(2, endOfMonth); got != "" {
		t.Errorf("DueReminder(2) near month end = %q, want empty", got)
	}
}

// Clocks spring forward on March 10th in this zone, so the 12th is only
// 119 wall-clock hours away from the 8th. The reminder counts calendar
// days, not elapsed hours.
func TestDueReminder_AcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	today := time.Date(2024, 3, 8, 9, 0, 0, 0, loc)

	if got := DueReminder(12, today); got != "Due in 4 day/s!" {
		t.Errorf("DueReminder(12) = %q, want %q", got, "Due in 4 day/s!")
	}
	if got := DueReminder(13, today); got != "" {
		t.Errorf("DueReminder(13) = %q, want empty just outside the window", got)
	}
}
