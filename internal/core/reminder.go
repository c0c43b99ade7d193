package core

import (
	"fmt"
	"time"
)

// Reminder windows, in days relative to the due date.
const (
	upcomingWindow = 5  // 0 <= delta < 5 flags an upcoming bill
	overdueWindow  = -3 // -3 < delta < 0 flags a recently missed bill
)

// DueReminder derives the reminder text for a monthly bill's due day.
//
// The due date is built inside today's calendar month; a bill due early next
// month is deliberately not flagged near month-end. dueDay 0 means the
// expense has no due day and always yields "".
func DueReminder(dueDay int, today time.Time) string {
	if dueDay <= 0 {
		return ""
	}
	// Both dates live in the same month, so the delta is plain day
	// arithmetic. Subtracting wall-clock times instead would come up a
	// day short whenever a DST transition falls inside the window.
	delta := dueDay - today.Day()

	switch {
	case delta >= 0 && delta < upcomingWindow:
		return fmt.Sprintf("Due in %d day/s!", delta)
	case delta < 0 && delta > overdueWindow:
		return fmt.Sprintf("Passed due date from %d day/s!", delta)
	default:
		return ""
	}
}
