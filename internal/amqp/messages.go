package amqp

import (
	"encoding/json"
	"time"
)

// BillReminderMessage notifies downstream consumers that a monthly bill is
// due soon. It carries enough to render a notification without a database
// round trip.
type BillReminderMessage struct {
	UserID      int64     `json:"user_id"`
	ExpenseID   int64     `json:"expense_id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	DueDay      int       `json:"due_day"`
	Reminder    string    `json:"reminder"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBillReminderMessage builds a reminder message stamped with the current time.
func NewBillReminderMessage(userID, expenseID int64, description string, amountCents int64, dueDay int, reminder string) *BillReminderMessage {
	return &BillReminderMessage{
		UserID:      userID,
		ExpenseID:   expenseID,
		Description: description,
		AmountCents: amountCents,
		DueDay:      dueDay,
		Reminder:    reminder,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillReminderMessageFromJSON creates a message from JSON bytes.
func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
