package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionAdded   = "transaction.added"
	EventTransactionDeleted = "transaction.deleted"
)

// TransactionEvent is the envelope published for every ledger mutation.
// The amount travels as a decimal string so no precision is lost on the
// wire; Date is the transaction's calendar date in YYYY-MM-DD.
type TransactionEvent struct {
	Event       string    `json:"event"`
	ID          int64     `json:"id"`
	Type        string    `json:"type,omitempty"`
	Item        string    `json:"item,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	Date        string    `json:"date,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
