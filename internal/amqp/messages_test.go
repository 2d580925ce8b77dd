package amqp

import (
	"testing"
	"time"
)

func TestTransactionEventRoundTrip(t *testing.T) {
	msg := &TransactionEvent{
		Event:     EventTransactionAdded,
		ID:        1700000000000,
		Type:      "expense",
		Item:      "Milk",
		Category:  "Groceries",
		Amount:    "-5.25",
		Date:      "2026-03-10",
		Timestamp: time.Now(),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	got, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if got.Event != EventTransactionAdded || got.ID != msg.ID {
		t.Fatalf("envelope mismatch: %+v", got)
	}
	if got.Amount != "-5.25" {
		t.Fatalf("amount must survive as exact string, got %q", got.Amount)
	}
}

func TestTransactionEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{oops")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
