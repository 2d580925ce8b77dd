package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"groceries", "Groceries"},
		{"  free   time  ", "Free time"},
		{"Bills", "Bills"},
		{"", "Other"},
		{"   ", "Other"},
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.out {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestTransactionNormalizeSign(t *testing.T) {
	exp := Transaction{Type: Expense, Item: "Milk", Amount: decimal.NewFromInt(5)}.Normalize()
	if !exp.Amount.Equal(decimal.NewFromInt(-5)) {
		t.Fatalf("expense amount = %s, want -5", exp.Amount)
	}

	inc := Transaction{Type: Income, Item: "Salary", Amount: decimal.NewFromInt(-100)}.Normalize()
	if !inc.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("income amount = %s, want 100", inc.Amount)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Type: Expense, Item: "Milk", Amount: decimal.NewFromInt(-5)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	cases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"bad type", Transaction{Type: "transfer", Item: "x", Amount: decimal.Zero}, ErrInvalidType},
		{"empty item", Transaction{Type: Income, Item: "  ", Amount: decimal.Zero}, ErrEmptyItem},
		{"income negative", Transaction{Type: Income, Item: "x", Amount: decimal.NewFromInt(-1)}, ErrSignMismatch},
		{"expense positive", Transaction{Type: Expense, Item: "x", Amount: decimal.NewFromInt(1)}, ErrSignMismatch},
	}
	for _, tc := range cases {
		if err := tc.tx.Validate(); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestTransactionLabel(t *testing.T) {
	tx := Transaction{Item: "Milk", Description: "Weekly groceries"}
	if tx.Label() != "Weekly groceries" {
		t.Fatalf("label = %q", tx.Label())
	}
	tx.Description = ""
	if tx.Label() != "Milk" {
		t.Fatalf("label = %q", tx.Label())
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-01-15", true},
		{"2026-01-15T10:30:00Z", true},
		{"2026-01-15T10:30:00", true},
		{"", false},
		{"15/01/2026", false},
		{"soon", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDate(%q): expected error", tc.in)
		}
	}

	d, _ := ParseDate("2026-01-15T23:59:00Z")
	if !d.Equal(NewDate(2026, 1, 15).Time) {
		t.Fatalf("time-of-day not truncated: %v", d)
	}
}

func TestReminderDueBy(t *testing.T) {
	today := NewDate(2026, 3, 10)
	cases := []struct {
		date string
		due  bool
	}{
		{"2026-03-09", true},
		{"2026-03-10", true},
		{"2026-03-11", false},
		{"", false},
		{"not-a-date", false},
	}
	for _, tc := range cases {
		r := ReminderEntry{Name: "rent", Date: tc.date}
		if got := r.DueBy(today); got != tc.due {
			t.Fatalf("DueBy(%q) = %v, want %v", tc.date, got, tc.due)
		}
	}
}

func TestExpenseLike(t *testing.T) {
	for _, in := range []int64{5, -5, 0} {
		got := ExpenseLike(decimal.NewFromInt(in))
		if got.IsPositive() {
			t.Fatalf("ExpenseLike(%d) = %s, want non-positive", in, got)
		}
	}
	if !ExpenseLike(decimal.NewFromInt(7)).Equal(decimal.NewFromInt(-7)) {
		t.Fatalf("ExpenseLike(7) should be -7")
	}
}
