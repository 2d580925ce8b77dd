package core

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func init() {
	// The persisted file and the API carry amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	// ReminderType marks scheduled entries that have not been committed yet.
	ReminderType = "reminder"

	// DefaultCategory is used when a transaction arrives without a category.
	DefaultCategory = "Other"
)

type (
	TransactionType string

	// Date is a calendar date. Time-of-day is truncated for comparisons.
	Date struct {
		time.Time
	}

	// Transaction is a committed money event in the ledger.
	// Income amounts are non-negative, expense amounts non-positive;
	// the sign always agrees with the type.
	Transaction struct {
		ID          int64           `json:"id"`
		Type        TransactionType `json:"type"`
		Item        string          `json:"item,omitempty"`
		Description string          `json:"description,omitempty"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Date        Date            `json:"date"`
	}

	// ReminderEntry is a scheduled, not-yet-committed entry.
	// Date is kept as the raw string the client sent; a malformed or
	// empty date simply keeps the entry pending forever.
	ReminderEntry struct {
		ID           string          `json:"id"`
		Date         string          `json:"date"`
		Category     string          `json:"category"`
		Name         string          `json:"name"`
		Amount       decimal.Decimal `json:"amount"`
		Type         string          `json:"type"`
		PromotedTxID int64           `json:"promotedTxId,omitempty"`
	}
)

var (
	ErrInvalidType   = errors.New("type must be income or expense")
	ErrEmptyItem     = errors.New("item/description is required")
	ErrSignMismatch  = errors.New("amount sign does not match transaction type")
	ErrEmptyReminder = errors.New("reminder name is required")
	ErrInvalidBudget = errors.New("budget limit must be a non-negative number")

	// ErrNotFound is returned by lookups; deletions treat it as a no-op.
	ErrNotFound = errors.New("not found")

	// ErrPersistence wraps durable-storage failures so callers can
	// distinguish them from validation problems.
	ErrPersistence = errors.New("persistence failure")
)

// dateLayouts are accepted on input; output is always dateLayout.
const dateLayout = "2006-01-02"

var dateLayouts = []string{dateLayout, time.RFC3339, "2006-01-02T15:04:05"}

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a calendar date, accepting YYYY-MM-DD as well as
// timestamps whose time-of-day is discarded.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, errors.New("unrecognized date format: " + s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// BeforeOrEqual compares calendar dates ignoring time-of-day.
func (d Date) BeforeOrEqual(other Date) bool {
	return !DateOf(d.Time).After(DateOf(other.Time).Time)
}

// AfterOrEqual compares calendar dates ignoring time-of-day.
func (d Date) AfterOrEqual(other Date) bool {
	return !DateOf(d.Time).Before(DateOf(other.Time).Time)
}

// Label returns the display text of a transaction, preferring the
// description over the short item name.
func (t Transaction) Label() string {
	if s := strings.TrimSpace(t.Description); s != "" {
		return s
	}
	return strings.TrimSpace(t.Item)
}

// Normalize returns a copy ready for storage: category cleaned up and
// the amount sign forced to agree with the type. The caller supplies a
// magnitude; income becomes non-negative, expense non-positive.
func (t Transaction) Normalize() Transaction {
	t.Category = NormalizeCategory(t.Category)
	switch t.Type {
	case Income:
		t.Amount = t.Amount.Abs()
	case Expense:
		t.Amount = t.Amount.Abs().Neg()
	}
	return t
}

func (t Transaction) Validate() error {
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if t.Label() == "" {
		return ErrEmptyItem
	}
	if t.Type == Income && t.Amount.IsNegative() {
		return ErrSignMismatch
	}
	if t.Type == Expense && t.Amount.IsPositive() {
		return ErrSignMismatch
	}
	return nil
}

func (r ReminderEntry) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyReminder
	}
	return nil
}

// DueBy reports whether the reminder's scheduled date has arrived.
// Entries with a missing or malformed date are never due.
func (r ReminderEntry) DueBy(today Date) bool {
	d, err := ParseDate(r.Date)
	if err != nil {
		return false
	}
	return d.BeforeOrEqual(today)
}

// NormalizeCategory trims, collapses internal whitespace and
// capitalizes the first letter. Blank input maps to DefaultCategory.
func NormalizeCategory(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return DefaultCategory
	}
	joined := strings.Join(fields, " ")
	r, size := utf8.DecodeRuneInString(joined)
	return string(unicode.ToUpper(r)) + joined[size:]
}

// ExpenseLike forces an amount into expense semantics: the stored value
// is the negated magnitude regardless of the sign the caller entered.
func ExpenseLike(amount decimal.Decimal) decimal.Decimal {
	return amount.Abs().Neg()
}
