package expense

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	IdLength   = 8
)

// REQUESTS START:
type NewExpenseRequest struct {
	Amount      float64
	Category    string
	Description string
	Date        string // optional, YYYY-MM-DD; defaults to today
}

type ListFilters struct {
	Category  string
	StartDate string
	EndDate   string
	Limit     int
}

// REQUESTS END:

// MODELS:

type Expense struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

// RESPONSES:
type CategorySummary struct {
	Category string
	Total    decimal.Decimal
	Count    int
	Average  decimal.Decimal
}

// NewExpense builds a validated expense. ID and CreatedAt are always
// generated here; Date falls back to the current local date.
func NewExpense(req NewExpenseRequest) (Expense, error) {
	now := time.Now()
	e := Expense{
		ID:          newExpenseId(),
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		CreatedAt:   now.Format(time.RFC3339),
	}
	if e.Date == "" {
		e.Date = now.Format(DateLayout)
	}
	if err := e.validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// FromRecord restores an expense read from storage. Entries persisted by
// older versions may miss id, date or created_at; those are regenerated.
// Everything else goes through the same validation as NewExpense so a
// malformed entry never becomes a live expense.
func FromRecord(rec Expense) (Expense, error) {
	e := rec
	now := time.Now()
	if e.ID == "" {
		e.ID = newExpenseId()
	}
	if e.Date == "" {
		e.Date = now.Format(DateLayout)
	}
	if e.CreatedAt == "" {
		e.CreatedAt = now.Format(time.RFC3339)
	}
	if err := e.validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (e *Expense) validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", appErrors.ErrInvalidInput)
	}
	e.Category = strings.ToLower(strings.TrimSpace(e.Category))
	if e.Category == "" {
		return fmt.Errorf("%w: category cannot be empty", appErrors.ErrInvalidInput)
	}
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		return fmt.Errorf("%w: description cannot be empty", appErrors.ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: invalid date '%s', expected YYYY-MM-DD", appErrors.ErrInvalidInput, e.Date)
	}
	return nil
}

func newExpenseId() string {
	return uuid.New().String()[:IdLength]
}
