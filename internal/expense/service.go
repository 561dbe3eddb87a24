package expense

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type ExpenseTracker struct {
	storage     Storage
	StorageType string
}

func NewExpenseTracker(s Storage) ExpenseTracker {
	return ExpenseTracker{
		storage:     s,
		StorageType: s.GetStorageType(),
	}
}

type Storage interface {
	LoadExpenses() ([]Expense, error)
	SaveExpenses(expenses []Expense) error
	SaveExpense(e Expense) error
	DeleteExpense(expenseId string) (bool, error)
	GetExpenseById(expenseId string) (*Expense, error)
	GetStorageType() string
}

func (et *ExpenseTracker) AddExpense(req NewExpenseRequest) (Expense, error) {
	e, err := NewExpense(req)
	if err != nil {
		return Expense{}, err
	}
	if err := et.storage.SaveExpense(e); err != nil {
		return Expense{}, fmt.Errorf("failed to save expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns expenses matching the filters, most recent date
// first. Date comparison is plain string comparison, which matches
// chronological order because dates are fixed-width YYYY-MM-DD.
func (et *ExpenseTracker) ListExpenses(filters *ListFilters) ([]Expense, error) {
	expenses, err := et.storage.LoadExpenses()
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	if filters != nil {
		if filters.Category != "" {
			category := strings.ToLower(strings.TrimSpace(filters.Category))
			expenses = filterExpenses(expenses, func(e Expense) bool { return e.Category == category })
		}
		if filters.StartDate != "" {
			expenses = filterExpenses(expenses, func(e Expense) bool { return e.Date >= filters.StartDate })
		}
		if filters.EndDate != "" {
			expenses = filterExpenses(expenses, func(e Expense) bool { return e.Date <= filters.EndDate })
		}
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date > expenses[j].Date
	})

	if filters != nil && filters.Limit > 0 && len(expenses) > filters.Limit {
		expenses = expenses[:filters.Limit]
	}

	return expenses, nil
}

func (et *ExpenseTracker) DeleteExpense(expenseId string) (bool, error) {
	deleted, err := et.storage.DeleteExpense(expenseId)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	return deleted, nil
}

func (et *ExpenseTracker) GetExpenseById(expenseId string) (*Expense, error) {
	e, err := et.storage.GetExpenseById(expenseId)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense by id: %w", err)
	}
	return e, nil
}

// GetSummary groups expenses by category and reports total, count and
// average amount per category, largest total first. month narrows the
// report to dates with the given YYYY-MM prefix.
func (et *ExpenseTracker) GetSummary(month string) ([]CategorySummary, error) {
	expenses, err := et.storage.LoadExpenses()
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	if month != "" {
		expenses = filterExpenses(expenses, func(e Expense) bool { return strings.HasPrefix(e.Date, month) })
	}

	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(decimal.NewFromFloat(e.Amount))
		counts[e.Category]++
	}

	summaries := make([]CategorySummary, 0, len(totals))
	for category, total := range totals {
		count := counts[category]
		summaries = append(summaries, CategorySummary{
			Category: category,
			Total:    total.Round(2),
			Count:    count,
			Average:  total.Div(decimal.NewFromInt(int64(count))).Round(2),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Total.Equal(summaries[j].Total) {
			return summaries[i].Total.GreaterThan(summaries[j].Total)
		}
		return summaries[i].Category < summaries[j].Category
	})

	return summaries, nil
}

func (et *ExpenseTracker) GetTotalSpending(month string) (decimal.Decimal, error) {
	expenses, err := et.storage.LoadExpenses()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load expenses: %w", err)
	}

	total := decimal.Zero
	for _, e := range expenses {
		if month != "" && !strings.HasPrefix(e.Date, month) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total, nil
}

// ExportToCSV writes the filtered expenses to filepath, overwriting any
// existing file, and returns the number of exported records. The
// created_at column is included only when at least one record carries it.
func (et *ExpenseTracker) ExportToCSV(filepath string, filters *ListFilters) (int, error) {
	expenses, err := et.ListExpenses(filters)
	if err != nil {
		return 0, err
	}

	withCreatedAt := false
	for _, e := range expenses {
		if e.CreatedAt != "" {
			withCreatedAt = true
			break
		}
	}

	file, err := os.Create(filepath)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"id", "date", "category", "amount", "description"}
	if withCreatedAt {
		header = append(header, "created_at")
	}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Date,
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.Description,
		}
		if withCreatedAt {
			row = append(row, e.CreatedAt)
		}
		if err := writer.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}
	return len(expenses), nil
}

func (et *ExpenseTracker) GetCategories() ([]string, error) {
	expenses, err := et.storage.LoadExpenses()
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	seen := make(map[string]bool)
	var categories []string
	for _, e := range expenses {
		if !seen[e.Category] {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func filterExpenses(expenses []Expense, keep func(Expense) bool) []Expense {
	result := expenses[:0:0]
	for _, e := range expenses {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}
