package expense

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/stretchr/testify/require"
)

// Mocks

type MockStorage struct {
	expenses []Expense
	saveErr  error
	loadErr  error
}

func (m *MockStorage) LoadExpenses() ([]Expense, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	result := make([]Expense, len(m.expenses))
	copy(result, m.expenses)
	return result, nil
}

func (m *MockStorage) SaveExpenses(expenses []Expense) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.expenses = make([]Expense, len(expenses))
	copy(m.expenses, expenses)
	return nil
}

func (m *MockStorage) SaveExpense(e Expense) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.expenses = append(m.expenses, e)
	return nil
}

func (m *MockStorage) DeleteExpense(expenseId string) (bool, error) {
	for i, e := range m.expenses {
		if e.ID == expenseId {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockStorage) GetExpenseById(expenseId string) (*Expense, error) {
	for _, e := range m.expenses {
		if e.ID == expenseId {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *MockStorage) GetStorageType() string {
	return "mock"
}

func seedExpenses() []Expense {
	return []Expense{
		{ID: "food0001", Amount: 10, Category: "food", Description: "breakfast", Date: "2024-01-15", CreatedAt: "2024-01-15T08:00:00Z"},
		{ID: "food0002", Amount: 20, Category: "food", Description: "lunch", Date: "2024-01-20", CreatedAt: "2024-01-20T13:00:00Z"},
		{ID: "food0003", Amount: 30, Category: "food", Description: "dinner", Date: "2023-12-31", CreatedAt: "2023-12-31T20:00:00Z"},
		{ID: "tran0001", Amount: 5, Category: "transport", Description: "bus ticket", Date: "2024-02-01", CreatedAt: "2024-02-01T09:00:00Z"},
	}
}

// Tests

func TestAddExpense(t *testing.T) {
	tests := []struct {
		name    string
		input   NewExpenseRequest
		wantErr bool
	}{
		{
			name:  "Success - Valid Expense",
			input: NewExpenseRequest{Amount: 12.5, Category: " Food ", Description: " lunch ", Date: "2024-03-10"},
		},
		{
			name:    "Fail - Zero Amount",
			input:   NewExpenseRequest{Amount: 0, Category: "food", Description: "lunch"},
			wantErr: true,
		},
		{
			name:    "Fail - Empty Description",
			input:   NewExpenseRequest{Amount: 5, Category: "food", Description: "   "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockStorage{}
			et := NewExpenseTracker(mockStore)

			e, err := et.AddExpense(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, appErrors.ErrInvalidInput))
				require.Empty(t, mockStore.expenses)
				return
			}
			require.NoError(t, err)
			require.Len(t, mockStore.expenses, 1)
			require.Equal(t, e, mockStore.expenses[0])
			require.Equal(t, "food", e.Category)
			require.Equal(t, "lunch", e.Description)
		})
	}
}

func TestAddExpenseStorageFailure(t *testing.T) {
	mockStore := &MockStorage{saveErr: errors.New("disk full")}
	et := NewExpenseTracker(mockStore)

	_, err := et.AddExpense(NewExpenseRequest{Amount: 5, Category: "food", Description: "lunch"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to save expense")
}

func TestListExpenses(t *testing.T) {
	tests := []struct {
		name    string
		filters *ListFilters
		wantIds []string
	}{
		{
			name:    "All expenses sorted by date descending",
			filters: nil,
			wantIds: []string{"tran0001", "food0002", "food0001", "food0003"},
		},
		{
			name:    "Category filter is normalized",
			filters: &ListFilters{Category: "  Food "},
			wantIds: []string{"food0002", "food0001", "food0003"},
		},
		{
			name:    "Inclusive date range",
			filters: &ListFilters{StartDate: "2024-01-01", EndDate: "2024-01-31"},
			wantIds: []string{"food0002", "food0001"},
		},
		{
			name:    "Limit caps result count",
			filters: &ListFilters{Limit: 2},
			wantIds: []string{"tran0001", "food0002"},
		},
		{
			name:    "Non-positive limit means unlimited",
			filters: &ListFilters{Limit: -1},
			wantIds: []string{"tran0001", "food0002", "food0001", "food0003"},
		},
		{
			name:    "No matches",
			filters: &ListFilters{Category: "rent"},
			wantIds: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockStorage{expenses: seedExpenses()}
			et := NewExpenseTracker(mockStore)

			expenses, err := et.ListExpenses(tt.filters)
			require.NoError(t, err)

			gotIds := make([]string, 0, len(expenses))
			for _, e := range expenses {
				gotIds = append(gotIds, e.ID)
			}
			require.Equal(t, tt.wantIds, gotIds)
		})
	}
}

func TestListExpensesDateRangeBoundaries(t *testing.T) {
	mockStore := &MockStorage{expenses: []Expense{
		{ID: "before01", Amount: 1, Category: "food", Description: "x", Date: "2023-12-31"},
		{ID: "inside01", Amount: 1, Category: "food", Description: "x", Date: "2024-01-15"},
		{ID: "after001", Amount: 1, Category: "food", Description: "x", Date: "2024-02-01"},
	}}
	et := NewExpenseTracker(mockStore)

	expenses, err := et.ListExpenses(&ListFilters{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	require.Equal(t, "inside01", expenses[0].ID)
}

func TestDeleteExpense(t *testing.T) {
	mockStore := &MockStorage{expenses: seedExpenses()}
	et := NewExpenseTracker(mockStore)

	deleted, err := et.DeleteExpense("food0001")
	require.NoError(t, err)
	require.True(t, deleted)
	require.Len(t, mockStore.expenses, 3)

	deleted, err = et.DeleteExpense("missing1")
	require.NoError(t, err)
	require.False(t, deleted)
	require.Len(t, mockStore.expenses, 3)
}

func TestGetExpenseById(t *testing.T) {
	mockStore := &MockStorage{expenses: seedExpenses()}
	et := NewExpenseTracker(mockStore)

	e, err := et.GetExpenseById("tran0001")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, "bus ticket", e.Description)

	e, err = et.GetExpenseById("missing1")
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestGetSummary(t *testing.T) {
	mockStore := &MockStorage{expenses: seedExpenses()}
	et := NewExpenseTracker(mockStore)

	summaries, err := et.GetSummary("")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// food has the higher total, so it comes first
	require.Equal(t, "food", summaries[0].Category)
	require.Equal(t, "60.00", summaries[0].Total.StringFixed(2))
	require.Equal(t, 3, summaries[0].Count)
	require.Equal(t, "20.00", summaries[0].Average.StringFixed(2))

	require.Equal(t, "transport", summaries[1].Category)
	require.Equal(t, "5.00", summaries[1].Total.StringFixed(2))
	require.Equal(t, 1, summaries[1].Count)
	require.Equal(t, "5.00", summaries[1].Average.StringFixed(2))
}

func TestGetSummaryMonthFilter(t *testing.T) {
	mockStore := &MockStorage{expenses: seedExpenses()}
	et := NewExpenseTracker(mockStore)

	summaries, err := et.GetSummary("2024-01")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "food", summaries[0].Category)
	require.Equal(t, "30.00", summaries[0].Total.StringFixed(2))
	require.Equal(t, 2, summaries[0].Count)
	require.Equal(t, "15.00", summaries[0].Average.StringFixed(2))
}

func TestGetSummaryEmpty(t *testing.T) {
	mockStore := &MockStorage{}
	et := NewExpenseTracker(mockStore)

	summaries, err := et.GetSummary("")
	require.NoError(t, err)
	require.Empty(t, summaries)

	mockStore.expenses = seedExpenses()
	summaries, err = et.GetSummary("1999-01")
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestGetTotalSpending(t *testing.T) {
	mockStore := &MockStorage{expenses: seedExpenses()}
	et := NewExpenseTracker(mockStore)

	total, err := et.GetTotalSpending("")
	require.NoError(t, err)
	require.Equal(t, "65.00", total.StringFixed(2))

	total, err = et.GetTotalSpending("2024-01")
	require.NoError(t, err)
	require.Equal(t, "30.00", total.StringFixed(2))

	total, err = et.GetTotalSpending("1999-01")
	require.NoError(t, err)
	require.True(t, total.IsZero())
}

func TestExportToCSV(t *testing.T) {
	mockStore := &MockStorage{expenses: seedExpenses()}
	et := NewExpenseTracker(mockStore)

	path := filepath.Join(t.TempDir(), "out.csv")
	count, err := et.ExportToCSV(path, &ListFilters{Category: "transport"})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t,
		"id,date,category,amount,description,created_at\n"+
			"tran0001,2024-02-01,transport,5,bus ticket,2024-02-01T09:00:00Z\n",
		string(raw))
}

func TestExportToCSVEmptyResult(t *testing.T) {
	mockStore := &MockStorage{}
	et := NewExpenseTracker(mockStore)

	path := filepath.Join(t.TempDir(), "out.csv")
	count, err := et.ExportToCSV(path, nil)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "id,date,category,amount,description\n", string(raw))
}

func TestGetCategories(t *testing.T) {
	mockStore := &MockStorage{expenses: seedExpenses()}
	et := NewExpenseTracker(mockStore)

	categories, err := et.GetCategories()
	require.NoError(t, err)
	require.Equal(t, []string{"food", "transport"}, categories)
}

func TestGetCategoriesEmpty(t *testing.T) {
	mockStore := &MockStorage{}
	et := NewExpenseTracker(mockStore)

	categories, err := et.GetCategories()
	require.NoError(t, err)
	require.Empty(t, categories)
}
