package storage

import (
	"github.com/fatali-fataliyev/expense_tracker/internal/expense"
)

// InMemoryStorage holds expenses in a plain slice. Useful for tests and
// throwaway sessions; nothing survives the process.
type InMemoryStorage struct {
	expenses []expense.Expense
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func (inMem *InMemoryStorage) LoadExpenses() ([]expense.Expense, error) {
	expenses := make([]expense.Expense, len(inMem.expenses))
	copy(expenses, inMem.expenses)
	return expenses, nil
}

func (inMem *InMemoryStorage) SaveExpenses(expenses []expense.Expense) error {
	inMem.expenses = make([]expense.Expense, len(expenses))
	copy(inMem.expenses, expenses)
	return nil
}

func (inMem *InMemoryStorage) SaveExpense(e expense.Expense) error {
	inMem.expenses = append(inMem.expenses, e)
	return nil
}

func (inMem *InMemoryStorage) DeleteExpense(expenseId string) (bool, error) {
	for i, e := range inMem.expenses {
		if e.ID == expenseId {
			inMem.expenses = append(inMem.expenses[:i], inMem.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (inMem *InMemoryStorage) GetExpenseById(expenseId string) (*expense.Expense, error) {
	for _, e := range inMem.expenses {
		if e.ID == expenseId {
			return &e, nil
		}
	}
	return nil, nil
}
