package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/fatali-fataliyev/expense_tracker/internal/expense"
	"github.com/fatali-fataliyev/expense_tracker/logging"
)

// fileLock serializes raw file reads and writes across every JSONStorage
// in the process. It guards single read and write steps only; a full
// load-modify-save cycle is not atomic end to end.
var fileLock sync.Mutex

// JSONStorage keeps the whole expense collection in one JSON array file.
// Every mutation rewrites the complete file.
type JSONStorage struct {
	filepath string
}

func NewJSONStorage(filepath string) (*JSONStorage, error) {
	s := &JSONStorage{filepath: filepath}
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		if err := s.writeData([]expense.Expense{}); err != nil {
			return nil, fmt.Errorf("failed to create storage file: %w", err)
		}
	}
	return s, nil
}

func (s *JSONStorage) GetStorageType() string {
	return "jsonfile"
}

// readData returns the raw entries of the backing file. A missing,
// unreadable or non-array file counts as an empty collection.
func (s *JSONStorage) readData() []json.RawMessage {
	fileLock.Lock()
	defer fileLock.Unlock()

	raw, err := os.ReadFile(s.filepath)
	if err != nil {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

func (s *JSONStorage) writeData(expenses []expense.Expense) error {
	fileLock.Lock()
	defer fileLock.Unlock()

	if expenses == nil {
		expenses = []expense.Expense{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(expenses); err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	if err := os.WriteFile(s.filepath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

// LoadExpenses reads every stored expense. Entries that fail to decode or
// validate are skipped with a warning so one bad record never hides the
// rest of the data.
func (s *JSONStorage) LoadExpenses() ([]expense.Expense, error) {
	entries := s.readData()
	expenses := make([]expense.Expense, 0, len(entries))
	for _, entry := range entries {
		var rec expense.Expense
		if err := json.Unmarshal(entry, &rec); err != nil {
			logging.Logger.Warnf("skipping invalid expense entry: %v", err)
			continue
		}
		e, err := expense.FromRecord(rec)
		if err != nil {
			logging.Logger.Warnf("skipping invalid expense entry: %v", err)
			continue
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func (s *JSONStorage) SaveExpenses(expenses []expense.Expense) error {
	return s.writeData(expenses)
}

func (s *JSONStorage) SaveExpense(e expense.Expense) error {
	expenses, err := s.LoadExpenses()
	if err != nil {
		return err
	}
	expenses = append(expenses, e)
	return s.SaveExpenses(expenses)
}

func (s *JSONStorage) DeleteExpense(expenseId string) (bool, error) {
	expenses, err := s.LoadExpenses()
	if err != nil {
		return false, err
	}

	remaining := make([]expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.ID != expenseId {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == len(expenses) {
		return false, nil
	}
	if err := s.SaveExpenses(remaining); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONStorage) GetExpenseById(expenseId string) (*expense.Expense, error) {
	expenses, err := s.LoadExpenses()
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if e.ID == expenseId {
			return &e, nil
		}
	}
	return nil, nil
}
