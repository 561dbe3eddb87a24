package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/expense"
	"github.com/fatali-fataliyev/expense_tracker/internal/storage"
)

const defaultStorageFile = "expenses.json"

type Cli struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader
}

func New() *Cli {
	return &Cli{
		out:    os.Stdout,
		errOut: os.Stderr,
		in:     os.Stdin,
	}
}

// Run dispatches one subcommand and returns the process exit code.
// Validation failures and unknown ids map to a non-zero status.
func (c *Cli) Run(args []string) int {
	if len(args) == 0 {
		c.printUsage()
		return 1
	}

	var err error
	switch args[0] {
	case "add":
		err = c.runAdd(args[1:])
	case "list":
		err = c.runList(args[1:])
	case "delete":
		err = c.runDelete(args[1:])
	case "summary":
		err = c.runSummary(args[1:])
	case "export":
		err = c.runExport(args[1:])
	case "categories":
		err = c.runCategories(args[1:])
	case "help", "-h", "--help":
		c.printUsage()
		return 0
	default:
		fmt.Fprintf(c.errOut, "unknown command: %s\n\n", args[0])
		c.printUsage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(c.errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *Cli) newTracker(storagePath string) (expense.ExpenseTracker, error) {
	store, err := storage.NewJSONStorage(storagePath)
	if err != nil {
		return expense.ExpenseTracker{}, fmt.Errorf("%w: failed to open storage: %v", appErrors.ErrInternal, err)
	}
	return expense.NewExpenseTracker(store), nil
}

func defaultStoragePath() string {
	if path := os.Getenv("EXPENSE_FILE"); path != "" {
		return path
	}
	return defaultStorageFile
}

func (c *Cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *Cli) runAdd(args []string) error {
	fs := c.newFlagSet("add")
	date := fs.String("date", "", "expense date (YYYY-MM-DD), defaults to today")
	storagePath := fs.String("storage", defaultStoragePath(), "path to storage file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 3 {
		return fmt.Errorf("%w: usage: add [flags] <amount> <category> <description>", appErrors.ErrInvalidInput)
	}
	amount, err := strconv.ParseFloat(rest[0], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid amount '%s'", appErrors.ErrInvalidInput, rest[0])
	}

	tracker, err := c.newTracker(*storagePath)
	if err != nil {
		return err
	}
	e, err := tracker.AddExpense(expense.NewExpenseRequest{
		Amount:      amount,
		Category:    rest[1],
		Description: rest[2],
		Date:        *date,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Expense added:")
	fmt.Fprintln(c.out, formatExpense(e))
	return nil
}

func (c *Cli) runList(args []string) error {
	fs := c.newFlagSet("list")
	category := fs.String("category", "", "filter by category")
	startDate := fs.String("start-date", "", "filter from date (YYYY-MM-DD)")
	endDate := fs.String("end-date", "", "filter to date (YYYY-MM-DD)")
	limit := fs.Int("limit", 0, "maximum number of expenses to show")
	storagePath := fs.String("storage", defaultStoragePath(), "path to storage file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tracker, err := c.newTracker(*storagePath)
	if err != nil {
		return err
	}
	expenses, err := tracker.ListExpenses(&expense.ListFilters{
		Category:  *category,
		StartDate: *startDate,
		EndDate:   *endDate,
		Limit:     *limit,
	})
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(c.out, "No expenses found.")
		return nil
	}

	renderExpenseTable(c.out, expenses)
	fmt.Fprintf(c.out, "\nTotal: $%s (%d expenses)\n", sumAmounts(expenses), len(expenses))
	return nil
}

func (c *Cli) runDelete(args []string) error {
	fs := c.newFlagSet("delete")
	force := fs.Bool("force", false, "delete without confirmation")
	storagePath := fs.String("storage", defaultStoragePath(), "path to storage file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("%w: usage: delete [flags] <expense-id>", appErrors.ErrInvalidInput)
	}
	expenseId := rest[0]

	tracker, err := c.newTracker(*storagePath)
	if err != nil {
		return err
	}

	if !*force {
		e, err := tracker.GetExpenseById(expenseId)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("%w: no expense with id '%s'", appErrors.ErrNotFound, expenseId)
		}
		fmt.Fprintln(c.out, formatExpense(*e))
		fmt.Fprint(c.out, "Delete this expense? [y/N]: ")

		line, _ := bufio.NewReader(c.in).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
	}

	deleted, err := tracker.DeleteExpense(expenseId)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: no expense with id '%s'", appErrors.ErrNotFound, expenseId)
	}
	fmt.Fprintf(c.out, "Expense '%s' deleted.\n", expenseId)
	return nil
}

func (c *Cli) runSummary(args []string) error {
	fs := c.newFlagSet("summary")
	month := fs.String("month", "", "restrict to month (YYYY-MM)")
	storagePath := fs.String("storage", defaultStoragePath(), "path to storage file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *month != "" && !isValidMonth(*month) {
		return fmt.Errorf("%w: invalid month '%s', expected YYYY-MM", appErrors.ErrInvalidInput, *month)
	}

	tracker, err := c.newTracker(*storagePath)
	if err != nil {
		return err
	}
	summaries, err := tracker.GetSummary(*month)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(c.out, "No expenses found.")
		return nil
	}

	renderSummaryTable(c.out, summaries)

	total, err := tracker.GetTotalSpending(*month)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\nTotal spending: $%s\n", total.StringFixed(2))
	return nil
}

func (c *Cli) runExport(args []string) error {
	fs := c.newFlagSet("export")
	category := fs.String("category", "", "filter by category")
	startDate := fs.String("start-date", "", "filter from date (YYYY-MM-DD)")
	endDate := fs.String("end-date", "", "filter to date (YYYY-MM-DD)")
	storagePath := fs.String("storage", defaultStoragePath(), "path to storage file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("%w: usage: export [flags] <output-file>", appErrors.ErrInvalidInput)
	}

	tracker, err := c.newTracker(*storagePath)
	if err != nil {
		return err
	}
	count, err := tracker.ExportToCSV(rest[0], &expense.ListFilters{
		Category:  *category,
		StartDate: *startDate,
		EndDate:   *endDate,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %d expense(s) to '%s'\n", count, rest[0])
	return nil
}

func (c *Cli) runCategories(args []string) error {
	fs := c.newFlagSet("categories")
	storagePath := fs.String("storage", defaultStoragePath(), "path to storage file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tracker, err := c.newTracker(*storagePath)
	if err != nil {
		return err
	}
	categories, err := tracker.GetCategories()
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(c.out, "No categories found.")
		return nil
	}
	for _, category := range categories {
		fmt.Fprintln(c.out, category)
	}
	return nil
}
