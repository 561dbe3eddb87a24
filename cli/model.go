package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatali-fataliyev/expense_tracker/internal/expense"
	"github.com/shopspring/decimal"
)

const usageText = `Usage: expense_tracker <command> [flags] [arguments]

Commands:
  add         add [flags] <amount> <category> <description>
              --date YYYY-MM-DD, --storage <file>
  list        list expenses
              --category, --start-date, --end-date, --limit, --storage
  delete      delete [flags] <expense-id>
              --force, --storage
  summary     per-category spending summary
              --month YYYY-MM, --storage
  export      export [flags] <output-file> (CSV)
              --category, --start-date, --end-date, --storage
  categories  list distinct categories
              --storage
  help        show this message

The storage file defaults to 'expenses.json' or the EXPENSE_FILE
environment variable.`

func (c *Cli) printUsage() {
	fmt.Fprintln(c.errOut, usageText)
}

func formatExpense(e expense.Expense) string {
	return fmt.Sprintf("[%s] %s | %-12s | $%10s | %s",
		e.ID, e.Date, e.Category, formatAmount(e.Amount), e.Description)
}

func formatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

func sumAmounts(expenses []expense.Expense) string {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total.StringFixed(2)
}

func renderExpenseTable(out io.Writer, expenses []expense.Expense) {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%s\t%s\n",
			e.ID, e.Date, e.Category, formatAmount(e.Amount), e.Description)
	}
	w.Flush()
}

func renderSummaryTable(out io.Writer, summaries []expense.CategorySummary) {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTOTAL\tCOUNT\tAVERAGE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t$%s\t%d\t$%s\n",
			s.Category, s.Total.StringFixed(2), s.Count, s.Average.StringFixed(2))
	}
	w.Flush()
}

func isValidMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}
