// ABOUTME: Budget commands: expense list, add, delete, categories and summary
// ABOUTME: Date range flags take YYYY-MM-DD and are checked before any request

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

var (
	budgetFrom     string
	budgetTo       string
	budgetCategory int
	budgetSearch   string

	expenseAmount      string
	expenseDescription string
	expenseLocation    string
	expenseCategory    int
	expenseDate        string
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Track expenses",
}

var budgetSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals by category and month",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runBudgetSummary)
	},
}

var budgetExpensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "List expenses",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runExpenses)
	},
}

var budgetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runExpenseAdd)
	},
}

var budgetDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runExpenseDelete(ctx, e, args[0], w)
		})
	},
}

var budgetCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List expense categories",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runExpenseCategories)
	},
}

func init() {
	rootCmd.AddCommand(budgetCmd)
	budgetCmd.AddCommand(budgetSummaryCmd, budgetExpensesCmd, budgetAddCmd, budgetDeleteCmd, budgetCategoriesCmd)

	for _, c := range []*cobra.Command{budgetSummaryCmd, budgetExpensesCmd} {
		c.Flags().StringVar(&budgetFrom, "from", "", "Start date (YYYY-MM-DD)")
		c.Flags().StringVar(&budgetTo, "to", "", "End date (YYYY-MM-DD)")
		c.Flags().IntVar(&budgetCategory, "category", 0, "Only this category ID")
	}
	budgetExpensesCmd.Flags().StringVar(&budgetSearch, "search", "", "Search description and location")

	f := budgetAddCmd.Flags()
	f.StringVar(&expenseAmount, "amount", "", "Amount, e.g. 12.50")
	f.StringVar(&expenseDescription, "description", "", "What it was for")
	f.StringVar(&expenseLocation, "location", "", "Where")
	f.IntVar(&expenseCategory, "category", 0, "Category ID")
	f.StringVar(&expenseDate, "date", "", "Date (YYYY-MM-DD, default today)")
	budgetAddCmd.MarkFlagRequired("amount")
}

// expenseFilter checks the shared range flags
func expenseFilter() (client.ExpenseFilter, error) {
	if err := validate.Date("from", budgetFrom); err != nil {
		return client.ExpenseFilter{}, err
	}
	if err := validate.Date("to", budgetTo); err != nil {
		return client.ExpenseFilter{}, err
	}
	if budgetFrom != "" && budgetTo != "" && budgetTo < budgetFrom {
		return client.ExpenseFilter{}, &validate.FieldError{Field: "to", Message: "must not be before from"}
	}
	return client.ExpenseFilter{
		Category:  budgetCategory,
		StartDate: budgetFrom,
		EndDate:   budgetTo,
		Search:    budgetSearch,
	}, nil
}

func runBudgetSummary(ctx context.Context, e *env, w io.Writer) int {
	f, err := expenseFilter()
	if err != nil {
		return e.fail(w, err)
	}
	f.Search = ""
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	sum, err := e.client.Budget.Summary(ctx, f)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, sum, func() {
		fmt.Fprintf(w, "Total: $%s\n\n", sum.Total)
		cats := make([][]string, 0, len(sum.ByCategory))
		for _, c := range sum.ByCategory {
			cats = append(cats, []string{c.Name, "$" + c.Total.String()})
		}
		printTable(w, []string{"Category", "Total"}, cats)
		if len(sum.ByMonth) > 0 {
			months := make([][]string, 0, len(sum.ByMonth))
			for _, m := range sum.ByMonth {
				months = append(months, []string{m.Month, "$" + m.Total.String()})
			}
			fmt.Fprintln(w)
			printTable(w, []string{"Month", "Total"}, months)
		}
	})
	return exitOK
}

func runExpenses(ctx context.Context, e *env, w io.Writer) int {
	f, err := expenseFilter()
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	expenses, err := e.client.Budget.Expenses(ctx, f)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, expenses, func() {
		rows := make([][]string, 0, len(expenses))
		for _, x := range expenses {
			rows = append(rows, []string{
				strconv.Itoa(x.ID),
				x.Date,
				"$" + x.Amount.String(),
				x.Description,
				x.Location,
				x.CategoryName,
			})
		}
		printTable(w, []string{"ID", "Date", "Amount", "Description", "Location", "Category"}, rows)
	})
	return exitOK
}

func runExpenseAdd(ctx context.Context, e *env, w io.Writer) int {
	amount, err := validate.Amount(expenseAmount)
	if err != nil {
		return e.fail(w, err)
	}
	date := expenseDate
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}
	if err := validate.Date("date", date); err != nil {
		return e.fail(w, err)
	}
	in := client.ExpenseInput{
		Amount:      amount,
		Description: expenseDescription,
		Location:    expenseLocation,
		Date:        date,
	}
	if expenseCategory != 0 {
		c := expenseCategory
		in.Category = &c
	}

	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	x, err := e.client.Budget.CreateExpense(ctx, &in)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, x, func() {
		fmt.Fprintf(w, "Recorded $%s on %s (#%d)\n", x.Amount, x.Date, x.ID)
	})
	return exitOK
}

func runExpenseDelete(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if err := e.client.Budget.DeleteExpense(ctx, id); err != nil {
		return e.fail(w, err)
	}
	fmt.Fprintf(w, "Deleted expense #%d\n", id)
	return exitOK
}

func runExpenseCategories(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	cats, err := e.client.Budget.Categories(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, cats, func() {
		rows := make([][]string, 0, len(cats))
		for _, c := range cats {
			rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, c.Color})
		}
		printTable(w, []string{"ID", "Name", "Color"}, rows)
	})
	return exitOK
}
