// ABOUTME: Budget endpoints: expenses, expense categories and the summary report
// ABOUTME: Amounts travel as decimal strings

package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// BudgetService handles /budget/
type BudgetService service

// ExpenseCategory groups expenses
type ExpenseCategory struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Expense is one recorded cost
type Expense struct {
	ID            int       `json:"id"`
	Amount        Decimal   `json:"amount"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Category      *int      `json:"category"`
	CategoryName  string    `json:"category_name,omitempty"`
	CategoryColor string    `json:"category_color,omitempty"`
	ReceiptImage  *string   `json:"receipt_image"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ExpenseInput is the create/patch payload for an expense
type ExpenseInput struct {
	Amount      Decimal `json:"amount,omitempty"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	Category    *int    `json:"category,omitempty"`
	Date        string  `json:"date,omitempty"`
}

// ExpenseFilter narrows expense listing and the summary. Dates are YYYY-MM-DD.
type ExpenseFilter struct {
	Category  int
	StartDate string
	EndDate   string
	Search    string
}

func (f ExpenseFilter) values() url.Values {
	q := url.Values{}
	if f.Category != 0 {
		q.Set("category", strconv.Itoa(f.Category))
	}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// CategoryTotal is one slice of the summary. ID is nil for uncategorized spend.
type CategoryTotal struct {
	ID    *int    `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Total Decimal `json:"total"`
}

// MonthTotal is spend for one calendar month ("January 2025")
type MonthTotal struct {
	Month string  `json:"month"`
	Total Decimal `json:"total"`
}

// Summary is the /budget/expenses/summary/ report
type Summary struct {
	Total      Decimal         `json:"total"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByMonth    []MonthTotal    `json:"by_month"`
}

// Expenses calls GET /budget/expenses/
func (s *BudgetService) Expenses(ctx context.Context, f ExpenseFilter) ([]Expense, error) {
	return getList[Expense](ctx, s.c, "/budget/expenses/", f.values())
}

// CreateExpense calls POST /budget/expenses/
func (s *BudgetService) CreateExpense(ctx context.Context, in *ExpenseInput) (*Expense, error) {
	var e Expense
	if err := s.c.post(ctx, "/budget/expenses/", in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateExpense calls PATCH /budget/expenses/{id}/
func (s *BudgetService) UpdateExpense(ctx context.Context, id int, in *ExpenseInput) (*Expense, error) {
	var e Expense
	if err := s.c.patch(ctx, idPath("/budget/expenses/%d/", id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteExpense calls DELETE /budget/expenses/{id}/
func (s *BudgetService) DeleteExpense(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/budget/expenses/%d/", id))
}

// Summary calls GET /budget/expenses/summary/
func (s *BudgetService) Summary(ctx context.Context, f ExpenseFilter) (*Summary, error) {
	var sum Summary
	if err := s.c.get(ctx, "/budget/expenses/summary/", f.values(), &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// Categories calls GET /budget/categories/
func (s *BudgetService) Categories(ctx context.Context) ([]ExpenseCategory, error) {
	return getList[ExpenseCategory](ctx, s.c, "/budget/categories/", nil)
}

// CreateCategory calls POST /budget/categories/
func (s *BudgetService) CreateCategory(ctx context.Context, name, color string) (*ExpenseCategory, error) {
	body := map[string]string{"name": name}
	if color != "" {
		body["color"] = color
	}
	var cat ExpenseCategory
	if err := s.c.post(ctx, "/budget/categories/", body, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory calls DELETE /budget/categories/{id}/
func (s *BudgetService) DeleteCategory(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/budget/categories/%d/", id))
}
