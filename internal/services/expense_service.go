package services

import (
	"context"
	"fmt"
	"log/slog"

	"myfinancelog/internal/core"
	"myfinancelog/internal/store"
)

// ExpenseService orchestrates record-store operations and derived views for
// the presentation layer. It holds no state of its own; summaries are
// recomputed from the store on every request.
type ExpenseService struct {
	store store.Store
}

func NewExpenseService(s store.Store) *ExpenseService {
	return &ExpenseService{store: s}
}

func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (int64, error) {
	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	return id, nil
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *ExpenseService) Update(ctx context.Context, id int64, e core.Expense) error {
	if err := s.store.UpdateExpense(ctx, id, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) Categories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

// MonthlySummary recomputes the per-category breakdown for the given period
// prefix from the current record set.
func (s *ExpenseService) MonthlySummary(ctx context.Context, period string) (core.Summary, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load expenses for summary: %w", err)
	}

	summary := core.SummarizeByCategory(expenses, period)

	slog.DebugContext(ctx, "Monthly summary computed",
		"period", period,
		"categories", len(summary.Categories),
		"total", summary.Total.String())

	return summary, nil
}
