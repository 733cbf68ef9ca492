package store

import (
	"context"

	"myfinancelog/internal/core"
)

// Ports for the durable expense collection. Implementations classify
// failures with the core sentinels: core.ErrNotFound for a missing id,
// core.ErrValidation (or a sentinel wrapping it) for rejected input, and
// any other error is a storage failure fatal to the operation.
type (
	ExpenseWriter interface {
		// CreateExpense validates e, persists it and returns the assigned id.
		// Ids are monotonically increasing and never reused after deletion.
		CreateExpense(ctx context.Context, e core.Expense) (int64, error)

		// UpdateExpense replaces every mutable field of the record with the
		// values in e. Callers must supply the full field set; omitted
		// optional fields end up empty.
		UpdateExpense(ctx context.Context, id int64, e core.Expense) error

		// DeleteExpense removes the record permanently.
		DeleteExpense(ctx context.Context, id int64) error
	}

	ExpenseReader interface {
		// ListExpenses returns every live record in ascending id order.
		ListExpenses(ctx context.Context) ([]core.Expense, error)

		// GetExpense returns the record with the given id.
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
	}

	CategoryReader interface {
		// ListCategories returns the distinct categories in use, ordered by
		// first occurrence.
		ListCategories(ctx context.Context) ([]string, error)
	}

	// Store is the full record-store contract the presentation layer
	// depends on.
	Store interface {
		ExpenseWriter
		ExpenseReader
		CategoryReader
	}
)
