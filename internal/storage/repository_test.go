package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"myfinancelog/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func expense(date, category, name, amount string, fixed bool, comment string) core.Expense {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Expense{
		Date:     d,
		Category: category,
		Name:     name,
		Amount:   decimal.RequireFromString(amount),
		Fixed:    fixed,
		Comment:  comment,
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	id, err := repo.CreateExpense(ctx, expense("2025-06-01", "food", "coffee", "3.50", false, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening runs migrations again; existing data must survive.
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer repo.Close()

	got, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Category != "food" || !got.Amount.Equal(decimal.RequireFromString("3.50")) {
		t.Fatalf("record altered by re-initialization: %+v", got)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	in := expense("2025-06-15", "transport", "bus ticket", "2.40", true, "monthly pass top-up")
	id, err := repo.CreateExpense(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	got, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Date.ISO() != "2025-06-15" || got.Category != in.Category ||
		got.Name != in.Name || !got.Amount.Equal(in.Amount) ||
		got.Fixed != in.Fixed || got.Comment != in.Comment {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, in)
	}
}

func TestCreateValidatesBeforeWrite(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.CreateExpense(ctx, core.Expense{Date: core.NewDate(2025, 6, 1), Amount: decimal.Zero})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	all, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected record was persisted: %+v", all)
	}
}

func TestIDsUniqueAndAscending(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var prev int64
	for i := 0; i < 5; i++ {
		id, err := repo.CreateExpense(ctx, expense("2025-06-01", "food", "", "1.00", false, ""))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}

	all, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Fatalf("list not in ascending id order: %+v", all)
		}
	}
}

func TestDeleteThenGetReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, err := repo.CreateExpense(ctx, expense("2025-06-01", "food", "", "1.00", false, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// deleting again is reported, not silently accepted
	if err := repo.DeleteExpense(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id1, _ := repo.CreateExpense(ctx, expense("2025-06-01", "food", "", "1.00", false, ""))
	if err := repo.DeleteExpense(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	id2, _ := repo.CreateExpense(ctx, expense("2025-06-02", "food", "", "2.00", false, ""))
	if id2 == id1 {
		t.Fatalf("AUTOINCREMENT id %d was reused", id1)
	}
}

func TestUpdateReplacesAllFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, _ := repo.CreateExpense(ctx, expense("2025-06-01", "food", "coffee", "10.00", false, "old"))

	repl := expense("2025-07-02", "transport", "train", "25.00", true, "new comment")
	if err := repo.UpdateExpense(ctx, id, repl); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Date.ISO() != "2025-07-02" || got.Category != "transport" ||
		got.Name != "train" || !got.Amount.Equal(decimal.RequireFromString("25.00")) ||
		!got.Fixed || got.Comment != "new comment" {
		t.Fatalf("update did not replace all fields: %+v", got)
	}

	if err := repo.UpdateExpense(ctx, id+1000, repl); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestUpdatedAmountFlowsIntoSummary(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, _ := repo.CreateExpense(ctx, expense("2025-06-01", "food", "", "10.00", false, ""))
	if err := repo.UpdateExpense(ctx, id, expense("2025-06-01", "food", "", "25.00", false, "")); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	s := core.SummarizeByCategory(all, "2025-06")
	if !s.Total.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("summary reflects stale amount: %s", s.Total)
	}
}

func TestListCategoriesFirstUseOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, e := range []core.Expense{
		expense("2025-06-01", "food", "", "1.00", false, ""),
		expense("2025-06-02", "transport", "", "2.00", false, ""),
		expense("2025-06-03", "food", "", "3.00", false, ""),
		expense("2025-06-04", "rent", "", "4.00", true, ""),
	} {
		if _, err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []string{"food", "transport", "rent"}
	if len(cats) != len(want) {
		t.Fatalf("expected %v, got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cats)
		}
	}
}

func TestAmountPrecisionSurvivesStorage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, raw := range []string{"0.01", "123.45", "99999.99", "0"} {
		id, err := repo.CreateExpense(ctx, expense("2025-06-01", "misc", "", raw, false, ""))
		if err != nil {
			t.Fatalf("create %s: %v", raw, err)
		}
		got, err := repo.GetExpense(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", raw, err)
		}
		if !got.Amount.Equal(decimal.RequireFromString(raw)) {
			t.Fatalf("amount %s came back as %s", raw, got.Amount)
		}
	}
}

func TestClosedDatabaseErrorsAreStorageFailures(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	id, err := repo.CreateExpense(ctx, expense("2025-06-01", "food", "coffee", "3.50", false, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Every operation against a closed database must fail, and the failure
	// must not be mistaken for a validation or not-found outcome.
	checks := []struct {
		name string
		call func() error
	}{
		{"create", func() error {
			_, err := repo.CreateExpense(ctx, expense("2025-06-02", "food", "", "1.00", false, ""))
			return err
		}},
		{"get", func() error {
			_, err := repo.GetExpense(ctx, id)
			return err
		}},
		{"list", func() error {
			_, err := repo.ListExpenses(ctx)
			return err
		}},
		{"update", func() error {
			return repo.UpdateExpense(ctx, id, expense("2025-06-02", "food", "", "1.00", false, ""))
		}},
		{"delete", func() error {
			return repo.DeleteExpense(ctx, id)
		}},
		{"categories", func() error {
			_, err := repo.ListCategories(ctx)
			return err
		}},
	}
	for _, c := range checks {
		err := c.call()
		if err == nil {
			t.Fatalf("%s on closed database succeeded", c.name)
		}
		if errors.Is(err, core.ErrNotFound) {
			t.Fatalf("%s on closed database reported not-found: %v", c.name, err)
		}
		if errors.Is(err, core.ErrValidation) {
			t.Fatalf("%s on closed database reported validation: %v", c.name, err)
		}
	}
}
