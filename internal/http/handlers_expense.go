package http

import (
	"errors"
	"log/slog"
	"net/http"

	"myfinancelog/internal/core"
	"myfinancelog/internal/middleware/trace"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	exp, err := expenseFromForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.service.Create(r.Context(), exp)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateCaches()

	slog.InfoContext(r.Context(), "Expense created",
		"id", id,
		"category", exp.Category,
		"amount", exp.Amount.String())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := s.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories, err := s.service.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.render(w, r, "edit.html", editPage{Expense: exp, Categories: categories})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := expenseFromForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.service.Update(r.Context(), id, exp); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateCaches()

	slog.InfoContext(r.Context(), "Expense updated", "id", id)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		// Deleting a record that is already gone is reported, not hidden.
		writeError(w, r, err)
		return
	}
	s.invalidateCaches()

	slog.InfoContext(r.Context(), "Expense deleted", "id", id)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// writeError maps the error taxonomy to HTTP statuses: validation failures
// are 422, a missing record is 404, anything else is a storage failure and
// becomes 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrNotFound):
		http.Error(w, core.ErrNotFound.Error(), http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), "Operation failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", trace.GetRequestID(r.Context()))
		http.Error(w, "operation failed", http.StatusInternalServerError)
	}
}
