package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myfinancelog/internal/core"
)

// currentPeriod returns the period prefix from the query, defaulting to the
// current calendar month (YYYY-MM).
func currentPeriod(r *http.Request) string {
	if p := strings.TrimSpace(r.URL.Query().Get("period")); p != "" {
		return p
	}
	return time.Now().Format("2006-01")
}

// pathID extracts the numeric {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id", core.ErrValidation)
	}
	return id, nil
}

// expenseFromForm builds an expense from the submitted form. The form always
// carries the full field set; optional fields left blank become empty
// strings. The store re-validates regardless of what the browser checked.
func expenseFromForm(r *http.Request) (core.Expense, error) {
	if err := r.ParseForm(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: bad form", core.ErrValidation)
	}

	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		return core.Expense{}, err
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:     date,
		Category: sanitizeInput(r.Form.Get("category")),
		Name:     sanitizeInput(r.Form.Get("name")),
		Amount:   amount,
		Fixed:    r.Form.Get("fixed") != "",
		Comment:  sanitizeInput(r.Form.Get("comment")),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// formatShare renders a percentage share for display labels.
func formatShare(share float64) string {
	return fmt.Sprintf("%.1f%%", share)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
