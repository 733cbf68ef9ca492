package http

import (
	"log/slog"
	"net/http"
	"time"

	"myfinancelog/internal/core"
)

type indexPage struct {
	Expenses   []core.Expense
	Categories []string
	Today      string
}

type editPage struct {
	Expense    core.Expense
	Categories []string
}

type monthlyPage struct {
	Summary core.Summary
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	expenses, ok := s.listCache.Get(listCacheKey)
	if !ok {
		var err error
		expenses, err = s.service.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.listCache.Set(listCacheKey, expenses)
	}

	categories, err := s.service.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.render(w, r, "index.html", indexPage{
		Expenses:   expenses,
		Categories: categories,
		Today:      time.Now().Format(core.ISODate),
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	period := currentPeriod(r)

	summary, ok := s.summaryCache.Get(period)
	if !ok {
		var err error
		summary, err = s.service.MonthlySummary(r.Context(), period)
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.summaryCache.Set(period, summary)
	}

	s.render(w, r, "monthly.html", monthlyPage{Summary: summary})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template render failed", "template", name, "error", err)
	}
}
