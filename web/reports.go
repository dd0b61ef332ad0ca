package web

import (
	"net/http"
)

// handleGetDashboard handles GET /api/dashboard.
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := s.store.Load(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSONResponse(w, book.GetDashboard())
}

// handleGetBalanceSheet handles GET /api/reports/balance-sheet.
func (s *Server) handleGetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := s.store.Load(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSONResponse(w, book.GetBalanceSheet())
}

// handleGetIncomeStatement handles GET /api/reports/income-statement.
// startDate and endDate are inclusive YYYY-MM-DD bounds; either may be
// omitted for an open range.
func (s *Server) handleGetIncomeStatement(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := s.store.Load(filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	startDate := r.URL.Query().Get("startDate")
	if startDate == "" {
		startDate = "0000-01-01"
	}
	endDate := r.URL.Query().Get("endDate")
	if endDate == "" {
		endDate = "9999-12-31"
	}

	writeJSONResponse(w, book.GetIncomeStatement(startDate, endDate))
}
