package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sjlouji/friday/ledger"
	"github.com/sjlouji/friday/store"
)

// TransactionsResponse is the paginated transaction listing.
type TransactionsResponse struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Pagination   ledger.Pagination    `json:"pagination"`
	Errors       []string             `json:"errors,omitempty"`
}

// handleGetTransactions handles GET /api/transactions.
//
// Query parameters: page, pageSize, freeText, filterTokens (JSON array
// of {propertyKey, operator, value}), filterOperation (and/or),
// sortField (date/payee/narration/accounts), sortDescending, filepath.
func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
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

	params := r.URL.Query()
	query := ledger.Query{
		FreeText:       params.Get("freeText"),
		Operation:      params.Get("filterOperation"),
		SortField:      params.Get("sortField"),
		SortDescending: params.Get("sortDescending") == "true",
	}
	query.Page, _ = strconv.Atoi(params.Get("page"))
	query.PageSize, _ = strconv.Atoi(params.Get("pageSize"))

	// Malformed token JSON means no token filters, not a failed request.
	if tokens := params.Get("filterTokens"); tokens != "" {
		_ = json.Unmarshal([]byte(tokens), &query.Tokens)
	}

	page := book.Search(query)

	writeJSONResponse(w, &TransactionsResponse{
		Transactions: page.Transactions,
		Pagination:   page.Pagination,
		Errors:       book.Errors,
	})
}

// handleCreateTransaction handles POST /api/transactions.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var draft store.TransactionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.store.CreateTransaction(filename, draft)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, result)
}

// handleUpdateTransaction handles PUT /api/transactions/{id}.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var draft store.TransactionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.store.UpdateTransaction(filename, r.PathValue("id"), draft)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, result)
}

// DeleteResponse reports a delete with the errors the decode surfaced.
type DeleteResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// handleDeleteTransaction handles DELETE /api/transactions/{id}.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	errs, err := s.store.DeleteTransaction(filename, r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, &DeleteResponse{Success: true, Errors: errs})
}
