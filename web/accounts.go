package web

import (
	"encoding/json"
	"net/http"

	"github.com/sjlouji/friday/ledger"
	"github.com/sjlouji/friday/store"
)

// AccountsResponse is the account listing.
type AccountsResponse struct {
	Accounts []ledger.Account `json:"accounts"`
	Errors   []string         `json:"errors,omitempty"`
}

// handleGetAccounts handles GET /api/accounts. Accounts come back in
// file order with close dates folded in.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
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

	writeJSONResponse(w, &AccountsResponse{Accounts: book.Accounts, Errors: book.Errors})
}

// handleCreateAccount handles POST /api/accounts.
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var draft store.AccountDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	book, err := s.store.CreateAccount(filename, draft)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, &AccountsResponse{Accounts: book.Accounts, Errors: book.Errors})
}
