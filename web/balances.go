package web

import (
	"net/http"

	"github.com/sjlouji/friday/ledger"
)

// BalancesResponse lists the ledger's balance assertions.
type BalancesResponse struct {
	Balances []ledger.BalanceAssertion `json:"balances"`
	Errors   []string                  `json:"errors,omitempty"`
}

// handleGetBalances handles GET /api/balances.
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
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

	writeJSONResponse(w, &BalancesResponse{Balances: book.Balances, Errors: book.Errors})
}

// PricesResponse lists the ledger's price points.
type PricesResponse struct {
	Prices []ledger.PricePoint `json:"prices"`
	Errors []string            `json:"errors,omitempty"`
}

// handleGetPrices handles GET /api/prices.
func (s *Server) handleGetPrices(w http.ResponseWriter, r *http.Request) {
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

	writeJSONResponse(w, &PricesResponse{Prices: book.Prices, Errors: book.Errors})
}
