// Package server is the thin HTTP presentation layer over the ledger
// engine and query service. Handlers decode requests, call into the
// engine, and translate typed failures to statuses; all invariants live
// below this layer.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/wallet-ledger/internal/ledger"
	"github.com/sheikh-saqib/wallet-ledger/internal/query"
)

var errBadBody = errors.New("invalid request body")

type Server struct {
	engine *ledger.Engine
	query  *query.Service
}

func NewServer(engine *ledger.Engine, querySvc *query.Service) *Server {
	return &Server{engine: engine, query: querySvc}
}

// accounts handles POST /accounts (registration).
func (s *Server) accounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errBadBody.Error()})
		return
	}
	account, err := s.engine.Register(r.Context(), req.DisplayName)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// accountSubroutes dispatches /accounts/{id}/{action}:
//
//	GET  /accounts/{id}/balance
//	POST /accounts/{id}/deposit
//	POST /accounts/{id}/transfer
//	GET  /accounts/{id}/history
//	GET  /accounts/{id}/spending
func (s *Server) accountSubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/accounts/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch parts[1] {
	case "balance":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.balance(w, r, id)
	case "deposit":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.deposit(w, r, id)
	case "transfer":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.transfer(w, r, id)
	case "history":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.history(w, r, id)
	case "spending":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.spending(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request, id string) {
	balance, err := s.engine.Balance(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{AccountID: id, Balance: balance})
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errBadBody.Error()})
		return
	}
	balance, err := s.engine.Deposit(r.Context(), id, req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{AccountID: id, Balance: balance})
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errBadBody.Error()})
		return
	}
	balance, err := s.engine.Transfer(r.Context(), id, req.To, req.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{AccountID: id, Balance: balance})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request, id string) {
	records, err := s.query.History(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) spending(w http.ResponseWriter, r *http.Request, id string) {
	series, err := s.query.SpendingSeries(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	summary, err := s.query.SpendingSummary(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"series":  series,
		"summary": summary,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type balanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}
