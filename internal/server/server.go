// Package server exposes the ledger over HTTP. It is thin plumbing:
// decode, validate, delegate, translate errors. The one piece of flow it
// owns is recording failed use/cancel attempts when the ledger rejects one.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/sheikh-saqib/account-ledger-system/internal/account"
	"github.com/sheikh-saqib/account-ledger-system/internal/ledger"
)

type Server struct {
	accounts *account.Service
	ledger   *ledger.Ledger
	validate *validator.Validate
	logger   *slog.Logger
}

func New(accounts *account.Service, ledgerSvc *ledger.Ledger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		accounts: accounts,
		ledger:   ledgerSvc,
		validate: validator.New(),
		logger:   logger,
	}
}

// Router wires the endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Post("/account", s.handleCreateAccount)
	r.Delete("/account", s.handleDeleteAccount)
	r.Get("/account", s.handleListAccounts)

	r.Post("/transaction/use", s.handleUseBalance)
	r.Post("/transaction/cancel", s.handleCancelBalance)
	r.Get("/transaction/{transactionId}", s.handleQueryTransaction)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
