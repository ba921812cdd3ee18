package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

func (s *Server) decodeAndValidate(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return err
	}
	return s.validate.Struct(target)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w)
		return
	}

	acc, err := s.accounts.CreateAccount(r.Context(), req.UserID, req.InitialBalance)
	if err != nil {
		s.logger.Error("create account failed", "userId", req.UserID, "error", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, createAccountResponse{
		UserID:        acc.UserID,
		AccountNumber: acc.AccountNumber,
		RegisteredAt:  acc.RegisteredAt,
	})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w)
		return
	}

	acc, err := s.accounts.DeleteAccount(r.Context(), req.UserID, req.AccountNumber)
	if err != nil {
		s.logger.Error("delete account failed", "userId", req.UserID, "error", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deleteAccountResponse{
		UserID:         acc.UserID,
		AccountNumber:  acc.AccountNumber,
		UnregisteredAt: acc.UnregisteredAt,
	})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID < 1 {
		respondInvalidRequest(w)
		return
	}

	accounts, err := s.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	infos := make([]accountInfo, 0, len(accounts))
	for _, acc := range accounts {
		infos = append(infos, accountInfo{AccountNumber: acc.AccountNumber, Balance: acc.Balance})
	}
	respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleUseBalance(w http.ResponseWriter, r *http.Request) {
	var req useBalanceRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w)
		return
	}

	tx, err := s.ledger.UseBalance(r.Context(), req.UserID, req.AccountNumber, req.Amount)
	if err != nil {
		s.recordFailedAttempt(r, err, req.AccountNumber, req.Amount, false)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newTransactionResponse(tx))
}

func (s *Server) handleCancelBalance(w http.ResponseWriter, r *http.Request) {
	var req cancelBalanceRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondInvalidRequest(w)
		return
	}

	tx, err := s.ledger.CancelBalance(r.Context(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		s.recordFailedAttempt(r, err, req.AccountNumber, req.Amount, true)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newTransactionResponse(tx))
}

// recordFailedAttempt appends the FAIL audit record after the ledger
// rejects a use or cancel. The recording call resolves the account on its
// own; when the account itself was the problem there is nothing to attach
// the record to, so ErrAccountNotFound from it is expected and dropped.
func (s *Server) recordFailedAttempt(r *http.Request, cause error, accountNumber string, amount int64, cancel bool) {
	var domainErr *models.Error
	if !errors.As(cause, &domainErr) {
		return
	}
	s.logger.Error("balance operation failed", "accountNumber", accountNumber, "errorCode", domainErr.Code)

	var err error
	if cancel {
		err = s.ledger.RecordFailedCancel(r.Context(), accountNumber, amount)
	} else {
		err = s.ledger.RecordFailedUse(r.Context(), accountNumber, amount)
	}
	if err != nil && !errors.Is(err, models.ErrAccountNotFound) {
		s.logger.Error("record failed transaction", "accountNumber", accountNumber, "error", err)
	}
}

func (s *Server) handleQueryTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	if transactionID == "" {
		respondInvalidRequest(w)
		return
	}

	tx, err := s.ledger.QueryTransaction(r.Context(), transactionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newQueryTransactionResponse(tx))
}
