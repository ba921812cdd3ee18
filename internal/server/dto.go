package server

import (
	"time"

	"github.com/sheikh-saqib/account-ledger-system/internal/models"
)

// Request bodies are validated at this boundary; amounts outside
// [10, 1_000_000_000] never reach the ledger.

type createAccountRequest struct {
	UserID         int64 `json:"userId" validate:"required,min=1"`
	InitialBalance int64 `json:"initialBalance" validate:"min=0"`
}

type createAccountResponse struct {
	UserID        int64     `json:"userId"`
	AccountNumber string    `json:"accountNumber"`
	RegisteredAt  time.Time `json:"registeredAt"`
}

type deleteAccountRequest struct {
	UserID        int64  `json:"userId" validate:"required,min=1"`
	AccountNumber string `json:"accountNumber" validate:"required,len=10,numeric"`
}

type deleteAccountResponse struct {
	UserID         int64     `json:"userId"`
	AccountNumber  string    `json:"accountNumber"`
	UnregisteredAt time.Time `json:"unregisteredAt"`
}

type accountInfo struct {
	AccountNumber string `json:"accountNumber"`
	Balance       int64  `json:"balance"`
}

type useBalanceRequest struct {
	UserID        int64  `json:"userId" validate:"required,min=1"`
	AccountNumber string `json:"accountNumber" validate:"required,len=10,numeric"`
	Amount        int64  `json:"amount" validate:"required,min=10,max=1000000000"`
}

type cancelBalanceRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required,len=10,numeric"`
	Amount        int64  `json:"amount" validate:"required,min=10,max=1000000000"`
}

type transactionResponse struct {
	AccountNumber     string    `json:"accountNumber"`
	TransactionResult string    `json:"transactionResult"`
	TransactionID     string    `json:"transactionId"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transactedAt"`
}

type queryTransactionResponse struct {
	AccountNumber     string    `json:"accountNumber"`
	TransactionType   string    `json:"transactionType"`
	TransactionResult string    `json:"transactionResult"`
	TransactionID     string    `json:"transactionId"`
	Amount            int64     `json:"amount"`
	TransactedAt      time.Time `json:"transactedAt"`
}

func newTransactionResponse(tx *models.Transaction) transactionResponse {
	return transactionResponse{
		AccountNumber:     tx.AccountNumber,
		TransactionResult: string(tx.Result),
		TransactionID:     tx.TransactionID,
		Amount:            tx.Amount,
		TransactedAt:      tx.TransactedAt,
	}
}

func newQueryTransactionResponse(tx *models.Transaction) queryTransactionResponse {
	return queryTransactionResponse{
		AccountNumber:     tx.AccountNumber,
		TransactionType:   string(tx.Type),
		TransactionResult: string(tx.Result),
		TransactionID:     tx.TransactionID,
		Amount:            tx.Amount,
		TransactedAt:      tx.TransactedAt,
	}
}
