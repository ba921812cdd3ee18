package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/account-ledger-system/internal/account"
	"github.com/sheikh-saqib/account-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-system/internal/models"
	"github.com/sheikh-saqib/account-ledger-system/internal/storage/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store, *models.AccountUser) {
	t.Helper()
	store := memory.NewStore()
	user := store.PutUser("tester")

	accounts := account.NewService(store, rand.New(rand.NewSource(1)))
	ledgerSvc := ledger.NewLedger(store, nil, nil)

	ts := httptest.NewServer(New(accounts, ledgerSvc, nil).Router())
	t.Cleanup(ts.Close)
	return ts, store, user
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createAccount(t *testing.T, ts *httptest.Server, userID int64, balance int64) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/account", map[string]any{
		"userId": userID, "initialBalance": balance,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	number, _ := body["accountNumber"].(string)
	require.Len(t, number, 10)
	return number
}

func TestCreateAccountEndpoint(t *testing.T) {
	ts, _, user := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/account", map[string]any{
		"userId": user.ID, "initialBalance": 1000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, user.ID, body["userId"])
	assert.NotEmpty(t, body["registeredAt"])
}

func TestCreateAccountUnknownUser(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/account", map[string]any{
		"userId": 999, "initialBalance": 0,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", body["errorCode"])
}

func TestCreateAccountInvalidBody(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/account", map[string]any{
		"initialBalance": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body["errorCode"])
}

func TestUseAndCancelFlow(t *testing.T) {
	ts, _, user := newTestServer(t)
	number := createAccount(t, ts, user.ID, 5_000)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/transaction/use", map[string]any{
		"userId": user.ID, "accountNumber": number, "amount": 1_500,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SUCCESS", body["transactionResult"])
	txID, _ := body["transactionId"].(string)
	require.NotEmpty(t, txID)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/transaction/cancel", map[string]any{
		"transactionId": txID, "accountNumber": number, "amount": 1_500,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SUCCESS", body["transactionResult"])

	// balance restored exactly
	accounts, err := listAccounts(ts, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(5_000), accounts[0].Balance)
}

func listAccounts(ts *httptest.Server, userID int64) ([]accountInfo, error) {
	resp, err := http.Get(ts.URL + "/account?user_id=" + fmt.Sprint(userID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var infos []accountInfo
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		return nil, err
	}
	return infos, nil
}

func TestUseBalanceAmountBelowMinimumRejectedAtBoundary(t *testing.T) {
	ts, _, user := newTestServer(t)
	number := createAccount(t, ts, user.ID, 0)

	// amounts below the minimum never reach the ledger, so no audit
	// record is appended for them
	for _, amount := range []int64{0, 5, 9} {
		resp, body := doJSON(t, http.MethodPost, ts.URL+"/transaction/use", map[string]any{
			"userId": user.ID, "accountNumber": number, "amount": amount,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "amount %d", amount)
		assert.Equal(t, "INVALID_REQUEST", body["errorCode"])
	}
}

func TestUseBalanceInsufficientRecordsFailure(t *testing.T) {
	ts, _, user := newTestServer(t)
	number := createAccount(t, ts, user.ID, 0)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/transaction/use", map[string]any{
		"userId": user.ID, "accountNumber": number, "amount": 500,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_BALANCE", body["errorCode"])

	// balance untouched
	accounts, err := listAccounts(ts, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(0), accounts[0].Balance)
}

func TestUseBalanceUnknownAccount(t *testing.T) {
	ts, _, user := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/transaction/use", map[string]any{
		"userId": user.ID, "accountNumber": "0000000000", "amount": 500,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", body["errorCode"])
}

func TestDeleteAccountEndpoint(t *testing.T) {
	ts, _, user := newTestServer(t)
	number := createAccount(t, ts, user.ID, 0)

	resp, body := doJSON(t, http.MethodDelete, ts.URL+"/account", map[string]any{
		"userId": user.ID, "accountNumber": number,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, number, body["accountNumber"])
	assert.NotEmpty(t, body["unregisteredAt"])
}

func TestDeleteAccountBalanceNotEmpty(t *testing.T) {
	ts, _, user := newTestServer(t)
	number := createAccount(t, ts, user.ID, 100)

	resp, body := doJSON(t, http.MethodDelete, ts.URL+"/account", map[string]any{
		"userId": user.ID, "accountNumber": number,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "BALANCE_NOT_EMPTY", body["errorCode"])
}

func TestQueryTransactionEndpoint(t *testing.T) {
	ts, _, user := newTestServer(t)
	number := createAccount(t, ts, user.ID, 1_000)

	_, body := doJSON(t, http.MethodPost, ts.URL+"/transaction/use", map[string]any{
		"userId": user.ID, "accountNumber": number, "amount": 250,
	})
	txID, _ := body["transactionId"].(string)
	require.NotEmpty(t, txID)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/transaction/"+txID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "USE", body["transactionType"])
	assert.Equal(t, "SUCCESS", body["transactionResult"])
	assert.EqualValues(t, 250, body["amount"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/transaction/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "TRANSACTION_NOT_FOUND", body["errorCode"])
}

func TestCancelPartialAmountRejected(t *testing.T) {
	ts, _, user := newTestServer(t)
	number := createAccount(t, ts, user.ID, 1_000)

	_, body := doJSON(t, http.MethodPost, ts.URL+"/transaction/use", map[string]any{
		"userId": user.ID, "accountNumber": number, "amount": 500,
	})
	txID, _ := body["transactionId"].(string)
	require.NotEmpty(t, txID)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/transaction/cancel", map[string]any{
		"transactionId": txID, "accountNumber": number, "amount": 400,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CANCEL_MUST_BE_FULL", body["errorCode"])
}
