package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-ledger/internal/model"
	"retail-ledger/internal/repository"
	"retail-ledger/internal/service"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func newTestRouter(t *testing.T) (http.Handler, *fixedClock) {
	t.Helper()
	clock := &fixedClock{now: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewBankService(
		repository.NewCustomerRepository(),
		repository.NewAccountRepository(),
		nil,
		service.DefaultLimits(),
		clock,
		logger,
	)
	router := NewRouter(
		logger,
		NewHealthHandler(nil, "file", "test"),
		NewCustomerHandler(svc),
		NewAccountHandler(svc),
		NewTransactionHandler(svc, repository.NewIdempotencyRepository(clock, 0), logger),
	)
	return router, clock
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func seed(t *testing.T, h http.Handler) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/customers",
		`{"name":"Ana Souza","birth_date":"01-02-1990","tax_id":"123","address":"Rua A, 1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/v1/accounts", `{"tax_id":"123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCustomerEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)
	seed(t, h)

	rec := do(t, h, http.MethodGet, "/v1/customers/123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cust := decode[model.CustomerResponse](t, rec)
	assert.Equal(t, "Ana Souza", cust.Name)
	assert.Equal(t, []int{1}, cust.Accounts)
	assert.Equal(t, 2, cust.DailyTransactionLimit)

	rec = do(t, h, http.MethodPost, "/v1/customers",
		`{"name":"Dup","birth_date":"01-02-1990","tax_id":"123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, model.ErrCodeConflict, decode[model.ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/v1/customers", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/customers", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeInvalidInput, decode[model.ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodGet, "/v1/customers/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.ErrCodeCustomerNotFound, decode[model.ErrorResponse](t, rec).Code)
}

func TestAccountEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)
	seed(t, h)

	rec := do(t, h, http.MethodGet, "/v1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Accounts []model.AccountResponse `json:"accounts"`
		Count    int                     `json:"count"`
	}](t, rec)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "0001", list.Accounts[0].Branch)

	rec = do(t, h, http.MethodGet, "/v1/accounts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana Souza", decode[model.AccountResponse](t, rec).Holder)

	rec = do(t, h, http.MethodGet, "/v1/accounts/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/accounts/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/accounts", `{"tax_id":"404"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/v1/accounts/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTransactionEndpoints(t *testing.T) {
	h, clock := newTestRouter(t)
	seed(t, h)

	rec := do(t, h, http.MethodPost, "/v1/transactions", `{"tax_id":"123","kind":"deposit","amount":"1000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tx := decode[model.TransactionResponse](t, rec)
	assert.Equal(t, "1000", tx.Account.Balance.String())
	assert.Equal(t, model.KindDeposit, tx.Record.Kind)

	rec = do(t, h, http.MethodPost, "/v1/transactions", `{"tax_id":"123","account_number":1,"kind":"WITHDRAWAL","amount":500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/v1/transactions", `{"tax_id":"123","kind":"withdrawal","amount":"500"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, model.ErrCodeDailyLimitExceeded, decode[model.ErrorResponse](t, rec).Code)

	clock.now = clock.now.Add(24 * time.Hour)
	rec = do(t, h, http.MethodPost, "/v1/transactions", `{"tax_id":"123","kind":"withdrawal","amount":"500.01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, model.ErrCodeWithdrawalLimitExceeded, decode[model.ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/v1/transactions", `{"tax_id":"123","kind":"deposit","amount":"0"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeInvalidAmount, decode[model.ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/v1/transactions", `{"tax_id":"123","kind":"deposit","amount":"0.005"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeInvalidAmount, decode[model.ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/v1/transactions", `{"tax_id":"123","kind":"transfer","amount":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeValidation, decode[model.ErrorResponse](t, rec).Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	plain := httptest.NewRecorder()
	h.ServeHTTP(plain, req)
	assert.Equal(t, http.StatusBadRequest, plain.Code)

	rec = do(t, h, http.MethodGet, "/v1/accounts/1/statement", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeValidation, decode[model.ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodGet, "/v1/accounts/1/statement?tax_id=999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/accounts/1/statement?tax_id=123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[model.StatementResponse](t, rec)
	require.Len(t, st.Records, 2)
	assert.Equal(t, "500", st.Balance.String())

	rec = do(t, h, http.MethodGet, "/v1/accounts/1/statement?kind=withdrawal&tax_id=123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[model.StatementResponse](t, rec)
	require.Len(t, st.Records, 1)
	assert.Equal(t, model.KindWithdrawal, st.Records[0].Kind)
}

func TestTransactionIdempotency(t *testing.T) {
	h, _ := newTestRouter(t)
	seed(t, h)

	body := `{"tax_id":"123","kind":"deposit","amount":"100"}`
	first := do(t, h, http.MethodPost, "/v1/transactions", body, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := do(t, h, http.MethodPost, "/v1/transactions", body, "Idempotency-Key", "k-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	other := do(t, h, http.MethodPost, "/v1/transactions",
		`{"tax_id":"123","kind":"deposit","amount":"5"}`, "Idempotency-Key", "k-1")
	assert.Equal(t, http.StatusConflict, other.Code)

	rec := do(t, h, http.MethodGet, "/v1/accounts/1/statement?tax_id=123", "")
	st := decode[model.StatementResponse](t, rec)
	assert.Len(t, st.Records, 1, "replayed request must not be applied twice")
	assert.Equal(t, "100", st.Balance.String())
}

func TestErrorPayload(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "service error",
			err:        &service.ServiceError{Code: model.ErrCodeConflict, Message: "exists"},
			wantStatus: http.StatusConflict,
			wantCode:   model.ErrCodeConflict,
		},
		{
			name:       "wrapped service error",
			err:        fmt.Errorf("create customer: %w", &service.ServiceError{Code: model.ErrCodeCustomerNotFound, Message: "Customer not found"}),
			wantStatus: http.StatusNotFound,
			wantCode:   model.ErrCodeCustomerNotFound,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   model.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorPayload(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
		wantHealth string
	}{
		{name: "file sink", pinger: nil, wantStatus: http.StatusOK, wantHealth: "healthy"},
		{name: "reachable database", pinger: stubPinger{}, wantStatus: http.StatusOK, wantHealth: "healthy"},
		{name: "unreachable database", pinger: stubPinger{err: errors.New("down")}, wantStatus: http.StatusServiceUnavailable, wantHealth: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pinger, "sqlite3", "1.0.0")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decode[model.HealthResponse](t, rec)
			assert.Equal(t, tt.wantHealth, resp.Status)
			assert.Equal(t, "sqlite3", resp.Audit.Driver)
			assert.Equal(t, "1.0.0", resp.Version)
		})
	}

	rec := httptest.NewRecorder()
	NewHealthHandler(nil, "file", "1").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodOptions, "/v1/transactions", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}
