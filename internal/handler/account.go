package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"retail-ledger/internal/model"
	"retail-ledger/internal/service"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	bankService *service.BankService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(bankService *service.BankService) *AccountHandler {
	return &AccountHandler{bankService: bankService}
}

// CreateAccount handles POST /v1/accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON", model.ErrCodeInvalidInput)
		return
	}

	response, err := h.bankService.CreateAccount(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// ListAccounts handles GET /v1/accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.bankService.ListAccounts(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// GetAccount handles GET /v1/accounts/{number}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	response, err := h.bankService.GetAccount(r.Context(), number)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// GetStatement handles GET /v1/accounts/{number}/statement
func (h *AccountHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	response, err := h.bankService.Statement(r.Context(), query.Get("tax_id"), number, query.Get("kind"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// accountNumber extracts a positive account number from the path
func accountNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid account number", model.ErrCodeInvalidInput)
		return 0, false
	}
	return number, true
}
