package handler

import (
	"encoding/json"
	"net/http"

	"retail-ledger/internal/model"
	"retail-ledger/internal/service"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	bankService *service.BankService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(bankService *service.BankService) *CustomerHandler {
	return &CustomerHandler{bankService: bankService}
}

// CreateCustomer handles POST /v1/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON", model.ErrCodeInvalidInput)
		return
	}

	response, err := h.bankService.CreateCustomer(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// GetCustomer handles GET /v1/customers/{tax_id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	taxID := r.PathValue("tax_id")
	if taxID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Tax id is required", model.ErrCodeInvalidInput)
		return
	}

	response, err := h.bankService.GetCustomer(r.Context(), taxID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
