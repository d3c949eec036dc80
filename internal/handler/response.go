package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"retail-ledger/internal/model"
	"retail-ledger/internal/service"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSON(w, statusCode, model.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// statusForCode maps service error codes to HTTP statuses
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeCustomerNotFound, model.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidation, model.ErrCodeInvalidInput, model.ErrCodeInvalidAmount:
		return http.StatusBadRequest
	case model.ErrCodeInsufficientFunds,
		model.ErrCodeWithdrawalLimitExceeded,
		model.ErrCodeWithdrawalCountExceeded,
		model.ErrCodeDailyLimitExceeded:
		return http.StatusUnprocessableEntity
	case model.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorPayload converts service errors to a status and response body
func errorPayload(err error) (int, model.ErrorResponse) {
	var serviceErr *service.ServiceError
	if errors.As(err, &serviceErr) {
		status := statusForCode(serviceErr.Code)
		if status != http.StatusInternalServerError {
			return status, model.ErrorResponse{Error: serviceErr.Message, Code: serviceErr.Code}
		}
	}

	// Unknown error
	return http.StatusInternalServerError, model.ErrorResponse{
		Error: "Internal server error",
		Code:  model.ErrCodeInternalError,
	}
}

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	status, payload := errorPayload(err)
	writeJSON(w, status, payload)
}
