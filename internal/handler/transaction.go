package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"retail-ledger/internal/model"
	"retail-ledger/internal/repository"
	"retail-ledger/internal/service"
)

const maxRequestBody = 1 << 20

// TransactionHandler handles deposit and withdrawal HTTP requests
type TransactionHandler struct {
	bankService     *service.BankService
	idempotencyRepo *repository.IdempotencyRepository
	logger          *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(bankService *service.BankService, idempotencyRepo *repository.IdempotencyRepository, logger *slog.Logger) *TransactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionHandler{
		bankService:     bankService,
		idempotencyRepo: idempotencyRepo,
		logger:          logger,
	}
}

// CreateTransaction handles POST /v1/transactions. A request carrying an
// Idempotency-Key header is applied at most once; repeats get the stored
// response.
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		writeErrorResponse(w, http.StatusBadRequest, "Content-Type must be application/json", model.ErrCodeInvalidInput)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Unable to read request body", model.ErrCodeInvalidInput)
		return
	}

	var req model.TransactionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid transaction request", model.ErrCodeInvalidInput)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" || h.idempotencyRepo == nil {
		status, payload := h.process(r, &req)
		writeJSON(w, status, payload)
		return
	}

	keyHash := repository.GenerateKeyHash(idempotencyKey)
	if record := h.idempotencyRepo.GetRequest(r.Context(), keyHash); record != nil {
		h.replay(w, record, string(body))
		return
	}

	if !h.idempotencyRepo.StoreRequest(r.Context(), keyHash, string(body)) {
		writeErrorResponse(w, http.StatusConflict, "A request with this idempotency key is in progress", model.ErrCodeConflict)
		return
	}

	status, payload := h.process(r, &req)
	encoded, err := json.Marshal(payload)
	if err != nil {
		h.idempotencyRepo.Release(r.Context(), keyHash)
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", model.ErrCodeInternalError)
		return
	}
	h.idempotencyRepo.UpdateResponse(r.Context(), keyHash, string(encoded), status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(encoded, '\n'))
}

func (h *TransactionHandler) process(r *http.Request, req *model.TransactionRequest) (int, any) {
	response, err := h.bankService.PerformTransaction(r.Context(), req)
	if err != nil {
		status, payload := errorPayload(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("transaction failed", "error", err)
		}
		return status, payload
	}
	return http.StatusCreated, response
}

func (h *TransactionHandler) replay(w http.ResponseWriter, record *repository.IdempotencyRecord, body string) {
	if record.RequestBody != body {
		writeErrorResponse(w, http.StatusConflict, "Idempotency key was used with a different request", model.ErrCodeConflict)
		return
	}
	if record.ResponseBody == nil || record.ResponseStatus == nil {
		writeErrorResponse(w, http.StatusConflict, "A request with this idempotency key is in progress", model.ErrCodeConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(*record.ResponseStatus)
	io.WriteString(w, *record.ResponseBody+"\n")
}
