package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// NewRouter wires the API routes behind logging and CORS middleware
func NewRouter(
	logger *slog.Logger,
	healthHandler *HealthHandler,
	customerHandler *CustomerHandler,
	accountHandler *AccountHandler,
	transactionHandler *TransactionHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/healthz", healthHandler)

	mux.HandleFunc("POST /v1/customers", customerHandler.CreateCustomer)
	mux.HandleFunc("GET /v1/customers/{tax_id}", customerHandler.GetCustomer)

	mux.HandleFunc("POST /v1/accounts", accountHandler.CreateAccount)
	mux.HandleFunc("GET /v1/accounts", accountHandler.ListAccounts)
	mux.HandleFunc("GET /v1/accounts/{number}", accountHandler.GetAccount)
	mux.HandleFunc("GET /v1/accounts/{number}/statement", accountHandler.GetStatement)

	mux.HandleFunc("POST /v1/transactions", transactionHandler.CreateTransaction)

	return corsMiddleware(loggingMiddleware(logger, mux))
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Capture the status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
