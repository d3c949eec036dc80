package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"retail-ledger/internal/model"
)

// DefaultIdempotencyTTL is how long a stored response can be replayed
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyRepository keeps the responses of keyed requests in memory
type IdempotencyRepository struct {
	mu      sync.Mutex
	clock   model.Clock
	ttl     time.Duration
	records map[string]*IdempotencyRecord
}

// NewIdempotencyRepository creates an idempotency store with the given TTL
func NewIdempotencyRepository(clock model.Clock, ttl time.Duration) *IdempotencyRepository {
	if clock == nil {
		clock = model.SystemClock{}
	}
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyRepository{
		clock:   clock,
		ttl:     ttl,
		records: make(map[string]*IdempotencyRecord),
	}
}

// IdempotencyRecord represents a stored idempotency key
type IdempotencyRecord struct {
	KeyHash        string
	RequestBody    string
	ResponseBody   *string
	ResponseStatus *int
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// GenerateKeyHash generates a SHA-256 hash of an idempotency key
func GenerateKeyHash(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// StoreRequest stores an idempotency key with the request body. It reports
// false when a live record already holds the key.
func (r *IdempotencyRepository) StoreRequest(ctx context.Context, keyHash, requestBody string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if rec, ok := r.records[keyHash]; ok && rec.ExpiresAt.After(now) {
		return false
	}

	r.records[keyHash] = &IdempotencyRecord{
		KeyHash:     keyHash,
		RequestBody: requestBody,
		CreatedAt:   now,
		ExpiresAt:   now.Add(r.ttl),
	}
	return true
}

// GetRequest retrieves a live idempotency record. A missing or expired key
// returns nil.
func (r *IdempotencyRepository) GetRequest(ctx context.Context, keyHash string) *IdempotencyRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[keyHash]
	if !ok || !rec.ExpiresAt.After(r.clock.Now()) {
		return nil
	}
	cp := *rec
	return &cp
}

// UpdateResponse updates the response for an idempotency key
func (r *IdempotencyRepository) UpdateResponse(ctx context.Context, keyHash, responseBody string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[keyHash]
	if !ok {
		return
	}
	rec.ResponseBody = &responseBody
	rec.ResponseStatus = &status
}

// Release drops a key whose request did not produce a response
func (r *IdempotencyRepository) Release(ctx context.Context, keyHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, keyHash)
}

// CleanupExpired removes expired idempotency keys
func (r *IdempotencyRepository) CleanupExpired(ctx context.Context) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	var removed int64
	for k, rec := range r.records {
		if !rec.ExpiresAt.After(now) {
			delete(r.records, k)
			removed++
		}
	}
	return removed
}
