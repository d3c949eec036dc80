package repository

import (
	"context"
	"sync"

	"retail-ledger/internal/model"
)

// AccountRepository is the in-memory account directory. Numbers are
// sequential starting at 1.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts []model.Account
	byNumber map[int]model.Account
}

// NewAccountRepository creates an empty account directory
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byNumber: make(map[int]model.Account)}
}

// Create assigns the next account number, builds the account with open and
// stores it
func (r *AccountRepository) Create(ctx context.Context, open func(number int) model.Account) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	number := len(r.accounts) + 1
	account := open(number)
	r.accounts = append(r.accounts, account)
	r.byNumber[number] = account
	return account, nil
}

// GetByNumber retrieves an account by its number
func (r *AccountRepository) GetByNumber(ctx context.Context, number int) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byNumber[number]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// List returns all accounts ordered by number
func (r *AccountRepository) List(ctx context.Context) []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}
