package repository

import (
	"context"
	"sync"

	"retail-ledger/internal/model"
)

// CustomerRepository is the in-memory customer directory, keyed by tax id
type CustomerRepository struct {
	mu        sync.RWMutex
	customers []*model.Customer
	byTaxID   map[string]*model.Customer
}

// NewCustomerRepository creates an empty customer directory
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{byTaxID: make(map[string]*model.Customer)}
}

// Create stores a customer. Tax ids are unique.
func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTaxID[customer.TaxID]; exists {
		return ErrCustomerAlreadyExists
	}
	r.byTaxID[customer.TaxID] = customer
	r.customers = append(r.customers, customer)
	return nil
}

// GetByTaxID retrieves a customer by tax id
func (r *CustomerRepository) GetByTaxID(ctx context.Context, taxID string) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byTaxID[taxID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

// Exists checks if a customer with the tax id is registered
func (r *CustomerRepository) Exists(ctx context.Context, taxID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byTaxID[taxID]
	return ok
}

// List returns customers in registration order
func (r *CustomerRepository) List(ctx context.Context) []*model.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Customer, len(r.customers))
	copy(out, r.customers)
	return out
}
