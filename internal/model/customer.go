package model

import "time"

// DefaultDailyTransactionLimit is how many operations an account accepts per day
const DefaultDailyTransactionLimit = 2

// Customer is an individual account holder
type Customer struct {
	Name      string
	BirthDate time.Time
	TaxID     string
	Address   string

	dailyLimit int
	accounts   []Account
}

// CustomerOption customizes a Customer at creation
type CustomerOption func(*Customer)

func WithDailyTransactionLimit(n int) CustomerOption {
	return func(c *Customer) {
		c.dailyLimit = n
	}
}

// NewCustomer creates a customer without accounts
func NewCustomer(name string, birthDate time.Time, taxID, address string, opts ...CustomerOption) *Customer {
	c := &Customer{
		Name:       name,
		BirthDate:  birthDate,
		TaxID:      taxID,
		Address:    address,
		dailyLimit: DefaultDailyTransactionLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PerformTransaction applies tx to account unless the account already
// reached the daily transaction limit
func (c *Customer) PerformTransaction(account Account, tx Transaction) error {
	if len(account.History().TodayRecords()) >= c.dailyLimit {
		return ErrDailyLimitExceeded
	}
	return tx.Apply(account)
}

// AddAccount appends account. Duplicates are accepted.
func (c *Customer) AddAccount(account Account) {
	c.accounts = append(c.accounts, account)
}

// Accounts returns the owned accounts in the order they were added
func (c *Customer) Accounts() []Account {
	out := make([]Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

func (c *Customer) FirstAccount() (Account, bool) {
	if len(c.accounts) == 0 {
		return nil, false
	}
	return c.accounts[0], true
}

func (c *Customer) DailyTransactionLimit() int {
	return c.dailyLimit
}
