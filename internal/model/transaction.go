package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags a recorded transaction
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// ParseKind matches s case-insensitively against the known kinds
func ParseKind(s string) (Kind, bool) {
	switch {
	case strings.EqualFold(s, string(KindDeposit)):
		return KindDeposit, true
	case strings.EqualFold(s, string(KindWithdrawal)):
		return KindWithdrawal, true
	}
	return "", false
}

// Transaction is a single monetary movement that can be applied to an account.
// The set of implementations is closed to this package.
type Transaction interface {
	Kind() Kind
	Amount() decimal.Decimal
	// Apply runs the movement against account and records it in the
	// account history when the account accepts it.
	Apply(account Account) error

	transaction()
}

// Deposit credits an account
type Deposit struct {
	amount decimal.Decimal
}

// NewDeposit creates a deposit of amount
func NewDeposit(amount decimal.Decimal) Deposit {
	return Deposit{amount: amount}
}

func (d Deposit) Kind() Kind              { return KindDeposit }
func (d Deposit) Amount() decimal.Decimal { return d.amount }
func (Deposit) transaction()              {}

func (d Deposit) Apply(account Account) error {
	if err := account.Deposit(d.amount); err != nil {
		return err
	}
	account.History().Record(d)
	return nil
}

// Withdrawal debits an account
type Withdrawal struct {
	amount decimal.Decimal
}

// NewWithdrawal creates a withdrawal of amount
func NewWithdrawal(amount decimal.Decimal) Withdrawal {
	return Withdrawal{amount: amount}
}

func (w Withdrawal) Kind() Kind              { return KindWithdrawal }
func (w Withdrawal) Amount() decimal.Decimal { return w.amount }
func (Withdrawal) transaction()              {}

func (w Withdrawal) Apply(account Account) error {
	if err := account.Withdraw(w.amount); err != nil {
		return err
	}
	account.History().Record(w)
	return nil
}

// NewTransaction builds the transaction variant for kind
func NewTransaction(kind Kind, amount decimal.Decimal) (Transaction, error) {
	switch kind {
	case KindDeposit:
		return NewDeposit(amount), nil
	case KindWithdrawal:
		return NewWithdrawal(amount), nil
	}
	return nil, &ValidationError{
		Field:   "kind",
		Message: "kind must be deposit or withdrawal",
	}
}
