package model

import (
	"github.com/shopspring/decimal"
)

// DefaultBranchCode is the branch every account is opened under
const DefaultBranchCode = "0001"

// Account is the capability shared by every account variant. The set of
// variants is closed to this package.
type Account interface {
	Number() int
	Branch() string
	Balance() decimal.Decimal
	Customer() *Customer
	History() *History
	// Deposit and Withdraw change the balance only. Recording the movement
	// is the transaction's job.
	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error

	account()
}

// BasicAccount enforces balance sufficiency and amount positivity
type BasicAccount struct {
	number   int
	branch   string
	balance  decimal.Decimal
	customer *Customer
	history  *History
}

// NewBasicAccount opens an empty account for customer
func NewBasicAccount(customer *Customer, number int, clock Clock) *BasicAccount {
	return &BasicAccount{
		number:   number,
		branch:   DefaultBranchCode,
		balance:  decimal.Zero,
		customer: customer,
		history:  NewHistory(clock),
	}
}

func (a *BasicAccount) Number() int              { return a.number }
func (a *BasicAccount) Branch() string           { return a.branch }
func (a *BasicAccount) Balance() decimal.Decimal { return a.balance }
func (a *BasicAccount) Customer() *Customer      { return a.customer }
func (a *BasicAccount) History() *History        { return a.history }
func (*BasicAccount) account()                   {}

// Deposit adds a strictly positive amount with at most two decimal places
// to the balance
func (a *BasicAccount) Deposit(amount decimal.Decimal) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// Withdraw subtracts amount from the balance. Sufficiency is checked
// before positivity.
func (a *BasicAccount) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// MoneyPlaces is the number of decimal places a balance carries
const MoneyPlaces = 2

func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Truncate(MoneyPlaces))
}

// Checking account defaults
var (
	DefaultWithdrawalCeiling      = decimal.NewFromInt(500)
	DefaultWithdrawalCountCeiling = 3
)

// CheckingAccount caps the amount of a single withdrawal and the number of
// withdrawals over the account lifetime
type CheckingAccount struct {
	BasicAccount
	withdrawalCeiling      decimal.Decimal
	withdrawalCountCeiling int
}

// CheckingOption customizes a CheckingAccount at creation
type CheckingOption func(*CheckingAccount)

func WithWithdrawalCeiling(ceiling decimal.Decimal) CheckingOption {
	return func(a *CheckingAccount) {
		a.withdrawalCeiling = ceiling
	}
}

func WithWithdrawalCountCeiling(n int) CheckingOption {
	return func(a *CheckingAccount) {
		a.withdrawalCountCeiling = n
	}
}

// NewCheckingAccount opens an empty checking account for customer
func NewCheckingAccount(customer *Customer, number int, clock Clock, opts ...CheckingOption) *CheckingAccount {
	a := &CheckingAccount{
		BasicAccount:           *NewBasicAccount(customer, number, clock),
		withdrawalCeiling:      DefaultWithdrawalCeiling,
		withdrawalCountCeiling: DefaultWithdrawalCountCeiling,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *CheckingAccount) WithdrawalCeiling() decimal.Decimal { return a.withdrawalCeiling }
func (a *CheckingAccount) WithdrawalCountCeiling() int        { return a.withdrawalCountCeiling }

// Withdraw checks the amount ceiling, then the withdrawal count, then
// defers to the basic balance rules
func (a *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(a.withdrawalCeiling) {
		return ErrWithdrawalLimitExceeded
	}
	if a.history.CountKind(KindWithdrawal) >= a.withdrawalCountCeiling {
		return ErrWithdrawalCountExceeded
	}
	return a.BasicAccount.Withdraw(amount)
}
