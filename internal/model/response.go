package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Version   string      `json:"version"`
	Audit     AuditHealth `json:"audit"`
}

// AuditHealth represents audit store status
type AuditHealth struct {
	Driver string `json:"driver"`
	Status string `json:"status"`
}

// Common error codes
const (
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeCustomerNotFound        = "CUSTOMER_NOT_FOUND"
	ErrCodeAccountNotFound         = "ACCOUNT_NOT_FOUND"
	ErrCodeInternalError           = "INTERNAL_ERROR"
	ErrCodeInvalidAmount           = "INVALID_AMOUNT"
	ErrCodeInsufficientFunds       = "INSUFFICIENT_FUNDS"
	ErrCodeWithdrawalLimitExceeded = "WITHDRAWAL_LIMIT_EXCEEDED"
	ErrCodeWithdrawalCountExceeded = "WITHDRAWAL_COUNT_EXCEEDED"
	ErrCodeDailyLimitExceeded      = "DAILY_LIMIT_EXCEEDED"
	ErrCodeInvalidInput            = "INVALID_INPUT"
	ErrCodeConflict                = "CONFLICT"
)

// CustomerResponse represents a customer and the numbers of its accounts
type CustomerResponse struct {
	Name                  string `json:"name"`
	BirthDate             string `json:"birth_date"`
	TaxID                 string `json:"tax_id"`
	Address               string `json:"address"`
	Accounts              []int  `json:"accounts"`
	DailyTransactionLimit int    `json:"daily_transaction_limit"`
}

func NewCustomerResponse(c *Customer) *CustomerResponse {
	resp := &CustomerResponse{
		Name:                  c.Name,
		BirthDate:             c.BirthDate.Format(BirthDateLayout),
		TaxID:                 c.TaxID,
		Address:               c.Address,
		Accounts:              make([]int, 0, len(c.accounts)),
		DailyTransactionLimit: c.DailyTransactionLimit(),
	}
	for _, a := range c.accounts {
		resp.Accounts = append(resp.Accounts, a.Number())
	}
	return resp
}

// AccountResponse represents an account summary
type AccountResponse struct {
	Branch  string          `json:"branch"`
	Number  int             `json:"number"`
	Holder  string          `json:"holder"`
	TaxID   string          `json:"tax_id"`
	Balance decimal.Decimal `json:"balance"`
}

func NewAccountResponse(a Account) *AccountResponse {
	resp := &AccountResponse{
		Branch:  a.Branch(),
		Number:  a.Number(),
		Balance: a.Balance(),
	}
	if c := a.Customer(); c != nil {
		resp.Holder = c.Name
		resp.TaxID = c.TaxID
	}
	return resp
}

// TransactionResponse represents an accepted deposit or withdrawal
type TransactionResponse struct {
	Account AccountResponse `json:"account"`
	Record  Record          `json:"record"`
}

// StatementResponse represents the history of an account and its balance
type StatementResponse struct {
	Account AccountResponse `json:"account"`
	Records []Record        `json:"records"`
	Balance decimal.Decimal `json:"balance"`
}
