package model

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// BirthDateLayout is the dd-mm-yyyy layout birth dates are entered in
const BirthDateLayout = "02-01-2006"

// CreateCustomerRequest represents the request to register a customer
type CreateCustomerRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	TaxID     string `json:"tax_id"`
	Address   string `json:"address"`
}

// Validate validates the create customer request
func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	if r.TaxID == "" {
		return &ValidationError{Field: "tax_id", Message: "tax id is required"}
	}
	for _, c := range r.TaxID {
		if !unicode.IsDigit(c) {
			return &ValidationError{Field: "tax_id", Message: "tax id must contain digits only"}
		}
	}

	if _, err := r.ParsedBirthDate(); err != nil {
		return &ValidationError{Field: "birth_date", Message: "birth date must be in dd-mm-yyyy format"}
	}

	return nil
}

func (r *CreateCustomerRequest) ParsedBirthDate() (time.Time, error) {
	return time.Parse(BirthDateLayout, strings.TrimSpace(r.BirthDate))
}

// CreateAccountRequest represents the request to open an account for a customer
type CreateAccountRequest struct {
	TaxID string `json:"tax_id"`
}

func (r *CreateAccountRequest) Validate() error {
	if r.TaxID == "" {
		return &ValidationError{Field: "tax_id", Message: "tax id is required"}
	}
	return nil
}

// TransactionRequest represents a deposit or withdrawal. AccountNumber 0
// selects the customer's first account.
type TransactionRequest struct {
	TaxID         string          `json:"tax_id"`
	AccountNumber int             `json:"account_number,omitempty"`
	Kind          Kind            `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
}

// UnmarshalJSON accepts the amount as a JSON number or string and the kind
// in any letter case
func (r *TransactionRequest) UnmarshalJSON(data []byte) error {
	var temp struct {
		TaxID         string      `json:"tax_id"`
		AccountNumber int         `json:"account_number"`
		Kind          string      `json:"kind"`
		Amount        json.Number `json:"amount"`
	}

	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(temp.Amount.String())
	if err != nil {
		return err
	}

	r.TaxID = temp.TaxID
	r.AccountNumber = temp.AccountNumber
	r.Amount = amount
	if kind, ok := ParseKind(temp.Kind); ok {
		r.Kind = kind
	} else {
		r.Kind = Kind(temp.Kind)
	}

	return nil
}

// Validate checks the request shape. Amount rules belong to the account.
func (r *TransactionRequest) Validate() error {
	if r.TaxID == "" {
		return &ValidationError{Field: "tax_id", Message: "tax id is required"}
	}

	if r.Kind != KindDeposit && r.Kind != KindWithdrawal {
		return &ValidationError{Field: "kind", Message: "kind must be deposit or withdrawal"}
	}

	if r.AccountNumber < 0 {
		return &ValidationError{Field: "account_number", Message: "account number cannot be negative"}
	}

	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}
