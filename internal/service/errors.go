package service

import (
	"errors"

	"retail-ledger/internal/model"
	"retail-ledger/internal/repository"
)

// ServiceError represents a service-level error
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

var ruleErrors = []struct {
	err     error
	code    string
	message string
}{
	{model.ErrInvalidAmount, model.ErrCodeInvalidAmount, "The amount informed is invalid"},
	{model.ErrInsufficientFunds, model.ErrCodeInsufficientFunds, "Insufficient balance"},
	{model.ErrWithdrawalLimitExceeded, model.ErrCodeWithdrawalLimitExceeded, "Withdrawal amount exceeds the limit"},
	{model.ErrWithdrawalCountExceeded, model.ErrCodeWithdrawalCountExceeded, "Maximum number of withdrawals exceeded"},
	{model.ErrDailyLimitExceeded, model.ErrCodeDailyLimitExceeded, "Number of transactions allowed for today exceeded"},
	{repository.ErrCustomerNotFound, model.ErrCodeCustomerNotFound, "Customer not found"},
	{repository.ErrAccountNotFound, model.ErrCodeAccountNotFound, "Account not found"},
	{repository.ErrCustomerAlreadyExists, model.ErrCodeConflict, "A customer with this tax id already exists"},
}

// translateError converts domain and repository errors into ServiceErrors
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return err
	}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return &ServiceError{
			Code:    model.ErrCodeValidation,
			Message: validationErr.Message,
			Err:     err,
		}
	}

	for _, re := range ruleErrors {
		if errors.Is(err, re.err) {
			return &ServiceError{Code: re.code, Message: re.message, Err: err}
		}
	}

	return err
}

// ErrorCode returns the ServiceError code of err, or INTERNAL_ERROR
func ErrorCode(err error) string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return model.ErrCodeInternalError
}
