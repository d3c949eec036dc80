package repository

import "errors"

// Repository errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer with this tax id already exists")
	ErrAccountNotFound       = errors.New("account not found")
	ErrUnsupportedDriver     = errors.New("unsupported audit driver")
)
