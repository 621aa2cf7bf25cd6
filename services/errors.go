package services

import "errors"

// Sentinel errors returned by the services. Callers match them with errors.Is;
// wrapped messages carry the detail.
var (
	ErrTenantNotFound         = errors.New("tenant not found")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrValidation             = errors.New("validation failed")
	ErrDuplicatePhone         = errors.New("phone number already exists")
	ErrDuplicateTenant        = errors.New("tenant already exists")
	ErrDuplicateUser          = errors.New("user already exists")
	ErrCustomerHasHistory     = errors.New("customer has orders or payments")
	ErrConcurrentModification = errors.New("record changed by another request")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrArchiveDisabled        = errors.New("report archiving is not configured")
	ErrForbidden              = errors.New("not permitted for this role")
)
