// Package errors holds errors exposed by the crm services.
package errors

import "fmt"

var (
	ErrNotFound           = fmt.Errorf("not found")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrPermissionDenied   = fmt.Errorf("permission denied")
	ErrInvalidCredentials = fmt.Errorf("incorrect username or password")
	ErrDuplicateUsername  = fmt.Errorf("username already taken")
	ErrDuplicateEmail     = fmt.Errorf("email already registered")
	ErrDuplicateEmployee  = fmt.Errorf("employee number already registered")
	ErrContractNotSigned  = fmt.Errorf("contract is not signed")
	ErrSessionExpired     = fmt.Errorf("session expired")
	ErrNoSession          = fmt.Errorf("no stored session")
)
