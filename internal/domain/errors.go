package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a bank, category or user lookup finds nothing
	ErrNotFound = errors.New("not found")

	// ErrSessionExpired is returned when flow sub-state expected to be present is absent
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidInput is returned on out-of-range or non-numeric user input;
	// flow position is preserved so the user can retry
	ErrInvalidInput = errors.New("invalid input")

	// ErrBankLimit and ErrCategoryLimit both wrap ErrLimitExceeded so callers
	// can special-case upsell wording with errors.Is
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrBankLimit     = fmt.Errorf("bank %w", ErrLimitExceeded)
	ErrCategoryLimit = fmt.Errorf("category %w", ErrLimitExceeded)

	// ErrDuplicate is returned when a favorite already exists for the pair
	ErrDuplicate = errors.New("already exists")
)
