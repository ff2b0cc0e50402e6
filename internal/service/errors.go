package service

import (
	"errors"

	"invest_platform/internal/repository"
)

// Validation errors, corrected by the user
var (
	ErrInvalidAmount  = errors.New("amount must be a positive number")
	ErrBelowMinimum   = errors.New("withdrawal amount is below the minimum")
	ErrWalletRequired = errors.New("wallet address is required")
	ErrUnknownNetwork = errors.New("deposit network is not supported")
	ErrPasswordShort  = errors.New("password is too short")
	ErrInvalidEmail   = errors.New("email is invalid")
)

// Authorization errors, always fail closed
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("admin access required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// State errors
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotPending          = repository.ErrNotPending
	ErrStore               = errors.New("store unavailable")
)
