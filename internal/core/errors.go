package core

import "errors"

// Every failure an operation can surface is a value-returned sentinel.
// No error is fatal to the ledger: state stays valid and later calls
// proceed normally.
var (
	ErrBelowMinimum      = errors.New("donation below minimum")
	ErrNotAuthorized     = errors.New("caller is not the ledger owner")
	ErrUnknownCategory   = errors.New("unknown or inactive category")
	ErrAlreadyExists     = errors.New("category already exists")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyApproved   = errors.New("expenditure already approved")
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrEmptyIdentity   = errors.New("empty identity")
	ErrIdentityTooLong = errors.New("identity too long")
	ErrEmptyCategory   = errors.New("empty category name")
	ErrCategoryTooLong = errors.New("category name too long")
	ErrMemoTooLong     = errors.New("memo too long")
)

// Wire codes surfaced to external callers.
const (
	CodeBelowMinimum      = "ERR-BELOW-MINIMUM"
	CodeNotAuthorized     = "ERR-NOT-AUTHORIZED"
	CodeUnknownCategory   = "ERR-UNKNOWN-CATEGORY"
	CodeAlreadyExists     = "ERR-ALREADY-EXISTS"
	CodeInvalidAmount     = "ERR-INVALID-AMOUNT"
	CodeNotFound          = "ERR-NOT-FOUND"
	CodeAlreadyApproved   = "ERR-ALREADY-APPROVED"
	CodeInsufficientFunds = "ERR-INSUFFICIENT-FUNDS"
	CodeInvalidInput      = "ERR-INVALID-INPUT"
	CodeInternal          = "ERR-INTERNAL"
)

// ErrorCode maps an operation error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBelowMinimum):
		return CodeBelowMinimum
	case errors.Is(err, ErrNotAuthorized):
		return CodeNotAuthorized
	case errors.Is(err, ErrUnknownCategory):
		return CodeUnknownCategory
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAlreadyApproved):
		return CodeAlreadyApproved
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrEmptyIdentity),
		errors.Is(err, ErrIdentityTooLong),
		errors.Is(err, ErrEmptyCategory),
		errors.Is(err, ErrCategoryTooLong),
		errors.Is(err, ErrMemoTooLong):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}
