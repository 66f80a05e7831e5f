package core

import (
	"strings"
)

const (
	// MaxCategoryNameLen bounds spending category names.
	MaxCategoryNameLen = 50
	// MaxMemoLen bounds expenditure memos.
	MaxMemoLen = 200
	// MaxIdentityLen bounds caller/recipient identities.
	MaxIdentityLen = 128
)

type (
	// Donor tracks the cumulative contribution of one identity.
	// Created on first donation, never deleted; TotalDonated only grows.
	Donor struct {
		Identity     string
		TotalDonated Money
	}

	// Category is a named spending bucket. Spent only grows and always
	// equals the sum of approved expenditure amounts referencing it.
	Category struct {
		Name   string
		Active bool
		Spent  Money
	}

	// Expenditure is a proposed, then optionally approved, outbound
	// transfer. IDs are sequential starting at 0. Approved flips false
	// to true exactly once; records are never deleted.
	Expenditure struct {
		ID        int64
		Amount    Money
		Category  string
		Recipient string
		Memo      string
		Approved  bool
	}

	// Proposal carries the inputs of a propose-expenditure call.
	Proposal struct {
		Amount    Money
		Category  string
		Recipient string
		Memo      string
	}
)

// ValidateIdentity checks a caller or recipient identity.
func ValidateIdentity(identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return ErrEmptyIdentity
	}
	if len(identity) > MaxIdentityLen {
		return ErrIdentityTooLong
	}
	return nil
}

// ValidateCategoryName checks a category name against the length bound.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCategory
	}
	if len(name) > MaxCategoryNameLen {
		return ErrCategoryTooLong
	}
	return nil
}

func (p Proposal) Validate() error {
	if p.Amount.Micros <= 0 {
		return ErrInvalidAmount
	}
	if err := ValidateCategoryName(p.Category); err != nil {
		return err
	}
	if err := ValidateIdentity(p.Recipient); err != nil {
		return err
	}
	if len(p.Memo) > MaxMemoLen {
		return ErrMemoTooLong
	}
	return nil
}
