package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateIdentity(t *testing.T) {
	if err := ValidateIdentity("ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"); err != nil {
		t.Errorf("valid identity rejected: %v", err)
	}
	if err := ValidateIdentity(""); !errors.Is(err, ErrEmptyIdentity) {
		t.Errorf("empty identity: got %v, want ErrEmptyIdentity", err)
	}
	if err := ValidateIdentity("   "); !errors.Is(err, ErrEmptyIdentity) {
		t.Errorf("blank identity: got %v, want ErrEmptyIdentity", err)
	}
	if err := ValidateIdentity(strings.Repeat("x", MaxIdentityLen+1)); !errors.Is(err, ErrIdentityTooLong) {
		t.Errorf("overlong identity: got %v, want ErrIdentityTooLong", err)
	}
}

func TestValidateCategoryName(t *testing.T) {
	if err := ValidateCategoryName("Events"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateCategoryName(""); !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("empty name: got %v, want ErrEmptyCategory", err)
	}
	if err := ValidateCategoryName(strings.Repeat("a", MaxCategoryNameLen+1)); !errors.Is(err, ErrCategoryTooLong) {
		t.Errorf("overlong name: got %v, want ErrCategoryTooLong", err)
	}
}

func TestProposalValidate(t *testing.T) {
	valid := Proposal{
		Amount:    Money{Micros: 1_000_000},
		Category:  "Events",
		Recipient: "ST2JHG361ZXG51QTKY2NQCVBPPRRE2KZB1HR05NNC",
		Memo:      "Campaign Rally Venue",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid proposal rejected: %v", err)
	}

	t.Run("zero amount", func(t *testing.T) {
		p := valid
		p.Amount = Money{}
		if err := p.Validate(); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("got %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("missing recipient", func(t *testing.T) {
		p := valid
		p.Recipient = ""
		if err := p.Validate(); !errors.Is(err, ErrEmptyIdentity) {
			t.Errorf("got %v, want ErrEmptyIdentity", err)
		}
	})

	t.Run("overlong memo", func(t *testing.T) {
		p := valid
		p.Memo = strings.Repeat("m", MaxMemoLen+1)
		if err := p.Validate(); !errors.Is(err, ErrMemoTooLong) {
			t.Errorf("got %v, want ErrMemoTooLong", err)
		}
	})
}

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrBelowMinimum, CodeBelowMinimum},
		{ErrNotAuthorized, CodeNotAuthorized},
		{ErrUnknownCategory, CodeUnknownCategory},
		{ErrAlreadyExists, CodeAlreadyExists},
		{ErrInvalidAmount, CodeInvalidAmount},
		{ErrNotFound, CodeNotFound},
		{ErrAlreadyApproved, CodeAlreadyApproved},
		{ErrInsufficientFunds, CodeInsufficientFunds},
		{ErrEmptyIdentity, CodeInvalidInput},
		{ErrMemoTooLong, CodeInvalidInput},
		{errors.New("boom"), CodeInternal},
	}
	for _, tc := range cases {
		if got := ErrorCode(tc.err); got != tc.want {
			t.Errorf("ErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
