// Package ledger defines the contract every ledger backend implements and
// the authorization guard gating privileged mutations.
package ledger

import (
	"context"

	"fondo/internal/core"
)

// Store is the authoritative ledger state machine. Operations are applied
// one at a time; each either fully commits its effects or fails with no
// observable partial state. Reads reflect the last committed state.
type Store interface {
	// Donate records a contribution by caller. Amounts below the
	// configured minimum fail with core.ErrBelowMinimum.
	Donate(ctx context.Context, caller string, amount core.Money) (core.Donor, error)

	// AddCategory creates a named spending bucket with Active=true and
	// Spent=0. Owner only. Existing names fail with core.ErrAlreadyExists.
	AddCategory(ctx context.Context, caller, name string) (core.Category, error)

	// ProposeExpenditure allocates the next sequential id (starting at 0)
	// and records the expenditure unapproved. Owner only; the category
	// must exist and be active. Balance is not checked at proposal time.
	ProposeExpenditure(ctx context.Context, caller string, p core.Proposal) (int64, error)

	// ApproveExpenditure flips the expenditure to approved, decrements
	// the balance and increments the category's spent in one atomic step.
	// Owner only; fails without mutation on unknown ids, re-approval, or
	// insufficient balance.
	ApproveExpenditure(ctx context.Context, caller string, id int64) (core.Expenditure, error)

	Balance(ctx context.Context) (core.Money, error)
	// DonorInfo returns a zero record for identities that never donated.
	DonorInfo(ctx context.Context, identity string) (core.Donor, error)
	CategoryInfo(ctx context.Context, name string) (core.Category, error)
	Expenditure(ctx context.Context, id int64) (core.Expenditure, error)

	Close() error
}

// PayoutQueue tracks which approved expenditures still need their outbound
// transfer published to the disclosure pipeline. Payout state is bookkeeping
// beside the accounting records; it never affects balances.
type PayoutQueue interface {
	// PendingPayouts lists approved expenditures not yet paid out,
	// oldest first, up to limit.
	PendingPayouts(ctx context.Context, limit int) ([]core.Expenditure, error)
	// MarkPaidOut records that the transfer for id was disclosed.
	MarkPaidOut(ctx context.Context, id int64) error
	// MarkPayoutError records a failed disclosure attempt for id.
	MarkPayoutError(ctx context.Context, id int64) error
}
