package services

import (
	"context"
	"fmt"
	"log/slog"

	"fondo/internal/amqp"
	"fondo/internal/core"
	"fondo/internal/ledger"
)

// LedgerService orchestrates ledger operations across the store and AMQP.
// The store commit always happens first; the payout message is published
// best-effort afterwards, and the worker's pending-payout scan picks up
// anything that slipped through.
type LedgerService struct {
	store      ledger.Store
	amqpClient *amqp.Client
}

func NewLedgerService(store ledger.Store, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// Donate records a contribution.
func (s *LedgerService) Donate(ctx context.Context, caller string, amount core.Money) (core.Donor, error) {
	donor, err := s.store.Donate(ctx, caller, amount)
	if err != nil {
		return core.Donor{}, err
	}
	return donor, nil
}

// AddCategory creates a spending category (owner only).
func (s *LedgerService) AddCategory(ctx context.Context, caller, name string) (core.Category, error) {
	return s.store.AddCategory(ctx, caller, name)
}

// ProposeExpenditure records a new unapproved expenditure (owner only).
func (s *LedgerService) ProposeExpenditure(ctx context.Context, caller string, p core.Proposal) (int64, error) {
	return s.store.ProposeExpenditure(ctx, caller, p)
}

// ApproveExpenditure commits the approval, then publishes the payout
// message for the disclosure worker.
func (s *LedgerService) ApproveExpenditure(ctx context.Context, caller string, id int64) (core.Expenditure, error) {
	exp, err := s.store.ApproveExpenditure(ctx, caller, id)
	if err != nil {
		return core.Expenditure{}, err
	}

	if err := s.publishPayout(ctx, exp); err != nil {
		slog.ErrorContext(ctx, "Failed to publish payout message",
			"expenditure_id", exp.ID, "error", err)
		// Don't fail the request - the approval is committed and the
		// periodic payout scan will retry the disclosure.
	}

	return exp, nil
}

func (s *LedgerService) Balance(ctx context.Context) (core.Money, error) {
	return s.store.Balance(ctx)
}

func (s *LedgerService) DonorInfo(ctx context.Context, identity string) (core.Donor, error) {
	return s.store.DonorInfo(ctx, identity)
}

func (s *LedgerService) CategoryInfo(ctx context.Context, name string) (core.Category, error) {
	return s.store.CategoryInfo(ctx, name)
}

func (s *LedgerService) Expenditure(ctx context.Context, id int64) (core.Expenditure, error) {
	return s.store.Expenditure(ctx, id)
}

func (s *LedgerService) publishPayout(ctx context.Context, exp core.Expenditure) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping payout message",
			"expenditure_id", exp.ID)
		return nil
	}
	return s.amqpClient.PublishPayout(ctx, exp.ID, exp.Amount.Micros)
}

// Close closes both the store and the AMQP connection
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
