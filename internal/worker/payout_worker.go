// Package worker processes payout messages: for each approved expenditure
// it appends a row to the public disclosure report and marks the payout
// done in the ledger store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fondo/internal/amqp"
	"fondo/internal/core"
	"fondo/internal/disclosure"
	"fondo/internal/ledger"
)

// PayoutStore is the slice of the ledger the worker needs: reading
// expenditures and tracking payout state.
type PayoutStore interface {
	Expenditure(ctx context.Context, id int64) (core.Expenditure, error)
	ledger.PayoutQueue
}

type PayoutWorker struct {
	store     PayoutStore
	report    disclosure.ReportWriter
	batchSize int
}

func NewPayoutWorker(store PayoutStore, report disclosure.ReportWriter, batchSize int) *PayoutWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &PayoutWorker{
		store:     store,
		report:    report,
		batchSize: batchSize,
	}
}

// HandlePayoutMessage processes one AMQP payout message. Returning an error
// requeues the delivery.
func (w *PayoutWorker) HandlePayoutMessage(msg *amqp.PayoutMessage) error {
	ctx := context.Background()
	return w.disclose(ctx, msg.ExpenditureID)
}

// ProcessPendingPayouts scans for approved expenditures whose disclosure
// was missed (publish failure, crash between commit and publish) and
// processes them. Safe to run repeatedly.
func (w *PayoutWorker) ProcessPendingPayouts(ctx context.Context) error {
	pending, err := w.store.PendingPayouts(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending payouts: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending payouts", "count", len(pending))

	var failed int
	for _, exp := range pending {
		if err := w.disclose(ctx, exp.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to process pending payout",
				"expenditure_id", exp.ID, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pending payouts failed", failed, len(pending))
	}
	return nil
}

// StartupCheck runs one pending scan at boot so nothing approved before a
// restart stays undisclosed.
func (w *PayoutWorker) StartupCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup payout check")
	return w.ProcessPendingPayouts(ctx)
}

func (w *PayoutWorker) disclose(ctx context.Context, id int64) error {
	exp, err := w.store.Expenditure(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Stale message for a record this store never had; drop it.
			slog.WarnContext(ctx, "Payout message for unknown expenditure", "expenditure_id", id)
			return nil
		}
		return fmt.Errorf("load expenditure %d: %w", id, err)
	}
	if !exp.Approved {
		// Approval is the only thing that enqueues a payout; an
		// unapproved record here means a stale or forged message.
		slog.WarnContext(ctx, "Payout message for unapproved expenditure", "expenditure_id", id)
		return nil
	}

	ref, err := w.report.AppendExpenditure(ctx, exp)
	if err != nil {
		if markErr := w.store.MarkPayoutError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark payout error",
				"expenditure_id", id, "error", markErr)
		}
		return fmt.Errorf("disclose expenditure %d: %w", id, err)
	}

	if err := w.store.MarkPaidOut(ctx, id); err != nil {
		return fmt.Errorf("mark paid out %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Expenditure disclosed",
		"expenditure_id", id,
		"amount_micros", exp.Amount.Micros,
		"recipient", exp.Recipient,
		"disclosure_ref", ref)
	return nil
}
