// Package storage implements the ledger store on SQLite. Every mutating
// operation runs inside a single transaction, so the multi-field update on
// approval (balance, category spent, expenditure flag) commits or rolls
// back as one unit.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fondo/internal/core"
	"fondo/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db          *sql.DB
	guard       ledger.Guard
	minDonation int64
}

var (
	_ ledger.Store       = (*SQLiteRepository)(nil)
	_ ledger.PayoutQueue = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath, owner string, minDonation int64) (*SQLiteRepository, error) {
	if minDonation <= 0 {
		minDonation = core.MinDonationMicros
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// The ledger is a strictly sequential state machine; a single
	// connection serializes all operations.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:          db,
		guard:       ledger.NewGuard(owner),
		minDonation: minDonation,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Donate(ctx context.Context, caller string, amount core.Money) (core.Donor, error) {
	if err := core.ValidateIdentity(caller); err != nil {
		return core.Donor{}, err
	}
	if amount.Micros < r.minDonation {
		return core.Donor{}, core.ErrBelowMinimum
	}
	caller = strings.TrimSpace(caller)

	var donor core.Donor
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE ledger SET balance_micros = balance_micros + ? WHERE id = 1`,
			amount.Micros); err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}
		row := tx.QueryRowContext(ctx, `
			INSERT INTO donors (identity, total_donated_micros) VALUES (?, ?)
			ON CONFLICT (identity) DO UPDATE
				SET total_donated_micros = total_donated_micros + excluded.total_donated_micros
			RETURNING identity, total_donated_micros`,
			caller, amount.Micros)
		if err := row.Scan(&donor.Identity, &donor.TotalDonated.Micros); err != nil {
			return fmt.Errorf("upsert donor: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Donor{}, err
	}

	slog.InfoContext(ctx, "Donation recorded",
		"donor", donor.Identity,
		"amount_micros", amount.Micros,
		"total_donated_micros", donor.TotalDonated.Micros)
	return donor, nil
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, caller, name string) (core.Category, error) {
	if err := r.guard.Authorize(caller); err != nil {
		return core.Category{}, err
	}
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	var cat core.Category
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM categories WHERE name = ?`, name)
		if err := row.Scan(&exists); err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if exists > 0 {
			return core.ErrAlreadyExists
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, active, spent_micros) VALUES (?, 1, 0)`, name); err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		cat = core.Category{Name: name, Active: true}
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}

	slog.InfoContext(ctx, "Spending category added", "category", name)
	return cat, nil
}

func (r *SQLiteRepository) ProposeExpenditure(ctx context.Context, caller string, p core.Proposal) (int64, error) {
	if err := r.guard.Authorize(caller); err != nil {
		return 0, err
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var active bool
		row := tx.QueryRowContext(ctx, `SELECT active FROM categories WHERE name = ?`, p.Category)
		if err := row.Scan(&active); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.ErrUnknownCategory
			}
			return fmt.Errorf("lookup category: %w", err)
		}
		if !active {
			return core.ErrUnknownCategory
		}

		// Allocate the next sequential id inside the same transaction as
		// the insert, so ids stay dense even if a later step fails.
		row = tx.QueryRowContext(ctx, `
			UPDATE ledger SET next_expenditure_id = next_expenditure_id + 1
			WHERE id = 1
			RETURNING next_expenditure_id - 1`)
		if err := row.Scan(&id); err != nil {
			return fmt.Errorf("allocate expenditure id: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expenditures (id, amount_micros, category, recipient, memo)
			VALUES (?, ?, ?, ?, ?)`,
			id, p.Amount.Micros, p.Category, strings.TrimSpace(p.Recipient), p.Memo); err != nil {
			return fmt.Errorf("insert expenditure: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Expenditure proposed",
		"expenditure_id", id,
		"amount_micros", p.Amount.Micros,
		"category", p.Category,
		"recipient", strings.TrimSpace(p.Recipient))
	return id, nil
}

func (r *SQLiteRepository) ApproveExpenditure(ctx context.Context, caller string, id int64) (core.Expenditure, error) {
	if err := r.guard.Authorize(caller); err != nil {
		return core.Expenditure{}, err
	}

	var exp core.Expenditure
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, amount_micros, category, recipient, memo, approved
			FROM expenditures WHERE id = ?`, id)
		if err := row.Scan(&exp.ID, &exp.Amount.Micros, &exp.Category,
			&exp.Recipient, &exp.Memo, &exp.Approved); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.ErrNotFound
			}
			return fmt.Errorf("lookup expenditure: %w", err)
		}
		if exp.Approved {
			return core.ErrAlreadyApproved
		}

		var balance int64
		row = tx.QueryRowContext(ctx, `SELECT balance_micros FROM ledger WHERE id = 1`)
		if err := row.Scan(&balance); err != nil {
			return fmt.Errorf("read balance: %w", err)
		}
		if balance < exp.Amount.Micros {
			return core.ErrInsufficientFunds
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE ledger SET balance_micros = balance_micros - ? WHERE id = 1`,
			exp.Amount.Micros); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET spent_micros = spent_micros + ? WHERE name = ?`,
			exp.Amount.Micros, exp.Category); err != nil {
			return fmt.Errorf("update category spent: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE expenditures
			SET approved = 1, payout_status = 'pending', approved_at = CURRENT_TIMESTAMP
			WHERE id = ?`, id); err != nil {
			return fmt.Errorf("mark approved: %w", err)
		}
		exp.Approved = true
		return nil
	})
	if err != nil {
		return core.Expenditure{}, err
	}

	slog.InfoContext(ctx, "Expenditure approved",
		"expenditure_id", exp.ID,
		"amount_micros", exp.Amount.Micros,
		"category", exp.Category,
		"recipient", exp.Recipient)
	return exp, nil
}

func (r *SQLiteRepository) Balance(ctx context.Context) (core.Money, error) {
	var balance int64
	row := r.db.QueryRowContext(ctx, `SELECT balance_micros FROM ledger WHERE id = 1`)
	if err := row.Scan(&balance); err != nil {
		return core.Money{}, fmt.Errorf("read balance: %w", err)
	}
	return core.Money{Micros: balance}, nil
}

func (r *SQLiteRepository) DonorInfo(ctx context.Context, identity string) (core.Donor, error) {
	identity = strings.TrimSpace(identity)
	donor := core.Donor{Identity: identity}
	row := r.db.QueryRowContext(ctx,
		`SELECT total_donated_micros FROM donors WHERE identity = ?`, identity)
	if err := row.Scan(&donor.TotalDonated.Micros); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Unknown donors read as zero, matching the map-default
			// semantics of the read surface.
			return donor, nil
		}
		return core.Donor{}, fmt.Errorf("read donor: %w", err)
	}
	return donor, nil
}

func (r *SQLiteRepository) CategoryInfo(ctx context.Context, name string) (core.Category, error) {
	cat := core.Category{Name: name}
	row := r.db.QueryRowContext(ctx,
		`SELECT active, spent_micros FROM categories WHERE name = ?`, name)
	if err := row.Scan(&cat.Active, &cat.Spent.Micros); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, core.ErrNotFound
		}
		return core.Category{}, fmt.Errorf("read category: %w", err)
	}
	return cat, nil
}

func (r *SQLiteRepository) Expenditure(ctx context.Context, id int64) (core.Expenditure, error) {
	var exp core.Expenditure
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount_micros, category, recipient, memo, approved
		FROM expenditures WHERE id = ?`, id)
	if err := row.Scan(&exp.ID, &exp.Amount.Micros, &exp.Category,
		&exp.Recipient, &exp.Memo, &exp.Approved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expenditure{}, core.ErrNotFound
		}
		return core.Expenditure{}, fmt.Errorf("read expenditure: %w", err)
	}
	return exp, nil
}

// PendingPayouts lists approved expenditures whose transfer has not been
// disclosed yet, oldest first.
func (r *SQLiteRepository) PendingPayouts(ctx context.Context, limit int) ([]core.Expenditure, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_micros, category, recipient, memo, approved
		FROM expenditures
		WHERE payout_status IN ('pending', 'error')
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending payouts: %w", err)
	}
	defer rows.Close()

	var out []core.Expenditure
	for rows.Next() {
		var exp core.Expenditure
		if err := rows.Scan(&exp.ID, &exp.Amount.Micros, &exp.Category,
			&exp.Recipient, &exp.Memo, &exp.Approved); err != nil {
			return nil, fmt.Errorf("scan pending payout: %w", err)
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkPaidOut(ctx context.Context, id int64) error {
	if err := r.setPayoutStatus(ctx, id, "done"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expenditure marked paid out", "expenditure_id", id)
	return nil
}

func (r *SQLiteRepository) MarkPayoutError(ctx context.Context, id int64) error {
	if err := r.setPayoutStatus(ctx, id, "error"); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Expenditure marked with payout error", "expenditure_id", id)
	return nil
}

func (r *SQLiteRepository) setPayoutStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenditures SET payout_status = ? WHERE id = ? AND approved = 1`,
		status, id)
	if err != nil {
		return fmt.Errorf("set payout status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
