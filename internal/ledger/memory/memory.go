// Package memory implements the ledger store as mutex-guarded in-process
// state. It is the default backend and the reference for the accounting
// invariants: every operation validates first and mutates last, so a
// failure can never leave partial state behind.
package memory

import (
	"context"
	"strings"
	"sync"

	"fondo/internal/core"
	"fondo/internal/ledger"
)

type payoutState int

const (
	payoutNone payoutState = iota
	payoutPending
	payoutDone
	payoutError
)

type expenditureRecord struct {
	core.Expenditure
	payout payoutState
}

type Store struct {
	mu    sync.Mutex
	guard ledger.Guard

	minDonation int64
	balance     int64
	donors      map[string]int64
	categories  map[string]*core.Category
	catOrder    []string
	exps        []*expenditureRecord
}

var (
	_ ledger.Store       = (*Store)(nil)
	_ ledger.PayoutQueue = (*Store)(nil)
)

func New(owner string, minDonation int64) *Store {
	if minDonation <= 0 {
		minDonation = core.MinDonationMicros
	}
	return &Store{
		guard:       ledger.NewGuard(owner),
		minDonation: minDonation,
		donors:      make(map[string]int64),
		categories:  make(map[string]*core.Category),
	}
}

func (s *Store) Donate(_ context.Context, caller string, amount core.Money) (core.Donor, error) {
	if err := core.ValidateIdentity(caller); err != nil {
		return core.Donor{}, err
	}
	if amount.Micros < s.minDonation {
		return core.Donor{}, core.ErrBelowMinimum
	}
	caller = strings.TrimSpace(caller)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance += amount.Micros
	s.donors[caller] += amount.Micros
	return core.Donor{Identity: caller, TotalDonated: core.Money{Micros: s.donors[caller]}}, nil
}

func (s *Store) AddCategory(_ context.Context, caller, name string) (core.Category, error) {
	if err := s.guard.Authorize(caller); err != nil {
		return core.Category{}, err
	}
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[name]; exists {
		return core.Category{}, core.ErrAlreadyExists
	}
	cat := &core.Category{Name: name, Active: true}
	s.categories[name] = cat
	s.catOrder = append(s.catOrder, name)
	return *cat, nil
}

func (s *Store) ProposeExpenditure(_ context.Context, caller string, p core.Proposal) (int64, error) {
	if err := s.guard.Authorize(caller); err != nil {
		return 0, err
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[p.Category]
	if !ok || !cat.Active {
		return 0, core.ErrUnknownCategory
	}
	id := int64(len(s.exps))
	s.exps = append(s.exps, &expenditureRecord{
		Expenditure: core.Expenditure{
			ID:        id,
			Amount:    p.Amount,
			Category:  p.Category,
			Recipient: strings.TrimSpace(p.Recipient),
			Memo:      p.Memo,
		},
	})
	return id, nil
}

func (s *Store) ApproveExpenditure(_ context.Context, caller string, id int64) (core.Expenditure, error) {
	if err := s.guard.Authorize(caller); err != nil {
		return core.Expenditure{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= int64(len(s.exps)) {
		return core.Expenditure{}, core.ErrNotFound
	}
	rec := s.exps[id]
	if rec.Approved {
		return core.Expenditure{}, core.ErrAlreadyApproved
	}
	if s.balance < rec.Amount.Micros {
		return core.Expenditure{}, core.ErrInsufficientFunds
	}
	// All preconditions hold; commit the three effects together under the
	// lock so callers can never observe a partial approval.
	rec.Approved = true
	rec.payout = payoutPending
	s.balance -= rec.Amount.Micros
	s.categories[rec.Category].Spent.Micros += rec.Amount.Micros
	return rec.Expenditure, nil
}

func (s *Store) Balance(_ context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Money{Micros: s.balance}, nil
}

func (s *Store) DonorInfo(_ context.Context, identity string) (core.Donor, error) {
	identity = strings.TrimSpace(identity)
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Donor{Identity: identity, TotalDonated: core.Money{Micros: s.donors[identity]}}, nil
}

func (s *Store) CategoryInfo(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[name]
	if !ok {
		return core.Category{}, core.ErrNotFound
	}
	return *cat, nil
}

func (s *Store) Expenditure(_ context.Context, id int64) (core.Expenditure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= int64(len(s.exps)) {
		return core.Expenditure{}, core.ErrNotFound
	}
	return s.exps[id].Expenditure, nil
}

func (s *Store) PendingPayouts(_ context.Context, limit int) ([]core.Expenditure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expenditure
	for _, rec := range s.exps {
		if rec.payout != payoutPending && rec.payout != payoutError {
			continue
		}
		out = append(out, rec.Expenditure)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkPaidOut(_ context.Context, id int64) error {
	return s.setPayout(id, payoutDone)
}

func (s *Store) MarkPayoutError(_ context.Context, id int64) error {
	return s.setPayout(id, payoutError)
}

func (s *Store) setPayout(id int64, state payoutState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= int64(len(s.exps)) {
		return core.ErrNotFound
	}
	rec := s.exps[id]
	if !rec.Approved {
		return core.ErrNotFound
	}
	rec.payout = state
	return nil
}

func (s *Store) Close() error {
	return nil
}
