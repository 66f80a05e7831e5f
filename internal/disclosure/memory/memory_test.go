package memory

import (
	"context"
	"testing"

	"fondo/internal/core"
)

func TestAppendExpenditure(t *testing.T) {
	r := New()
	exp := core.Expenditure{
		ID:        0,
		Amount:    core.Money{Micros: 1_000_000},
		Category:  "Events",
		Recipient: "ST3AM1A56AK2C1XAFJ4115ZSV26EB49BVQ10MGCS0",
		Memo:      "Campaign Rally Venue",
		Approved:  true,
	}

	ref, err := r.AppendExpenditure(context.Background(), exp)
	if err != nil {
		t.Fatalf("AppendExpenditure failed: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	rows := r.Rows()
	if len(rows) != 1 || rows[0].ID != 0 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestAppendRejectsUnapproved(t *testing.T) {
	r := New()
	if _, err := r.AppendExpenditure(context.Background(), core.Expenditure{ID: 1}); err == nil {
		t.Error("unapproved expenditure should be rejected")
	}
	if len(r.Rows()) != 0 {
		t.Error("rejected append must not record a row")
	}
}
