package ledger

import (
	"errors"
	"testing"

	"fondo/internal/core"
)

func TestGuard(t *testing.T) {
	const owner = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	g := NewGuard(owner)

	if g.Owner() != owner {
		t.Errorf("Owner() = %q, want %q", g.Owner(), owner)
	}
	if !g.IsOwner(owner) {
		t.Error("owner should be recognized")
	}
	if g.IsOwner("someone-else") {
		t.Error("non-owner should not be recognized")
	}
	if err := g.Authorize(owner); err != nil {
		t.Errorf("Authorize(owner) = %v, want nil", err)
	}
	if err := g.Authorize("someone-else"); !errors.Is(err, core.ErrNotAuthorized) {
		t.Errorf("Authorize(non-owner) = %v, want ErrNotAuthorized", err)
	}
	// Owner matching is exact, not case-insensitive
	if err := g.Authorize(""); err == nil {
		t.Error("empty caller must not be authorized")
	}
}
