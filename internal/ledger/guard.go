package ledger

import "fondo/internal/core"

// Guard is the single authorization predicate of the ledger: only the owner
// identity fixed at construction may manage categories and expenditures.
// The owner never changes for the lifetime of the ledger.
type Guard struct {
	owner string
}

func NewGuard(owner string) Guard {
	return Guard{owner: owner}
}

// Owner returns the privileged identity.
func (g Guard) Owner() string {
	return g.owner
}

// IsOwner reports whether caller is the owner identity.
func (g Guard) IsOwner(caller string) bool {
	return caller == g.owner
}

// Authorize fails with core.ErrNotAuthorized unless caller is the owner.
func (g Guard) Authorize(caller string) error {
	if !g.IsOwner(caller) {
		return core.ErrNotAuthorized
	}
	return nil
}
