package repo

import (
	"fmt"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
)

// Scope restricts task queries to a single owner. The zero Scope matches
// no rows at all.
type Scope struct {
	ownerID int64
}

func ScopeOf(who model.Identity) Scope {
	if !who.Authenticated() {
		return Scope{}
	}
	return Scope{ownerID: who.UserID}
}

func (s Scope) Owner() (int64, bool) {
	return s.ownerID, s.ownerID > 0
}

// predicate returns the SQL condition for the scope, using placeholder $n
// when it needs an argument.
func (s Scope) predicate(n int) (string, []any) {
	id, ok := s.Owner()
	if !ok {
		return "FALSE", nil
	}
	return fmt.Sprintf("owner_id = $%d", n), []any{id}
}
