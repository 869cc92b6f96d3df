package sqlite

import (
	"database/sql"

	"github.com/unidesk/crmbot/internal/crm/store"
)

// txStore exposes the repos over a live transaction.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Users() store.Users           { return &usersRepo{q: t.tx} }
func (t *txStore) Roles() store.Roles           { return &rolesRepo{q: t.tx} }
func (t *txStore) Statements() store.Statements { return &statementsRepo{q: t.tx} }
func (t *txStore) Files() store.Files           { return &filesRepo{q: t.tx} }
