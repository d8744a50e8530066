package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the SQLite implementations of every port.
// db should come from database.NewSQLiteDB so that write transactions
// are serialised.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	base := &BaseRepository{DB: db}
	return portsrepo.RepositoryProvider{
		AccountRepo:  newSQLAccountRepository(db),
		MovementRepo: newSQLMovementRepository(db),
		TxManager:    base,
		Snapshots:    base,
	}
}
