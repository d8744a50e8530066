package pgsql

import (
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the postgres implementations of every port.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	base := &BaseRepository{Pool: dbPool}
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		MovementRepo: newPgxMovementRepository(dbPool),
		TxManager:    base,
		Snapshots:    base,
	}
}
