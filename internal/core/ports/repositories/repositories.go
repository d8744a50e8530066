package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Each storage backend builds one.
type RepositoryProvider struct {
	AccountRepo  AccountRepositoryFacade
	MovementRepo MovementRepositoryFacade
	TxManager    TransactionManager
	Snapshots    SnapshotReader
}
