package services

import (
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/events"
	"github.com/SscSPs/personal_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)

	container.Ledger = NewLedgerService(
		repos.TxManager,
		repos.MovementRepo,
		WithEventPublisher(publisher),
		WithSessionHistory(NewSessionHistory(cfg.SessionHistorySize)),
	)

	// Reporting reads through the ledger's query surface.
	container.Reporting = NewReportingService(container.Ledger)

	container.Reconciliation = NewReconciliationService(repos.Snapshots)

	return container
}
