package services

import (
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/wapify/credit_ledger_app/internal/core/ports/services"
	"github.com/wapify/credit_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since user and transfer services depend on it
	container.Account = NewAccountService(repos.AccountRepo)
	container.User = NewUserService(repos.UserRepo, container.Account)
	container.Transfer = NewTransferService(repos.LedgerRepo, container.Account, container.User)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.Token = NewTokenService(cfg)

	return container
}
