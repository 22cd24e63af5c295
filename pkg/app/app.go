// Package app wires configuration, persistence and services into one object
// the entrypoints can hand around.
package app

import (
	"log/slog"

	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/scheduler"
	accountsvc "github.com/finvault/finvault/pkg/service/account"
	"github.com/finvault/finvault/pkg/service/auth"
	"github.com/finvault/finvault/pkg/service/ledger"
	"github.com/finvault/finvault/pkg/service/processor"
	"github.com/finvault/finvault/pkg/service/recurring"
	usersvc "github.com/finvault/finvault/pkg/service/user"
)

// App aggregates every service behind one wiring point.
type App struct {
	Config *config.App
	Logger *slog.Logger

	UoW repository.UnitOfWork

	AccountService   *accountsvc.Service
	LedgerService    *ledger.Service
	ProcessorService *processor.Service
	RecurringService *recurring.Service
	AuthService      *auth.Service
	UserService      *usersvc.Service
	Scheduler        *scheduler.Scheduler
}

// New builds the full service graph on top of the given unit of work.
func New(cfg *config.App, uow repository.UnitOfWork, logger *slog.Logger) *App {
	ledgerSvc := ledger.New(uow, logger)
	processorSvc := processor.New(uow, ledgerSvc, logger)
	recurringSvc := recurring.New(uow, processorSvc, logger)
	return &App{
		Config:           cfg,
		Logger:           logger,
		UoW:              uow,
		AccountService:   accountsvc.New(uow, logger),
		LedgerService:    ledgerSvc,
		ProcessorService: processorSvc,
		RecurringService: recurringSvc,
		AuthService:      auth.New(uow, cfg.Auth.Jwt, logger),
		UserService:      usersvc.New(uow, logger),
		Scheduler:        scheduler.New(cfg.Scheduler, uow, recurringSvc, processorSvc, logger),
	}
}
