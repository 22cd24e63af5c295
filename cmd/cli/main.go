// Command cli runs operational tasks against the configured database:
// registering users, checking balances, and triggering the maintenance
// sweeps by hand.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/finvault/finvault/infra/initializer"
	"github.com/finvault/finvault/pkg/app"
	"github.com/finvault/finvault/pkg/config"
	usersvc "github.com/finvault/finvault/pkg/service/user"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger := initializer.SetupLogger(cfg.Log)
	uow, err := initializer.SetupUoW(cfg, logger)
	if err != nil {
		color.Red("Failed to initialize persistence: %v", err)
		os.Exit(1)
	}
	a := app.New(cfg, uow, logger)
	ctx := context.Background()

	switch os.Args[1] {
	case "register":
		register(ctx, a)
	case "balance":
		balance(ctx, a)
	case "sweep":
		result, err := a.RecurringService.ExecuteDue(ctx, time.Now(), 0)
		if err != nil {
			color.Red("Sweep failed: %v", err)
			os.Exit(1)
		}
		color.Green("Sweep done: %d due, %d processed, %d failed",
			result.Total, result.Processed, result.Failed)
	case "retry":
		since := time.Now().Add(-cfg.Scheduler.RetryWindow)
		retried, err := a.ProcessorService.RetryFailed(ctx, since, cfg.Scheduler.RetryBatchSize)
		if err != nil {
			color.Red("Retry pass failed: %v", err)
			os.Exit(1)
		}
		color.Green("Retry pass done: %d retried", retried)
	case "cleanup":
		cutoff := time.Now().Add(-cfg.Scheduler.LogRetention)
		deleted, err := a.UoW.TransactionLogs().DeleteOlderThan(ctx, cutoff)
		if err != nil {
			color.Red("Cleanup failed: %v", err)
			os.Exit(1)
		}
		color.Green("Cleanup done: %d logs deleted", deleted)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  register <username> <email>     register a user (prompts for password)")
	fmt.Println("  balance <user_id> <account_id>  print an account balance")
	fmt.Println("  sweep                           execute due recurring transactions")
	fmt.Println("  retry                           retry recent transient failures")
	fmt.Println("  cleanup                         prune old transaction logs")
}

func register(ctx context.Context, a *app.App) {
	if len(os.Args) < 4 {
		fmt.Println("Usage: register <username> <email>")
		return
	}
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		color.Red("Failed to read password: %v", err)
		os.Exit(1)
	}
	u, err := a.UserService.Register(ctx, usersvc.RegisterRequest{
		Username: os.Args[2],
		Email:    os.Args[3],
		Password: string(password),
	})
	if err != nil {
		color.Red("Registration failed: %v", err)
		os.Exit(1)
	}
	color.Green("User %s registered with id %s", u.Username, u.ID)
}

func balance(ctx context.Context, a *app.App) {
	if len(os.Args) < 4 {
		fmt.Println("Usage: balance <user_id> <account_id>")
		return
	}
	userID, err := uuid.Parse(os.Args[2])
	if err != nil {
		color.Red("Invalid user id: %v", err)
		os.Exit(1)
	}
	accountID, err := uuid.Parse(os.Args[3])
	if err != nil {
		color.Red("Invalid account id: %v", err)
		os.Exit(1)
	}
	b, err := a.LedgerService.GetBalance(ctx, userID, accountID)
	if err != nil {
		color.Red("Failed to get balance: %v", err)
		os.Exit(1)
	}
	color.Green("Account %s (%s): balance %.2f, available %.2f %s",
		b.MaskedNumber, b.Type, b.Balance, b.Available, b.Currency)
}
