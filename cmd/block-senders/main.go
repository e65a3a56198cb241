package main

import (
	"context"
	"fmt"
	"os"

	"mailsweep/internal/blocker"
	"mailsweep/internal/cli"
	"mailsweep/internal/config"
	"mailsweep/internal/logger"
	"mailsweep/internal/store"
	"mailsweep/internal/tui"
)

func main() {
	cli.Exit(run(os.Args[1:]))
}

func run(args []string) error {
	env, err := cli.Setup("block-senders", args)
	if err != nil {
		return err
	}
	defer env.Close()
	cfg := env.Config

	if cfg.Provider != config.ProviderGmail && !cfg.DryRun {
		return fmt.Errorf("provider %q cannot create filters; use gmail or dry_run", cfg.Provider)
	}

	db, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var sel blocker.Selector
	switch cfg.Selector {
	case config.SelectorTUI:
		totals, err := db.ListSenderTotals(env.Ctx)
		if err != nil {
			return fmt.Errorf("load sender totals: %w", err)
		}
		sel = tui.NewPicker(totals, os.Stdin, os.Stdout)
	default:
		sel = blocker.NewPromptSelector(env.Stdin, os.Stdout)
	}

	connect := func(ctx context.Context) (blocker.FilterService, error) {
		client, err := env.GmailClient(ctx, os.Stdout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	res, err := blocker.New(db, sel, connect, cfg.DryRun, os.Stdout).Run(env.Ctx)
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		logger.Warn("Some filters were not created", "created", len(res.Created), "failed", len(res.Failed))
	}
	return nil
}
