package main

import (
	"fmt"
	"os"

	"mailsweep/internal/cli"
	"mailsweep/internal/collector"
	"mailsweep/internal/config"
	"mailsweep/internal/imapsrc"
	"mailsweep/internal/logger"
	"mailsweep/internal/store"
)

func main() {
	cli.Exit(run(os.Args[1:]))
}

func run(args []string) error {
	env, err := cli.Setup("collect-senders", args)
	if err != nil {
		return err
	}
	defer env.Close()
	cfg := env.Config

	var source collector.MailSource
	switch cfg.Provider {
	case config.ProviderIMAP:
		fmt.Printf("Connecting to %s...\n", cfg.IMAP.Host)
		src, err := imapsrc.Dial(cfg.IMAP, cfg.IMAPPassword())
		if err != nil {
			return err
		}
		defer src.Close()
		source = src
	default:
		client, err := env.GmailClient(env.Ctx, os.Stdout)
		if err != nil {
			return err
		}
		source = client
	}

	db, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := collector.New(source, db, cfg.PageSize, os.Stdout).Run(env.Ctx, cfg.Folders); err != nil {
		return err
	}
	if rows, err := db.CountRows(env.Ctx); err == nil {
		logger.Info("Sender store updated", "rows", rows, "database", cfg.DatabasePath())
	}
	fmt.Println("Done!")
	return nil
}
