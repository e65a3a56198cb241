// Package cli holds the startup steps shared by the command binaries.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mailsweep/internal/config"
	"mailsweep/internal/gmail"
	"mailsweep/internal/logger"
	"mailsweep/internal/metrics"
)

// Env is what every command needs after startup.
type Env struct {
	Config *config.Config
	Ctx    context.Context
	// Stdin is the one buffered reader over os.Stdin; every line prompt uses it.
	Stdin *bufio.Reader

	closers []func()
}

// Setup parses -config from args, loads the configuration and installs the
// logger. The context is canceled on SIGINT or SIGTERM.
func Setup(name string, args []string) (*Env, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config.yaml (default ~/.config/mailsweep/config.yaml)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	logFile, err := logger.Initialize(cfg.Logging)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	env := &Env{Config: cfg, Ctx: ctx, Stdin: bufio.NewReader(os.Stdin)}
	env.closers = append(env.closers, stop)
	if logFile != nil {
		env.closers = append(env.closers, func() { logFile.Close() })
	}
	logger.Debug("Configuration loaded", "provider", cfg.Provider, "database", cfg.DatabasePath())
	return env, nil
}

// Close writes the metrics textfile, if configured, and releases resources
// acquired by Setup.
func (e *Env) Close() {
	if err := metrics.WriteTextfile(e.Config.MetricsTextfile); err != nil {
		logger.Warn("Writing metrics textfile failed", "path", e.Config.MetricsTextfile, "error", err)
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// GmailClient authorizes against Gmail with the configured credentials.
func (e *Env) GmailClient(ctx context.Context, out io.Writer) (*gmail.Client, error) {
	fmt.Fprintln(out, "Getting Gmail service...")
	svc, err := gmail.NewService(ctx, gmail.AuthConfig{
		CredentialsFile: e.Config.CredentialsPath(),
		TokenFile:       e.Config.TokenPath(),
		In:              e.Stdin,
	})
	if err != nil {
		return nil, fmt.Errorf("gmail auth: %w", err)
	}
	return gmail.NewClient(svc), nil
}

// Exit prints err and exits 1 when err is non-nil.
func Exit(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
