// Command wavstego hides text in the least significant bits of WAV audio files.
//
// Usage:
//
//	wavstego [-config file] [-log-level level] [-algorithm name] <command> [flags]
//
// Commands are embed, extract, capacity, inspect, diff and ledger.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/yyyoichi/wavstego"
	"github.com/yyyoichi/wavstego/internal/config"
	"github.com/yyyoichi/wavstego/internal/ledger"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stego  *wavstego.Stego
	stdout io.Writer
	stderr io.Writer
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"embed":    runEmbed,
	"extract":  runExtract,
	"capacity": runCapacity,
	"inspect":  runInspect,
	"diff":     runDiff,
	"ledger":   runLedger,
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wavstego", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	algorithm := fs.String("algorithm", "", fmt.Sprintf("index selection algorithm %v", wavstego.Algorithms()))
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wavstego [flags] embed|extract|capacity|inspect|diff|ledger [command flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = config.LogLevel(*logLevel)
	}
	if *algorithm != "" {
		cfg.Algorithm = *algorithm
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel.Level()}))

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		logger.Error("unknown command", "command", name)
		fs.Usage()
		return 2
	}

	s, err := wavstego.New(wavstego.WithAlgorithm(cfg.Algorithm), wavstego.WithLogger(logger))
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return 1
	}
	a := &app{cfg: cfg, logger: logger, stego: s, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, a, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		logger.Error(name+" failed", "err", err)
		return 1
	}
	return 0
}

// openLedger opens the configured ledger. It returns nil when none is configured.
func (a *app) openLedger(ctx context.Context) (*ledger.Ledger, error) {
	if a.cfg.LedgerPath == "" {
		return nil, nil
	}
	return ledger.Open(ctx, a.cfg.LedgerPath)
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}
