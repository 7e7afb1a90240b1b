package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/burn-lang/burnls/internal/logger"
	"github.com/burn-lang/burnls/internal/lsp"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "burnls: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("burnls", flag.ContinueOnError)
	logFile := fs.String("log-file", "", "Log file path (default: none)")
	verbose := fs.Bool("verbose", false, "Enable info logging to stderr")
	debug := fs.Bool("debug", false, "Enable debug logging to stderr")
	fs.Bool("stdio", true, "Use stdio transport (default)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Stdout carries JSON-RPC, so internal logging stays on stderr and the
	// transport log goes to a file when asked for.
	switch {
	case *debug:
		logger.SetLevel(logger.LevelDebug)
	case *verbose:
		logger.SetLevel(logger.LevelInfo)
	default:
		logger.SetLevel(logger.LevelOff)
	}

	var logWriter io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logWriter = f
	}

	server := lsp.NewServerWithIO(os.Stdin, os.Stdout)
	server.SetLogger(logWriter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	logger.Info("burnls started")

	return server.Run(ctx)
}
