// Package main provides the surf remote agent: an unattended worker that
// registers with a coordination hub, receives browsing tasks as mentions,
// and replies into the originating thread.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/session"
)

const version = "0.1.0"

// CLIConfig holds command-line overrides for the environment-driven
// configuration.
type CLIConfig struct {
	Model         string
	BrowserServer string
	ShowVersion   bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("surf-remote v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "shutting down...")
		cancel()
	}()

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "surf-remote: %v\n", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags.
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.Model, "model", "", "LLM model to use (overrides MODEL_NAME)")
	flag.StringVar(&cliConfig.BrowserServer, "browser", "", "browser tool server command (overrides SURF_BROWSER_SERVER)")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Surf Remote - Hub-Driven Web Automation Agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: surf-remote [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  %s    SSE endpoint of the coordination hub (required)\n", config.EnvHubURL)
		fmt.Fprintf(os.Stderr, "  %s   identity to register under (required)\n", config.EnvAgentID)
		fmt.Fprintf(os.Stderr, "  %s    API key for the model provider (required)\n", config.EnvModelAPIKey)
	}

	flag.Parse()
	return cliConfig
}

// run loads configuration, registers with the hub, and polls for
// mentions until the process is signalled.
func run(ctx context.Context, cliConfig *CLIConfig) error {
	log, err := logging.New("surf-remote")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer log.Close()

	cfg, err := config.Load(config.ModeRemote)
	if err != nil {
		return err
	}
	if cliConfig.Model != "" {
		cfg.Model = cliConfig.Model
	}
	if cliConfig.BrowserServer != "" {
		cfg.BrowserServer = cliConfig.BrowserServer
	}

	log.Infof("starting surf-remote v%s (agent=%s model=%s)", version, cfg.AgentID, cfg.Model)

	s, err := session.Open(ctx, cfg, log, nil, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer s.Close()

	log.Infof("registered with hub, %d browser tools available", len(s.Catalog()))

	return s.Run(ctx)
}
