// Package main provides the surf interactive agent: a terminal-driven
// web automation assistant that executes browsing tasks through a local
// browser tool server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/dispatch"
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
		fmt.Printf("surf v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "surf: %v\n", err)
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
		fmt.Fprintf(os.Stderr, "Surf - Interactive Web Automation Agent\n\n")
		fmt.Fprintf(os.Stderr, "Usage: surf [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  %s   API key for the model provider (required)\n", config.EnvModelAPIKey)
		fmt.Fprintf(os.Stderr, "  %s      model name, e.g. gpt-4o\n", config.EnvModelName)
		fmt.Fprintf(os.Stderr, "  %s  provider: openai, openrouter, or groq\n", config.EnvModelProvider)
	}

	flag.Parse()
	return cliConfig
}

// run loads configuration, opens the session, and drives the terminal
// loop until the operator exits.
func run(ctx context.Context, cliConfig *CLIConfig) error {
	log, err := logging.New("surf")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer log.Close()

	cfg, err := config.Load(config.ModeManual)
	if err != nil {
		return err
	}
	if cliConfig.Model != "" {
		cfg.Model = cliConfig.Model
	}
	if cliConfig.BrowserServer != "" {
		cfg.BrowserServer = cliConfig.BrowserServer
	}

	log.Infof("starting surf v%s in manual mode (model=%s)", version, cfg.Model)

	s, err := session.Open(ctx, cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer s.Close()

	fmt.Println(dispatch.ToolListStyle.Render("Browser tools:\n" + s.Catalog().Describe()))

	return s.Run(ctx)
}
