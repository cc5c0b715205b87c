// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/leseb/searchsuite/pkg/chat"
	"github.com/leseb/searchsuite/pkg/config"
	"github.com/leseb/searchsuite/pkg/observability/logging"
	"github.com/leseb/searchsuite/pkg/render"
	"github.com/leseb/searchsuite/pkg/websearch"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("searchsuite", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	asJSON := fs.Bool("json", false, "Print results as JSON")
	plain := fs.Bool("plain", false, "Strip HTML markup from titles and snippets")
	chatSpec := fs.String("chat", "", "Send the arguments as a prompt to a chat provider (provider[:model]) instead of searching")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	version := fs.Bool("version", false, "Print version and exit")
	opts := websearch.Options{}
	fs.Func("opt", "Provider option as key=value (repeatable)", func(s string) error {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return fmt.Errorf("expected key=value, got %q", s)
		}
		opts[k] = v
		return nil
	})
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: searchsuite [flags] <provider[:subfunction]> <query...>\n")
		fmt.Fprintf(stderr, "       searchsuite [flags] -chat <provider[:model]> <prompt...>\n\n")
		fmt.Fprintf(stderr, "Search providers: %s\n\n", strings.Join(websearch.SupportedProviders(), ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *version {
		fmt.Fprintf(stdout, "searchsuite\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: stderr})
	if err != nil {
		logger.Debug("Failed to load config, using defaults", "path", *configPath, "error", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	if *chatSpec != "" {
		if fs.NArg() == 0 {
			fs.Usage()
			return 2
		}
		client := chat.NewClient(cfg.Chat, httpClient)
		completion, err := client.Complete(ctx, *chatSpec, []chat.Message{
			{Role: "user", Content: strings.Join(fs.Args(), " ")},
		}, chat.Options{})
		if err != nil {
			logger.Error("Chat completion failed", "provider", *chatSpec, "error", err)
			return 1
		}
		fmt.Fprintln(stdout, completion.Content)
		return 0
	}

	if fs.NArg() < 2 {
		fs.Usage()
		return 2
	}
	spec, query := fs.Arg(0), strings.Join(fs.Args()[1:], " ")

	client, err := websearch.NewClient(ctx, cfg.Search,
		websearch.WithHTTPClient(httpClient),
		websearch.WithLogger(logger.Logger),
	)
	if err != nil {
		logger.Error("Failed to initialize search providers", "error", err)
		return 1
	}
	defer client.Close()

	results, err := client.Search(ctx, spec, query, opts)
	if err != nil {
		logger.Error("Search failed", "provider", spec, "error", err)
		return 1
	}

	if *asJSON {
		err = render.JSON(stdout, results)
	} else {
		err = render.Text(stdout, results, *plain)
	}
	if err != nil {
		logger.Error("Failed to write results", "error", err)
		return 1
	}
	return 0
}
