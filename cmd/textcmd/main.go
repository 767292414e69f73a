// Package main is the entry point for textcmd.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/textcmd/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Text, "text", "", "Initial text (overrides editor.initial_text)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Run a Lua script instead of the terminal UI")
	flag.BoolVar(&opts.JSON, "json", false, "Print state and history as JSON after -script")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the configuration file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textcmd - command-based text editing with undo/redo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textcmd [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textcmd                          Edit an empty document\n")
		fmt.Fprintf(os.Stderr, "  textcmd -text 'hello'            Start with some text\n")
		fmt.Fprintf(os.Stderr, "  textcmd -script edit.lua -json   Run a script and dump the history\n")
		fmt.Fprintf(os.Stderr, "  textcmd -c textcmd.toml -watch   Live-reload configuration\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("textcmd %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "text" {
			opts.TextSet = true
		}
	})

	if opts.JSON && opts.ScriptPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -json requires -script\n")
		os.Exit(1)
	}
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %v\n", flag.Args())
		os.Exit(1)
	}

	return opts
}
