package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/billed/internal/identity"
	"github.com/zombor/billed/internal/scanning"
	"github.com/zombor/billed/internal/store"
	"github.com/zombor/billed/internal/web"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	if err := run(os.Args[1:]); err != nil {
		slog.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

// run wires the server from args and blocks until it stops
func run(args []string) error {
	fs := ff.NewFlagSet("billed")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "billed.db", "Identity database file path")
		apiURL      = fs.StringLong("api-url", "http://localhost:5678", "Bill API base URL")
		storeType   = fs.StringLong("store", "http", "Bill store: 'http' or 'memory'")
		scannerType = fs.StringLong("scanner", "none", "Receipt scanner: 'none', 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("BILLED"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *showVersion {
		fmt.Println(version)
		return nil
	}

	slog.Info("Opening identity store...", "path", *dbPath)
	kv, err := identity.NewBoltKV(*dbPath)
	if err != nil {
		return fmt.Errorf("opening identity store: %w", err)
	}
	defer kv.Close()

	var billStore store.Store
	switch *storeType {
	case "http":
		slog.Info("Using bill API", "url", *apiURL)
		billStore, err = store.NewHTTPStore(*apiURL)
		if err != nil {
			return fmt.Errorf("initializing bill API client: %w", err)
		}
	case "memory":
		slog.Warn("Using in-memory bill store, bills are lost on exit")
		billStore = store.NewMemoryStore(fmt.Sprintf("http://localhost:%d", *port))
	default:
		return fmt.Errorf("invalid store type %q: want http or memory", *storeType)
	}

	var scanner scanning.Scanner
	switch *scannerType {
	case "none":
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			return fmt.Errorf("initializing Gemini: %w", err)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			return fmt.Errorf("initializing Ollama: %w", err)
		}
	default:
		return fmt.Errorf("invalid scanner type %q: want none, gemini or ollama", *scannerType)
	}
	if scanner != nil {
		defer scanner.Close()
	}

	server := web.NewServer(billStore, kv, scanner, web.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	})

	addr := fmt.Sprintf(":%d", *port)
	errs := make(chan error, 1)
	go func() {
		errs <- server.Start(addr)
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-sigChan:
	}

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
