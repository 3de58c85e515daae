// Package main is the Kensaku CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/cli"
	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/daterange"
	"github.com/hyperjump/kensaku/internal/engine"
	"github.com/hyperjump/kensaku/internal/fileid"
	"github.com/hyperjump/kensaku/internal/history"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/query"
	"github.com/hyperjump/kensaku/internal/search"
	"github.com/hyperjump/kensaku/internal/server"
	"github.com/hyperjump/kensaku/internal/synonyms"
	"github.com/hyperjump/kensaku/internal/watcher"
	"github.com/hyperjump/kensaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kensaku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "kensaku server" from the project dir uses the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "history":
		runHistory()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kensaku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (synonym reloads, query plans, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Synonyms.Path != "" && cfg.Synonyms.WatchOrDefault() {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		syn := components.Synonyms
		fw := watcher.NewFileWatcher(cfg.Synonyms.Path, func(path string) {
			if err := syn.Load(path); err != nil {
				logger.Warn("synonym reload failed", zap.String("path", path), zap.Error(err))
			} else {
				logger.Info("synonym file reloaded", zap.String("path", path))
			}
		}, watchOpts...)
		if err := fw.Start(watchCtx); err != nil {
			logger.Warn("synonym file watch failed", zap.String("path", cfg.Synonyms.Path), zap.Error(err))
		} else {
			defer fw.Stop()
		}
	}

	srv := server.NewServer(
		components.Service,
		components.Engine,
		components.History,
		components.Synonyms,
		cfg.Categories,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so
// "kensaku search \"query\" -limit 20" would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// parseDateRange parses "YYYY-MM-DD..YYYY-MM-DD" (either side optional) into
// a DateRange. An open side is filled with the covering bound the translator
// expects.
func parseDateRange(s string) (*models.DateRange, error) {
	parts := strings.SplitN(s, "..", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("date range must be <from>..<to>, got %q", s)
	}
	var dr models.DateRange
	if parts[0] != "" {
		t, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", parts[0], err)
		}
		dr.Y1, dr.M1, dr.D1 = t.Year(), int(t.Month()), t.Day()
	} else {
		dr.Y1, dr.M1, dr.D1 = 1970, 1, 1
	}
	if parts[1] != "" {
		t, err := time.Parse("2006-01-02", parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", parts[1], err)
		}
		dr.Y2, dr.M2, dr.D2 = t.Year(), int(t.Month()), t.Day()
	} else {
		now := time.Now()
		dr.Y2, dr.M2, dr.D2 = now.Year(), int(now.Month()), now.Day()
	}
	return &dr, nil
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct index access when server is not running)")
	limit := fs.Int("limit", 10, "number of results")
	category := fs.String("category", "", "restrict results to a configured category (e.g. text, spreadsheet)")
	dates := fs.String("dates", "", "date range filter, <from>..<to> as YYYY-MM-DD (either side optional)")
	synEnabled := fs.Bool("synonyms", true, "expand query terms with synonym groups")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" && *dates == "" {
		fmt.Fprintln(os.Stderr, "Usage: kensaku search [flags] <query>")
		fs.PrintDefaults()
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:           queryStr,
		Category:        *category,
		Limit:           *limit,
		SynonymsEnabled: synEnabled,
	}
	if *dates != "" {
		dr, err := parseDateRange(*dates)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		searchQuery.Dates = dr
	}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids a Bleve lock conflict).
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct index access (when the server is not running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	response, err := components.Service.Search(context.Background(), searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	title := fs.String("title", "", "document title (default: file name)")
	mimeType := fs.String("mime", "", "MIME type (default: derived from extension)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kensaku index [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		fmt.Printf("Failed to resolve path: %v\n", err)
		os.Exit(1)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		fmt.Printf("Failed to read file: %v\n", err)
		os.Exit(1)
	}

	doc := &models.Document{
		ID:       fileid.FileDocID(absPath),
		Path:     absPath,
		Title:    *title,
		MimeType: *mimeType,
		Content:  string(content),
		ModTime:  info.ModTime(),
	}
	if doc.Title == "" {
		doc.Title = filepath.Base(absPath)
	}
	if doc.MimeType == "" {
		doc.MimeType = fileid.MimeType(absPath)
	}

	if err := components.Engine.Index(context.Background(), doc); err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document indexed successfully: %s\n", doc.ID)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kensaku delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Engine.Delete(context.Background(), docID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", docID)
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of entries")
	clear := fs.Bool("clear", false, "clear the visit history")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	hist, err := history.NewStore(cfg.Storage.HistoryPath)
	if err != nil {
		fmt.Printf("Failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer hist.Close()

	ctx := context.Background()
	if *clear {
		if err := hist.Clear(ctx); err != nil {
			fmt.Printf("Clear failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}
	entries, err := hist.List(ctx, *limit)
	if err != nil {
		fmt.Printf("Failed to read history: %v\n", err)
		os.Exit(1)
	}
	cli.WriteHistory(os.Stdout, entries)
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Documents        uint64 `json:"documents"`
	HistoryEntries   int64  `json:"history_entries"`
	SynonymsPath     string `json:"synonyms_path,omitempty"`
	SynonymsOK       bool   `json:"synonyms_ok"`
	MultiwordsMaxLen int    `json:"multiwords_max_len,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:        %d\n", status.Documents)
		fmt.Printf("history_entries:  %d\n", status.HistoryEntries)
		fmt.Printf("synonyms_ok:      %t\n", status.SynonymsOK)
		if status.SynonymsPath != "" {
			fmt.Printf("synonyms_path:    %s\n", status.SynonymsPath)
		}
		if status.MultiwordsMaxLen > 0 {
			fmt.Printf("multiwords_max:   %d words\n", status.MultiwordsMaxLen)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Engine   engine.Engine
	Synonyms *synonyms.Store
	History  *history.Store
	Service  *search.Service
}

func (c *Components) Close() {
	if c.History != nil {
		_ = c.History.Close()
	}
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	fmtr := daterange.Formatter{
		Day:     cfg.DateTerms.DayPrefix,
		Month:   cfg.DateTerms.MonthPrefix,
		Year:    cfg.DateTerms.YearPrefix,
		Wrapped: cfg.DateTerms.WrapPrefixes,
	}

	idx, err := engine.NewBleveIndex(cfg.Storage.IndexPath, fmtr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize index: %w", err)
	}

	syn := synonyms.NewStore(logger)
	if cfg.Synonyms.Path != "" {
		if err := syn.Load(cfg.Synonyms.Path); err != nil {
			// A bad thesaurus disables expansion but never blocks search.
			logger.Warn("synonym file load failed", zap.String("path", cfg.Synonyms.Path), zap.Error(err))
		}
	}

	hist, err := history.NewStore(cfg.Storage.HistoryPath)
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	builder := query.NewBuilder(syn, fmtr, logger)
	svc := search.NewService(idx, builder, cfg.Categories, &cfg.Search, logger)

	return &Components{
		Engine:   idx,
		Synonyms: syn,
		History:  hist,
		Service:  svc,
	}, nil
}

func printUsage() {
	fmt.Println(`kensaku - Local full-text search with synonym and date-range expansion

Usage:
  kensaku server [flags]           Start the HTTP server
  kensaku search [flags] <query>   Search documents
  kensaku index [flags] <file>     Index a document
  kensaku delete [flags] <id>      Delete a document
  kensaku history [flags]          Show or clear the visit history
  kensaku status [flags]           Show index and thesaurus status
  kensaku version                  Show version
  kensaku help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kensaku/config.yaml)
  --debug            Enable debug logging (synonym reloads, query plans, etc.)

Search Flags:
  --config string    Config file path (for direct index mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct index access.
  --limit int        Number of results (default: 10)
  --category string  Restrict results to a configured category (e.g. text, spreadsheet)
  --dates string     Date range filter, <from>..<to> as YYYY-MM-DD (either side optional)
  --synonyms         Expand query terms with synonym groups (default: true)
  --output string    Output format: text or json (default: text)

Examples:
  kensaku server
  kensaku search machine learning
  kensaku search --dates 2024-01-01..2024-03-31 report
  kensaku search --category spreadsheet budget
  kensaku search --synonyms=false "exact wording"
  kensaku index notes.txt
  kensaku history --limit 50
  kensaku status --output json`)
}
