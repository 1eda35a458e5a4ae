package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/cabinet"
	"github.com/fwojciec/cabinet/batch"
	"github.com/fwojciec/cabinet/bloom"
	"github.com/fwojciec/cabinet/fs"
	"github.com/fwojciec/cabinet/goquery"
	"github.com/fwojciec/cabinet/htmltomarkdown"
	cabhttp "github.com/fwojciec/cabinet/http"
	"github.com/fwojciec/cabinet/rod"
	cabslog "github.com/fwojciec/cabinet/slog"
	"github.com/fwojciec/cabinet/sjson"
	"github.com/fwojciec/cabinet/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Catalog path used when --db is not given. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher replaces the network fetcher for end-to-end testing.
	Fetcher cabinet.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("cabinet"),
		kong.Description("Refresh stored collection records from the Cabinet item pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'cabinet --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := newLogger(stderr, cli.Verbose, cli.JSONLog)
	deps.Logger = logger
	deps.Converter = htmltomarkdown.NewConverter()

	if needsCatalog(cmd, cli) {
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CABINET_DB to use a different catalog path\n")
			return fmt.Errorf("failed to open catalog at %q: %w", path, err)
		}
		defer m.Close()
		deps.Records = sqlite.NewRecordService(m.DB)
	}

	if cmd == "update" || cmd == "extract" {
		fetcher, err := m.newFetcher(cli.Globals)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()

		extractor := goquery.NewExtractor(
			cabslog.NewLoggingFetcher(fetcher, logger),
			goquery.WithURLSet(bloom.Factory(bloom.DefaultExpected, bloom.DefaultFalsePositiveRate)),
		)
		deps.Extractor = cabslog.NewLoggingExtractor(extractor, logger)
	}

	if cmd == "update" {
		dirs := cli.Update.Dirs
		if len(dirs) == 0 {
			dirs = fs.DefaultDirs
		}
		deps.Updater = &batch.Updater{
			Files:     fs.NewRecordStore(dirs...),
			Extractor: deps.Extractor,
			Merger:    sjson.NewMerger(),
			Records:   deps.Records,
			Logger:    logger,
		}
	}

	return kongCtx.Run(deps)
}

// needsCatalog reports whether cmd reads or writes the SQLite catalog.
// Updates only write to it when a path was given explicitly.
func needsCatalog(cmd string, cli *CLI) bool {
	switch cmd {
	case "list", "show":
		return true
	case "extract":
		return cli.Extract.Save
	case "update":
		return cli.DB != ""
	}
	return false
}

func (m *Main) newFetcher(g Globals) (cabinet.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if g.Render {
		return rod.NewFetcher(rod.WithFetchTimeout(g.Timeout))
	}
	opts := []cabhttp.Option{cabhttp.WithTimeout(g.Timeout)}
	if g.UserAgent != "" {
		opts = append(opts, cabhttp.WithUserAgent(g.UserAgent))
	}
	return cabhttp.NewFetcher(opts...), nil
}

// newLogger returns a logger writing to w. Logging is off unless verbose
// or JSON output is requested.
func newLogger(w io.Writer, verbose, jsonLog bool) *slog.Logger {
	if !verbose && !jsonLog {
		return slog.New(slog.DiscardHandler)
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if jsonLog {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cabinet.db"
	}
	dir := filepath.Join(home, ".cabinet")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cabinet.db")
}

// describe returns the user-facing text for err.
func describe(err error) string {
	if cabinet.ErrorCode(err) == cabinet.EINTERNAL {
		return err.Error()
	}
	return cabinet.ErrorMessage(err)
}
