package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/cabinet"
	"github.com/fwojciec/cabinet/batch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Extractor cabinet.Extractor
	Converter cabinet.Converter
	Records   cabinet.RecordService
	Updater   *batch.Updater
}

// Globals are flags accepted by every command.
type Globals struct {
	DB        string        `name:"db" env:"CABINET_DB" help:"SQLite catalog path"`
	Render    bool          `help:"Render pages in headless Chrome before extracting"`
	Timeout   time.Duration `default:"30s" env:"CABINET_TIMEOUT" help:"Request timeout"`
	UserAgent string        `name:"user-agent" env:"CABINET_USER_AGENT" help:"User-Agent header for plain HTTP fetches"`
	Verbose   bool          `short:"v" help:"Log every fetch and extraction at debug level"`
	JSONLog   bool          `name:"json-log" help:"Write logs as JSON"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals `embed:""`

	Update  UpdateCmd  `cmd:"" help:"Refresh stored records from their source pages"`
	Extract ExtractCmd `cmd:"" help:"Extract a single item page"`
	List    ListCmd    `cmd:"" help:"List records in the catalog"`
	Show    ShowCmd    `cmd:"" help:"Show a catalog record"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct {
	Dirs     []string `arg:"" optional:"" name:"dir" help:"Directories of stored records (default: src/data/sources, src/data/exhibitions)"`
	DryRun   bool     `name:"dry-run" help:"Merge without writing files or the catalog"`
	Progress bool     `short:"p" help:"Show a progress bar"`
	RPS      float64  `name:"rps" help:"Requests per second per domain between records (0 disables)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL    string `arg:"" help:"Item page URL"`
	Format string `short:"f" enum:"json,markdown" default:"json" help:"Output format (json, markdown)"`
	Save   bool   `help:"Save the record to the catalog"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Tag   string `short:"t" help:"Only records with this tag"`
	Limit int    `short:"n" help:"Maximum number of records"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	URL string `arg:"" help:"Source URL of the record"`
}
