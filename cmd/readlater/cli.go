package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/capture"
	"github.com/fwojciec/readlater/extract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher readlater.Fetcher

	// Rendered, when set, is a headless browser fetcher that capture may
	// switch to after comparing both fetchers on the first page.
	Rendered readlater.Fetcher

	Extractor readlater.Extractor
	Articles  readlater.ArticleService
	Source    readlater.URLSource
	Converter readlater.Converter
	Capturer  *capture.Capturer

	// Selector captures selections on a rendered page. When nil, CSS
	// selections are taken from the static HTML instead.
	Selector Selector

	Inspector Inspector

	// Metrics, when set, records capture traffic.
	Metrics MetricsWriter
}

// MetricsWriter saves collected metrics to a file.
type MetricsWriter interface {
	WriteFile(path string) error
}

// Selector captures the text of the first element matching a CSS selector
// on a live page.
type Selector interface {
	FetchSelection(ctx context.Context, url, selector string) (*readlater.Selection, error)
}

// Inspector reports how the extraction engine treats a page.
type Inspector interface {
	Inspect(page *readlater.Page) (*extract.Inspection, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose      bool          `short:"v" help:"Log every fetch, extraction and request to stderr"`
	Engine       string        `short:"e" enum:"builtin,readability,trafilatura" default:"builtin" help:"Content extraction engine (builtin, readability, trafilatura)"`
	Render       string        `short:"r" enum:"never,always,auto" default:"never" help:"Render pages in headless Chrome (never, always, auto)"`
	RecycleAfter int64         `name:"recycle-after" default:"50" help:"Restart the headless browser after this many pages"`
	Timeout      time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	UserAgent    string        `name:"user-agent" help:"User agent for static fetches"`
	APIURL       string        `name:"api-url" env:"READLATER_API_URL" help:"Read-it-later backend base URL"`
	Token        string        `env:"READLATER_TOKEN" help:"Bearer token for the backend"`

	Extract ExtractCmd `cmd:"" help:"Extract an article and print it"`
	Save    SaveCmd    `cmd:"" help:"Extract an article and save it to the backend"`
	Capture CaptureCmd `cmd:"" help:"Extract every article listed by a sitemap or feed"`
	Inspect InspectCmd `cmd:"" help:"Show how the engine locates and prunes a page"`
}

// ArticleFlags are the extraction flags shared by extract and save.
type ArticleFlags struct {
	URL       string `arg:"" help:"Page URL"`
	Fidelity  string `short:"f" enum:"basic,full" default:"full" help:"Extraction fidelity (basic, full)"`
	Selection string `short:"s" help:"Use this text as the article content"`
	Select    string `short:"S" help:"Use the text of the first element matching this CSS selector"`
	HTMLFile  string `name:"html-file" type:"existingfile" help:"Read page HTML from a file instead of fetching"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	ArticleFlags `embed:""`

	Format string `short:"o" enum:"json,preview" default:"json" help:"Output format (json, preview)"`
}

// SaveCmd is the "save" subcommand.
type SaveCmd struct {
	ArticleFlags `embed:""`
}

// CaptureCmd is the "capture" subcommand.
type CaptureCmd struct {
	Source      string   `arg:"" help:"Site, sitemap or feed URL"`
	Feed        bool     `help:"Treat the source as an RSS, Atom or JSON feed"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	Exclude     []string `short:"x" help:"Skip URLs matching this regex (repeatable)"`
	Preview     bool     `short:"p" help:"List the discovered URLs without fetching them"`
	Save        bool     `help:"Save captured articles to the backend"`
	Fidelity    string   `short:"f" enum:"basic,full" default:"full" help:"Extraction fidelity (basic, full)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	Rate        float64  `default:"1" help:"Requests per second per domain (0 disables limiting)"`
	MetricsFile string   `name:"metrics-file" help:"Write Prometheus metrics to this file when done"`
}

// InspectCmd is the "inspect" subcommand.
type InspectCmd struct {
	URL      string `arg:"" help:"Page URL"`
	HTMLFile string `name:"html-file" type:"existingfile" help:"Read page HTML from a file instead of fetching"`
	Markdown bool   `short:"m" help:"Print the pruned content as Markdown"`
}
