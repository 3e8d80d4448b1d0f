package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/capture"
	"github.com/fwojciec/readlater/extract"
	"github.com/fwojciec/readlater/gocache"
	"github.com/fwojciec/readlater/gofeed"
	"github.com/fwojciec/readlater/goquery"
	"github.com/fwojciec/readlater/htmltomarkdown"
	rlhttp "github.com/fwojciec/readlater/http"
	rlprom "github.com/fwojciec/readlater/prometheus"
	"github.com/fwojciec/readlater/readability"
	"github.com/fwojciec/readlater/rod"
	rlslog "github.com/fwojciec/readlater/slog"
	"github.com/fwojciec/readlater/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// YAML configuration files. Set before calling Run().
	ConfigPaths []string

	// Fetchers opened by Run, closed by Close.
	Fetchers []readlater.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: defaultConfigPaths,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for _, f := range m.Fetchers {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
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
		kong.Name("readlater"),
		kong.Description("Extract articles from web pages and save them to read later"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(yamlConfig, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'readlater --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(cli.Verbose, stderr)

	defer m.Close()
	if err := m.wire(cli, cmd, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire fills deps with the services cmd needs.
func (m *Main) wire(cli *CLI, cmd string, deps *Dependencies) error {
	logger := deps.Logger

	extractor, err := newExtractor(cli.Engine)
	if err != nil {
		return err
	}
	deps.Extractor = rlslog.NewLoggingExtractor(extractor, logger)

	if needsFetcher(cli, cmd) {
		if err := m.wireFetchers(cli, cmd, deps); err != nil {
			return err
		}
	}

	if cmd == "save" || (cmd == "capture" && cli.Capture.Save && !cli.Capture.Preview) {
		if cli.APIURL == "" {
			fmt.Fprintln(deps.Stderr, "Hint: Set READLATER_API_URL or pass --api-url")
			return readlater.Errorf(readlater.EINVALID, "backend URL not set")
		}
		if cli.Token == "" {
			fmt.Fprintln(deps.Stderr, "Hint: Set READLATER_TOKEN or pass --token")
			return readlater.Errorf(readlater.EUNAUTHORIZED, "backend token not set")
		}
		deps.Articles = rlslog.NewLoggingArticleService(rlhttp.NewClient(cli.APIURL, cli.Token), logger)
	}

	switch cmd {
	case "capture":
		var source readlater.URLSource = rlhttp.NewSitemapSource(nil, nil)
		if cli.Capture.Feed {
			source = gofeed.NewSource(nil, nil)
		}
		deps.Source = rlslog.NewLoggingURLSource(source, logger)
		if cli.Capture.MetricsFile != "" {
			instrument(deps)
		}
		deps.Capturer = &capture.Capturer{
			Fetcher:     deps.Fetcher,
			Extractor:   deps.Extractor,
			Articles:    deps.Articles,
			RateLimiter: capture.NewDomainLimiter(cli.Capture.Rate),
			Concurrency: cli.Capture.Concurrency,
		}
	case "inspect":
		deps.Inspector = goquery.NewExtractor(extract.NewEngine())
		deps.Converter = htmltomarkdown.NewConverter()
	}

	return nil
}

// wireFetchers sets up the static and rendering fetchers for cli.Render.
// Both are cached so that comparing them on a page does not download it
// twice. In auto mode a single-page command compares on its URL here, while
// capture compares on the first discovered URL itself.
func (m *Main) wireFetchers(cli *CLI, cmd string, deps *Dependencies) error {
	logger := deps.Logger

	opts := []rlhttp.Option{rlhttp.WithTimeout(cli.Timeout)}
	if cli.UserAgent != "" {
		opts = append(opts, rlhttp.WithUserAgent(cli.UserAgent))
	}
	static := gocache.NewFetcher(rlhttp.NewFetcher(opts...), 0)
	m.Fetchers = append(m.Fetchers, static)

	if cli.Render == "never" || cli.Render == "" {
		deps.Fetcher = rlslog.NewLoggingFetcher(static, logger)
		return nil
	}

	browser, err := rod.NewFetcher(
		rod.WithFetchTimeout(cli.Timeout),
		rod.WithRecycleAfter(cli.RecycleAfter),
	)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	rendered := gocache.NewFetcher(browser, 0)
	m.Fetchers = append(m.Fetchers, rendered)

	switch {
	case cli.Render == "always":
		deps.Fetcher = rlslog.NewLoggingFetcher(rendered, logger)
		deps.Selector = browser
	case cmd == "capture":
		deps.Fetcher = rlslog.NewLoggingFetcher(static, logger)
		deps.Rendered = rlslog.NewLoggingFetcher(rendered, logger)
	default:
		chosen := capture.ChooseFetcher(deps.Ctx, pageURL(cli, cmd), static, rendered, deps.Extractor)
		if chosen == readlater.Fetcher(rendered) {
			deps.Selector = browser
		}
		deps.Fetcher = rlslog.NewLoggingFetcher(chosen, logger)
	}
	return nil
}

// instrument counts the traffic of every capture service.
func instrument(deps *Dependencies) {
	metrics := rlprom.NewMetrics()
	deps.Metrics = metrics
	deps.Extractor = metrics.Extractor(deps.Extractor)
	if deps.Fetcher != nil {
		deps.Fetcher = metrics.Fetcher(deps.Fetcher)
	}
	if deps.Rendered != nil {
		deps.Rendered = metrics.Fetcher(deps.Rendered)
	}
	if deps.Articles != nil {
		deps.Articles = metrics.ArticleService(deps.Articles)
	}
}

// pageURL returns the URL argument of a single-page command.
func pageURL(cli *CLI, cmd string) string {
	switch cmd {
	case "extract":
		return cli.Extract.URL
	case "save":
		return cli.Save.URL
	case "inspect":
		return cli.Inspect.URL
	}
	return ""
}

// needsFetcher reports whether cmd will retrieve pages over the network.
func needsFetcher(cli *CLI, cmd string) bool {
	switch cmd {
	case "extract":
		return cli.Extract.HTMLFile == ""
	case "save":
		return cli.Save.HTMLFile == ""
	case "inspect":
		return cli.Inspect.HTMLFile == ""
	case "capture":
		return !cli.Capture.Preview
	}
	return false
}

func newExtractor(engine string) (readlater.Extractor, error) {
	switch engine {
	case "", "builtin":
		return goquery.NewExtractor(extract.NewEngine()), nil
	case "readability":
		return readability.NewExtractor(), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	}
	return nil, readlater.Errorf(readlater.EINVALID, "unknown engine %q", engine)
}

func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
