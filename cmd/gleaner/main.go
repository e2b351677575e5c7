// Command gleaner renders a list of web pages in a headless browser,
// extracts article text, and appends one JSON record per page to an
// output file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkobus/gleaner"
	"github.com/pkobus/gleaner/crawl"
	"github.com/pkobus/gleaner/fs"
	gleanergoquery "github.com/pkobus/gleaner/goquery"
	gleanerhttp "github.com/pkobus/gleaner/http"
	"github.com/pkobus/gleaner/jsonl"
	"github.com/pkobus/gleaner/readability"
	"github.com/pkobus/gleaner/rod"
	gleanerslog "github.com/pkobus/gleaner/slog"
	"github.com/pkobus/gleaner/sqlite"
	"github.com/pkobus/gleaner/trafilatura"
)

func main() {
	// Cooperative stop: the pipeline checks the signal between URLs and
	// lets an in-flight navigation finish or time out first.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs      string        `arg:"" name:"urls" required:"" help:"Path to a line-delimited URL list (or a site URL with --sitemap)."`
	Out       string        `short:"o" default:"articles.jsonl" help:"Output path (JSONL file or SQLite database)."`
	Format    string        `enum:"jsonl,sqlite" default:"jsonl" help:"Output format."`
	Extractor string        `enum:"readability,trafilatura,goquery" default:"readability" help:"Boilerplate-removal heuristic."`
	Proxies   string        `help:"Optional path to a line-delimited proxy list."`
	Sitemap   bool          `help:"Treat URLS as a site URL and read targets from its sitemap."`
	Timeout   time.Duration `short:"t" default:"30s" help:"Navigation timeout per page."`
	Wait      string        `enum:"load,networkidle" default:"networkidle" help:"Load-completion signal to wait for."`
	UserAgent string        `default:"${default_ua}" help:"User-Agent sent by the browser."`
	DelayMin  time.Duration `default:"500ms" help:"Lower bound of the inter-request delay window."`
	DelayMax  time.Duration `default:"1500ms" help:"Upper bound of the inter-request delay window."`
	Lanes     int           `short:"n" default:"1" help:"Parallel browser lanes, each with its own session and proxy."`
	RPS       float64       `name:"rps" default:"0" help:"Optional per-host request cap shared across lanes (0 disables)."`
	Verbose   bool          `short:"v" help:"Enable debug logging."`
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("gleaner"),
		kong.Description("Harvest article text from web pages into JSONL records"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"default_ua": rod.DefaultUserAgent},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if cli.Lanes < 1 {
		return fmt.Errorf("lanes must be at least 1")
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return m.run(ctx, cli, stdout, logger)
}

func (m *Main) run(ctx context.Context, cli *CLI, stdout io.Writer, logger *slog.Logger) error {
	// URL source: opening it is the one failure that aborts before any
	// URL is processed.
	source, err := openSource(cli)
	if err != nil {
		return fmt.Errorf("%s", gleaner.ErrorMessage(err))
	}
	defer source.Close()

	var proxies []string
	if cli.Proxies != "" {
		proxies, err = fs.LoadProxies(cli.Proxies)
		if err != nil {
			return fmt.Errorf("loading proxies: %w", err)
		}
	}

	writer, err := openWriter(cli)
	if err != nil {
		return err
	}
	defer writer.Close()
	records := gleanerslog.NewLoggingRecordWriter(writer, logger)

	extractor := gleanerslog.NewLoggingExtractor(newExtractor(cli.Extractor), logger)

	var hosts gleaner.HostLimiter
	if cli.RPS > 0 {
		hosts = crawl.NewHostRateLimiter(cli.RPS)
	}

	// One browser session per lane, each with its own proxy choice; lanes
	// draw from a shared feed and share the serializing record writer.
	var lanes []*crawl.Pipeline
	var fetchers []gleaner.Fetcher
	defer func() {
		for _, f := range fetchers {
			_ = f.Close()
		}
	}()

	laneSource := gleaner.URLSource(source)
	if cli.Lanes > 1 {
		laneSource = crawl.NewFeed(ctx, source)
	}

	for range cli.Lanes {
		fetcher, err := rod.NewFetcher(
			rod.WithTimeout(cli.Timeout),
			rod.WithUserAgent(cli.UserAgent),
			rod.WithWaitPolicy(gleaner.WaitPolicy(cli.Wait)),
			rod.WithProxy(gleaner.ChooseProxy(proxies)),
		)
		if err != nil {
			fmt.Fprintln(stdout, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetchers = append(fetchers, fetcher)

		lanes = append(lanes, &crawl.Pipeline{
			Source:    laneSource,
			Fetcher:   rod.NewLoggingFetcher(fetcher, logger),
			Extractor: extractor,
			Records:   records,
			Pacer:     crawl.NewJitterPacer(cli.DelayMin, cli.DelayMax),
			Hosts:     hosts,
			Logger:    logger,
		})
	}

	var result *crawl.Result
	if len(lanes) == 1 {
		result, err = lanes[0].Run(ctx)
	} else {
		result, err = crawl.RunLanes(ctx, lanes)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Saved %d records (%d skipped, %d failed)\n",
		result.Saved, result.Skipped, result.Failed)
	return nil
}

// openSource picks the URL source implementation.
func openSource(cli *CLI) (gleaner.URLSource, error) {
	if cli.Sitemap {
		return gleanerhttp.NewSitemapSource(nil, cli.URLs), nil
	}
	return fs.OpenLineSource(cli.URLs)
}

// openWriter picks the record writer implementation.
func openWriter(cli *CLI) (gleaner.RecordWriter, error) {
	switch cli.Format {
	case "sqlite":
		db := sqlite.NewDB(cli.Out)
		if err := db.Open(); err != nil {
			return nil, err
		}
		return sqlite.NewRecordService(db), nil
	default:
		return jsonl.Open(cli.Out)
	}
}

// newExtractor picks the boilerplate-removal heuristic.
func newExtractor(name string) gleaner.Extractor {
	switch name {
	case "trafilatura":
		return trafilatura.NewExtractor()
	case "goquery":
		return gleanergoquery.NewExtractor()
	default:
		return readability.NewExtractor()
	}
}
