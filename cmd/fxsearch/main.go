// Command fxsearch runs one file name search from the command line and
// prints the matching paths.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"fastexplorer/internal/config"
	"fastexplorer/internal/domain"
	"fastexplorer/internal/logging"
	"fastexplorer/internal/logic"
	"fastexplorer/internal/search"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitInterrupted = 130
)

// notifySignals is replaced in tests
var notifySignals = signal.Notify

// progressPrinter reports a run on stderr and hands over the final summary
type progressPrinter struct {
	out      io.Writer
	progress bool
	done     chan search.Summary
}

func (p *progressPrinter) OnSearchStarted(_ domain.RunID, req domain.SearchRequest) {
	if p.progress {
		fmt.Fprintf(p.out, "searching %q in %s\n", req.Term, req.Root)
	}
}

func (p *progressPrinter) OnProgress(_ domain.RunID, c domain.ProgressCounters, elapsed time.Duration) {
	if p.progress {
		fmt.Fprintf(p.out, "  %s found, %s files, %s folders (%s)\n",
			humanize.Comma(c.FilesFound), humanize.Comma(c.FilesSearched),
			humanize.Comma(c.DirectoriesSearched), elapsed.Truncate(time.Millisecond))
	}
}

func (p *progressPrinter) OnResultsUpdated(domain.RunID, []string) {}

func (p *progressPrinter) OnSearchComplete(s search.Summary) {
	p.done <- s
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fxsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		root          = fs.String("root", ".", "Directory to search from")
		term          = fs.String("term", "", "Case-insensitive substring to look for in file names")
		workers       = fs.Int("workers", 0, "Worker count (0 picks one from the CPU count)")
		timeoutAction = fs.String("timeout-action", "stop", "What to do when the search runs too long: continue or stop")
		timeout       = fs.Duration("timeout", 0, "Override the local and network search timeouts")
		progress      = fs.Bool("progress", false, "Print progress to stderr")
		configPath    = fs.String("config", "", "Path to the configuration file")
		debug         = fs.Bool("debug", false, "Write a debug log to the working directory")
	)
	if err := fs.Parse(args); err != nil {
		return exitInvalid
	}
	if *term == "" && fs.NArg() > 0 {
		*term = fs.Arg(0)
	}

	var keepGoing bool
	switch *timeoutAction {
	case "continue":
		keepGoing = true
	case "stop":
	default:
		fmt.Fprintf(stderr, "invalid -timeout-action %q: want continue or stop\n", *timeoutAction)
		return exitInvalid
	}

	cfg, err := config.NewConfigServiceWithBus(nil, *configPath).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitFailure
	}

	level := cfg.Log.Level
	if *debug {
		level = "debug"
	}
	logging.Init(logging.Config{
		Dir:        cfg.Log.Dir,
		Level:      level,
		Format:     cfg.Log.Format,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Debug:      *debug,
	})
	defer logging.Shutdown()

	opts := search.OptionsFromConfig(cfg.Search)
	opts.Workers = *workers
	if *timeout > 0 {
		opts.LocalTimeout = *timeout
		opts.NetworkTimeout = *timeout
	}
	if keepGoing {
		opts.Prompt = func(context.Context, domain.RunID, domain.SearchRequest, time.Duration) bool { return true }
	}

	printer := &progressPrinter{out: stderr, progress: *progress, done: make(chan search.Summary, 1)}
	controller := search.NewController(opts)
	controller.AddObserver(printer)

	// registered before Start: an interrupt must never hit the default handler
	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if _, err := controller.Start(context.Background(), *root, *term); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			return exitInvalid
		}
		return exitFailure
	}

	interrupted := false
	var summary search.Summary
	select {
	case summary = <-printer.done:
		select {
		case <-sigChan:
			interrupted = true
		default:
		}
	case <-sigChan:
		interrupted = true
		controller.Stop()
		summary = <-printer.done
	}

	for _, item := range logic.ItemsFromPaths(summary.Results) {
		fmt.Fprintln(stdout, item.Path)
	}

	c := summary.Counters
	fmt.Fprintf(stderr, "%s matches, %s files and %s folders searched in %s (%s)\n",
		humanize.Comma(c.FilesFound), humanize.Comma(c.FilesSearched),
		humanize.Comma(c.DirectoriesSearched), summary.Elapsed.Truncate(time.Millisecond), summary.Reason)

	logging.ForComponent(logging.CompSearch).Info("cli_search_done",
		slog.String("root", summary.Request.Root),
		slog.String("reason", string(summary.Reason)),
		slog.Int64("found", c.FilesFound))

	if interrupted {
		return exitInterrupted
	}
	return exitOK
}
