package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/cj3636/linediff/internal/compare"
	"github.com/cj3636/linediff/internal/config"
	"github.com/cj3636/linediff/internal/export"
	"github.com/cj3636/linediff/internal/git"
	"github.com/cj3636/linediff/internal/revision"
	"github.com/cj3636/linediff/internal/tui"
	"github.com/cj3636/linediff/internal/watcher"
	flag "github.com/spf13/pflag"
)

const version = "0.1.0"

var (
	showVersion      bool
	help             bool
	line             int
	commitRef        string
	contentsFile     string
	resolveOnly      bool
	watch            bool
	noLineNumber     bool
	ignoreWhitespace bool
	tabSize          int
	sideBySide       bool
	theme            string
	highContrast     bool
	logLevel         string
	exportFormat     string
	exportFile       string
	exportCopy       bool
)

func init() {
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.BoolVarP(&help, "help", "h", false, "Show help information")
	flag.IntVarP(&line, "line", "l", 1, "1-based line to compare (defaults to the first line)")
	flag.StringVar(&commitRef, "commit", "", "Compare against this commit instead of blaming the line")
	flag.StringVar(&contentsFile, "contents", "", "Blame against this buffer snapshot instead of the file on disk (- for stdin)")
	flag.BoolVar(&resolveOnly, "resolve-only", false, "Print the resolved revisions and exit")
	flag.BoolVar(&watch, "watch", false, "Re-resolve whenever the working file changes")
	flag.BoolVarP(&noLineNumber, "no-line-numbers", "n", false, "Hide line numbers")
	flag.BoolVarP(&ignoreWhitespace, "ignore-whitespace", "w", false, "Ignore whitespace changes")
	flag.IntVarP(&tabSize, "tab-size", "t", 4, "Set tab size")
	flag.BoolVar(&sideBySide, "side-by-side", false, "Start in side-by-side view")
	flag.StringVar(&theme, "theme", "", "Color theme: default, solarized or dracula")
	flag.BoolVar(&highContrast, "high-contrast", false, "Brighten theme colors")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flag.StringVar(&exportFormat, "export-format", "", "Export diff as html, markdown, or ansi without launching the TUI")
	flag.StringVar(&exportFile, "export-file", "", "Write exported diff to the provided file path")
	flag.BoolVar(&exportCopy, "export-copy", false, "Copy the exported diff to your clipboard")
	flag.Usage = usage
}

func usage() {
	fmt.Println("linediff - compare the commit behind a line with your working copy")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  linediff [options] <file>")
	fmt.Println("")
	fmt.Println("The left side is chosen from the line's history:")
	fmt.Println("  committed line        the commit that last changed it")
	fmt.Println("  staged change         the index")
	fmt.Println("  unstaged change       the previous commit of the file")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  linediff -l 42 main.go")
	fmt.Println("  linediff --commit HEAD~3 -l 10 README.md")
	fmt.Println("  linediff -l 7 --resolve-only internal/app.go")
	fmt.Println("  linediff -l 7 --export-format html --export-file diff.html app.go")
	fmt.Println("")
	fmt.Println("Keyboard shortcuts:")
	fmt.Println("  j/↓ k/↑   Scroll")
	fmt.Println("  d u       Half page down/up")
	fmt.Println("  g G       Top/bottom")
	fmt.Println("  f         Back to the compared line")
	fmt.Println("  v         Toggle side-by-side view")
	fmt.Println("  c         Toggle colors")
	fmt.Println("  s         Toggle statistics panel")
	fmt.Println("  r         Re-resolve the line")
	fmt.Println("  ?/h       Toggle help panel")
	fmt.Println("  q         Quit")
}

// applyFlags layers explicitly set flags over the environment config.
func applyFlags(cfg *config.Config) error {
	changed := flag.CommandLine.Changed

	if changed("theme") {
		preset, err := config.ParsePreset(theme)
		if err != nil {
			return err
		}
		cfg.ThemePreset = preset
	}
	if changed("high-contrast") {
		cfg.HighContrast = highContrast
	}
	if changed("no-line-numbers") {
		cfg.ShowLineNo = !noLineNumber
	}
	if changed("ignore-whitespace") {
		cfg.IgnoreWhitespace = ignoreWhitespace
	}
	if changed("tab-size") {
		cfg.TabSize = tabSize
	}
	if changed("side-by-side") {
		cfg.SideBySide = sideBySide
	}
	if changed("log-level") {
		cfg.LogLevel = logLevel
	}
	cfg.Theme = config.ThemeForPreset(cfg.ThemePreset, cfg.HighContrast)
	return nil
}

func newLogger(cfg *config.Config) (*log.Logger, func(), error) {
	var (
		out     io.Writer = os.Stderr
		cleanup           = func() {}
	)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		cleanup = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "linediff"})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.SetLevel(level)
	return logger, cleanup, nil
}

func readHint(path string) (*revision.DocumentHint, error) {
	if path == "" {
		return nil, nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read contents: %w", err)
	}
	return &revision.DocumentHint{Contents: data}, nil
}

// pairPrinter presents only the resolved revisions.
type pairPrinter struct {
	out io.Writer
}

func (p pairPrinter) Present(_ context.Context, cmp *compare.Comparison) error {
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "repo\t%s\n", cmp.Pair.RepoPath)
	fmt.Fprintf(tw, "lhs\t%s\t%s\n", revisionName(cmp.Pair.LHS.Revision), cmp.Pair.LHS.Location.Path)
	fmt.Fprintf(tw, "rhs\t%s\t%s\n", revisionName(cmp.Pair.RHS.Revision), cmp.Pair.RHS.Location.Path)
	fmt.Fprintf(tw, "line\t%d\n", cmp.Pair.Line+1)
	return tw.Flush()
}

func revisionName(rev revision.Revision) string {
	if sha, ok := rev.SHA(); ok {
		return sha
	}
	return rev.Label()
}

// loudPresenter prints presenter failures. Resolution failures already
// reach the user through the notifier.
type loudPresenter struct {
	compare.Presenter
}

func (p loudPresenter) Present(ctx context.Context, cmp *compare.Comparison) error {
	err := p.Presenter.Present(ctx, cmp)
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

type quietNotifier struct{}

func (quietNotifier) Warn(string) {}

func main() {
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("linediff version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 1 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code := run(cfg, logger, args[0])
	closeLog()
	os.Exit(code)
}

func run(cfg *config.Config, logger *log.Logger, target string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	notifier := compare.NewWriterNotifier(os.Stderr, cfg.Theme.WarningFg)
	client := git.NewClient(logger)

	file, err := client.Identify(ctx, target)
	if err != nil {
		logger.Warn("identify failed", "file", target, "err", err)
		notifier.Warn(compare.MsgNotUnderSourceControl)
		return 1
	}

	req := revision.Request{File: file}
	if flag.CommandLine.Changed("line") {
		zeroBased := line - 1
		req.Line = &zeroBased
	}

	if commitRef != "" {
		commit, err := client.CommitForFile(ctx, commitRef, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		req.Commit = &commit
	}

	if req.Hint, err = readHint(contentsFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	resolver := revision.NewResolver(client, client, client, client, logger)
	executor := compare.NewExecutor(client)
	cmdArgs := compare.Args{
		Request: req,
		Options: compare.Options{IgnoreWhitespace: cfg.IgnoreWhitespace, Intraline: cfg.Intraline},
	}

	var presenter compare.Presenter
	switch {
	case resolveOnly:
		presenter = pairPrinter{out: os.Stdout}

	case exportFormat != "" || exportFile != "" || exportCopy:
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		presenter = &export.Presenter{
			Format:  format,
			Options: export.Options{ShowLineNumbers: cfg.ShowLineNo},
			File:    exportFile,
			Copy:    exportCopy,
			Out:     os.Stdout,
		}

	default:
		// reloads report inside the TUI, not on the terminal it owns
		reloader := compare.NewCommand(resolver, executor, quietNotifier{}, nil, logger)
		p := &tui.Presenter{
			Config: cfg,
			Reload: func(ctx context.Context) (*compare.Comparison, error) {
				return reloader.Compare(ctx, cmdArgs)
			},
		}
		if watch {
			w, err := watcher.New(file.Abs(), watcher.DefaultDebounce)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", target, err)
				return 1
			}
			defer w.Close()
			w.Start()
			p.Watch = w
		}
		presenter = p
	}

	command := compare.NewCommand(resolver, executor, notifier, loudPresenter{presenter}, logger)
	if err := command.Execute(ctx, cmdArgs); err != nil {
		return 1
	}
	return 0
}
