package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"tagcalc/internal/app"
	"tagcalc/internal/calc"
	"tagcalc/internal/cli"
	"tagcalc/internal/config"
	"tagcalc/internal/ctxlog"
	"tagcalc/internal/formula"
	"tagcalc/internal/logging"
	"tagcalc/internal/source"
)

func main() {
	// minimal logger until the configured one exists
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args and either evaluates a single formula or starts the UI.
func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	cfg := opts.Config

	src, err := source.Open(cfg.SourceURL, cfg.SourceTimeout)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	if opts.HasEval {
		logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return evalOnce(ctxlog.WithLogger(context.Background(), logger), outW, src, opts.Eval)
	}
	return runUI(cfg, src)
}

// evalOnce loads the catalog, evaluates expr and prints the result.
func evalOnce(ctx context.Context, outW io.Writer, src source.Source, expr string) error {
	catalog, err := source.Load(ctx, src)
	if err != nil {
		fmt.Fprintln(os.Stderr, app.FetchErrorText)
	}
	v, err := formula.Evaluate(formula.Tokenize(expr), catalog, calc.Arithmetic{})
	if err != nil {
		return &cli.ExitError{Code: 1, Message: fmt.Sprintf("%s: %v", app.EvaluationNotice, err)}
	}
	fmt.Fprintln(outW, app.FormatResult(v))
	return nil
}

func runUI(cfg *config.Config, src source.Source) error {
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logFile)
	slog.SetDefault(logger)
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), logger))
	defer cancel()

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer s.Fini()
	s.Clear()

	a := app.NewApp(ctx, app.Options{
		Post:          s.PostEvent,
		Debounce:      cfg.Debounce,
		SourceTimeout: cfg.SourceTimeout,
	})
	logger.Info("Starting tagcalc.", "source", fmt.Sprint(src), "debounce", cfg.Debounce)
	a.LoadCatalog(src)

	for _, ev := range app.Splash(s, 120*time.Millisecond) {
		a.HandleEvent(s, ev)
	}

	for !a.Quit {
		a.Draw(s)
		ev := s.PollEvent()
		if ev == nil {
			break
		}
		a.HandleEvent(s, ev)
	}
	logger.Info("Exiting tagcalc.")
	return nil
}
