// Package cli parses command-line arguments into the application's
// configuration and carries process exit codes.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"tagcalc/internal/config"
)

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Options is the parsed command line.
type Options struct {
	Config *config.Config
	// Eval is set by -eval: evaluate once and exit instead of opening the UI.
	Eval    string
	HasEval bool
}

// Parse processes args. It returns the options, whether the program should
// exit cleanly right away (help), or an *ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("tagcalc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
tagcalc - formulas over named tags, with autocomplete.

Usage:
  tagcalc [options]

Type a formula such as "= total revenue * 2"; tag names are suggested as
you type. Enter evaluates, Tab accepts a suggestion, ? shows the keys.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL config file (default tagcalc.hcl if present).")
	sourceFlag := flagSet.String("source", "", "Tag source: http(s) URL, *.csv file, *.db file or sqlite:PATH.")
	debounceFlag := flagSet.Duration("debounce", 0, "Quiet period before suggestions refresh, e.g. 300ms.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format: 'text' or 'json'.")
	logFileFlag := flagSet.String("log-file", "", "File that receives logs while the terminal UI runs.")
	evalFlag := flagSet.String("eval", "", "Evaluate a formula, print the result and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *sourceFlag != "" {
		cfg.SourceURL = *sourceFlag
	}
	if set["debounce"] {
		cfg.Debounce = *debounceFlag
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = strings.ToLower(*logLevelFlag)
	}
	if *logFormatFlag != "" {
		cfg.LogFormat = strings.ToLower(*logFormatFlag)
	}
	if set["log-file"] {
		cfg.LogFile = *logFileFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return &Options{
		Config:  cfg,
		Eval:    *evalFlag,
		HasEval: set["eval"],
	}, false, nil
}
