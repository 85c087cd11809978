package app

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"tagcalc/internal/calc"
	"tagcalc/internal/ctxlog"
	"tagcalc/internal/formula"
	"tagcalc/internal/source"
	"tagcalc/internal/suggest"
	"tagcalc/internal/tag"
)

// EvaluationNotice is shown when a formula cannot be calculated.
const EvaluationNotice = "There was an error calculating values"

// Options configures a new App.
type Options struct {
	// Post hands an event to the UI loop; tcell.Screen.PostEvent in production.
	Post      func(tcell.Event) error
	Evaluator calc.Evaluator
	Debounce  time.Duration
	Catalog   *tag.Catalog
	// SourceTimeout bounds catalogs opened with the ':o' command.
	SourceTimeout time.Duration
}

// App is the formula bar: its text, tokens, suggestions and result. All
// fields are owned by the UI loop; other goroutines reach it through Post.
type App struct {
	Formula formula.Formula
	Catalog *tag.Catalog

	// FetchErr is the last catalog load failure, shown inline.
	FetchErr error
	Loading  bool

	Suggestions []tag.Tag
	Selected    int

	// Notice is a blocking message; any key dismisses it.
	Notice      string
	Message     string
	HelpVisible bool
	Quit        bool

	ctx       context.Context
	logger    *slog.Logger
	post      func(tcell.Event) error
	evaluator calc.Evaluator
	debouncer *suggest.Debouncer

	src           source.Source
	sourceTimeout time.Duration
	// catalogGen numbers catalog loads; only the latest one is installed.
	catalogGen uint64
}

// NewApp creates the UI state. ctx carries the logger and bounds background loads.
func NewApp(ctx context.Context, opts Options) *App {
	a := &App{
		Formula:   formula.Formula{},
		Catalog:   opts.Catalog,
		ctx:       ctx,
		logger:    ctxlog.FromContext(ctx),
		post:      opts.Post,
		evaluator: opts.Evaluator,
		debouncer: suggest.NewDebouncer(opts.Debounce),

		sourceTimeout: opts.SourceTimeout,
	}
	if a.Catalog == nil {
		a.Catalog = tag.Empty()
	}
	if a.evaluator == nil {
		a.evaluator = calc.Arithmetic{}
	}
	if a.sourceTimeout <= 0 {
		a.sourceTimeout = 10 * time.Second
	}
	if a.post == nil {
		a.post = func(tcell.Event) error { return nil }
	}
	return a
}

// ----------------------------- UI actions -----------------------------

// OnInputChange takes the full text of the formula bar after an edit.
func (a *App) OnInputChange(raw string) {
	if formula.IsBlank(raw) {
		a.OnClearClick()
		return
	}
	a.Formula.SetRaw(raw)
	a.debouncer.Trigger(func(gen uint64) {
		if err := a.post(newSuggestEvent(gen, raw)); err != nil {
			a.logger.Debug("Dropped suggestion refresh.", "error", err)
		}
	})
}

// OnKeyEnter evaluates the formula when there is something to evaluate.
func (a *App) OnKeyEnter() {
	if len(a.Formula.Tokens) == 0 {
		return
	}
	a.evaluate()
}

// OnSuggestionSelect writes the tag with id into the formula. Unknown ids
// are ignored and report false.
func (a *App) OnSuggestionSelect(id string) bool {
	t, ok := a.Catalog.ByID(id)
	if !ok {
		a.logger.Debug("Ignored selection of unknown tag.", "id", id)
		return false
	}
	a.Formula.Apply(t)
	a.HideSuggestions()
	return true
}

// OnEvaluateClick evaluates the formula as it stands.
func (a *App) OnEvaluateClick() {
	a.evaluate()
}

// OnClearClick empties the formula and drops any suggestions.
func (a *App) OnClearClick() {
	a.Formula.Clear()
	a.HideSuggestions()
}

// HideSuggestions closes the popover and cancels a pending refresh.
func (a *App) HideSuggestions() {
	a.debouncer.Cancel()
	a.Suggestions = nil
	a.Selected = 0
}

func (a *App) evaluate() {
	v, err := a.Formula.Evaluate(a.Catalog, a.evaluator)
	if err != nil {
		a.logger.Warn("Formula evaluation failed.", "formula", a.Formula.Raw, "error", err)
		a.Notice = EvaluationNotice
		return
	}
	a.logger.Debug("Formula evaluated.", "formula", a.Formula.Raw, "result", v)
	a.HideSuggestions()
}

// refreshSuggestions runs the filter for a debounced edit. Stale
// generations are dropped.
func (a *App) refreshSuggestions(gen uint64, raw string) {
	if !a.debouncer.Current(gen) {
		return
	}
	a.Selected = 0
	query, ok := formula.MatchReference(raw)
	if !ok {
		a.Suggestions = nil
		return
	}
	a.Suggestions = suggest.Filter(query, a.Catalog)
}

// SetCatalog replaces the catalog in one step. A failed load leaves an
// empty catalog and records the error.
func (a *App) SetCatalog(c *tag.Catalog, err error) {
	a.Loading = false
	a.FetchErr = err
	if c == nil {
		c = tag.Empty()
	}
	a.Catalog = c
	a.Suggestions = nil
	a.Selected = 0
}

// LoadCatalog fetches src in the background and posts the result to the UI loop.
// A newer call supersedes loads still in flight.
func (a *App) LoadCatalog(src source.Source) {
	a.src = src
	a.Loading = true
	a.catalogGen++
	gen := a.catalogGen
	go func() {
		c, err := source.Load(a.ctx, src)
		if perr := a.post(newCatalogEvent(gen, c, err)); perr != nil {
			a.logger.Error("Could not deliver tag catalog to the UI.", "error", perr)
		}
	}()
}

// ----------------------------- Events / Input -----------------------------

// HandleEvent dispatches one event from the UI loop.
func (a *App) HandleEvent(s tcell.Screen, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.HandleKeyEvent(s, ev)
	case *suggestEvent:
		a.refreshSuggestions(ev.gen, ev.raw)
	case *catalogEvent:
		if ev.gen != a.catalogGen {
			a.logger.Debug("Dropped superseded tag catalog.", "generation", ev.gen)
			return
		}
		a.SetCatalog(ev.catalog, ev.err)
	case *tcell.EventResize:
		if s != nil {
			s.Sync()
		}
	}
}

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	// a notice blocks everything until it is acknowledged
	if a.Notice != "" {
		a.Notice = ""
		return
	}

	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	a.Message = ""
	open := len(a.Suggestions) > 0
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyEsc:
		a.HideSuggestions()
	case tcell.KeyEnter:
		if open {
			a.OnSuggestionSelect(a.Suggestions[a.Selected].ID)
		} else {
			a.OnKeyEnter()
		}
	case tcell.KeyTab:
		if open {
			a.OnSuggestionSelect(a.Suggestions[a.Selected].ID)
		}
	case tcell.KeyUp:
		if open && a.Selected > 0 {
			a.Selected--
		}
	case tcell.KeyDown:
		if open && a.Selected < len(a.Suggestions)-1 {
			a.Selected++
		}
	case tcell.KeyF5:
		a.OnEvaluateClick()
	case tcell.KeyCtrlL:
		a.OnClearClick()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		raw := a.Formula.Raw
		if raw != "" {
			_, size := utf8.DecodeLastRuneInString(raw)
			a.OnInputChange(raw[:len(raw)-size])
		}
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case ':':
			command, ok := a.PopupInput(s, ":", "")
			if ok {
				a.ExecuteCommand(command)
			}
		case '?':
			a.HelpVisible = true
		default:
			a.OnInputChange(a.Formula.Raw + string(r))
		}
	}
}
