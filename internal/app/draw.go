package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"tagcalc/internal/formula"
)

const (
	// OutputPlaceholder stands in for the result until a formula is evaluated.
	OutputPlaceholder = "press enter in the input when done"
	HintText          = "for auto suggestions from an API, type 'name...'"
	FetchErrorText    = "Error fetching autocomplete values"

	maxSuggestions = 8
	barTop         = 1
	barHeight      = 3
)

const helpText = `Keys

Type a formula such as = total revenue * 2. Tag names are suggested after a short pause.

Enter   evaluate, or accept the highlighted suggestion
Tab     accept the highlighted suggestion
Up/Down move through suggestions
Esc     close suggestions
F5      evaluate
Ctrl+L  clear the formula
Ctrl+C  quit

Commands (press :)

o PATH|URL  load tags from a URL, .csv or .db file
r           reload the current tag source
w PATH      save tags as .csv or .db
q           quit

Press ? or Esc to close.`

var (
	styleText    = tcell.StyleDefault
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleChip    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	styleChipCat = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkCyan)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleResult  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleMenu    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue)
	styleMenuSel = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// ----------------------------- Drawing -----------------------------

// Draw renders the whole screen and shows it.
func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	if w < 20 || h < 12 {
		printText(s, 0, 0, "window too small", styleError, w)
		s.Show()
		return
	}

	a.drawTitle(s, w)
	a.drawFormulaBar(s, w)

	y := barTop + barHeight + 1
	printText(s, 1, y, "Your formula:", styleLabel, w-2)
	a.drawChips(s, 15, y, w-16)

	y++
	printText(s, 1, y, "Output:", styleLabel, w-2)
	if a.Formula.ShowsResult() {
		printText(s, 15, y, FormatResult(a.Formula.Result), styleResult, w-16)
	} else {
		printText(s, 15, y, OutputPlaceholder, styleDim, w-16)
	}

	y += 2
	printText(s, 1, y, "Hint:", styleLabel, w-2)
	printText(s, 15, y, HintText, styleDim, w-16)
	if a.FetchErr != nil {
		y++
		printText(s, 1, y, FetchErrorText, styleError, w-2)
	}

	a.drawStatus(s, w, h)
	a.drawSuggestions(s, w, h)

	if a.HelpVisible {
		drawPopup(s, helpText, styleText)
	}
	if a.Notice != "" {
		drawPopup(s, a.Notice+"\n\nPress any key.", styleError)
	}
	s.Show()
}

func (a *App) drawTitle(s tcell.Screen, w int) {
	printText(s, 1, 0, "TAG:CALC", styleLabel, 8)
	var info string
	switch {
	case a.Loading:
		info = "loading tags..."
	case a.src != nil:
		info = fmt.Sprintf("%d tags from %s", a.Catalog.Len(), a.src)
	default:
		info = fmt.Sprintf("%d tags", a.Catalog.Len())
	}
	if n := runeLen(info); n < w-12 {
		printText(s, w-n-1, 0, info, styleDim, n)
	}
}

// drawFormulaBar draws the bordered input with its text and a fake cursor.
func (a *App) drawFormulaBar(s tcell.Screen, w int) {
	drawBox(s, 0, barTop, w, barHeight, styleBorder)
	x, y := 2, barTop+1
	printText(s, x, y, "=", styleLabel, 1)
	x += 2

	field := w - x - 2
	runes := []rune(a.Formula.Raw)
	if len(runes) >= field {
		runes = runes[len(runes)-field+1:]
	}
	printText(s, x, y, string(runes), styleText, field)
	if a.Notice == "" && !a.HelpVisible {
		s.SetContent(x+len(runes), y, '▏', nil, styleLabel)
	}
}

// drawChips lays out the tokens; tags known to the catalog become chips.
func (a *App) drawChips(s tcell.Screen, x, y, width int) {
	if len(a.Formula.Tokens) == 0 {
		printText(s, x, y, "-", styleDim, width)
		return
	}
	end := x + width
	for _, tok := range a.Formula.Tokens {
		parts := []chipPart{{tok, styleText}}
		if formula.StartsWithLetter(tok) {
			if t, ok := a.Catalog.Lookup(tok); ok {
				parts = []chipPart{{" #" + t.Name + " ", styleChip}}
				if t.Category != "" {
					parts = append(parts, chipPart{" " + t.Category + " ", styleChipCat})
				}
			}
		}
		for _, p := range parts {
			n := runeLen(p.text)
			if x+n > end {
				printText(s, x, y, "…", styleDim, end-x)
				return
			}
			printText(s, x, y, p.text, p.style, n)
			x += n
		}
		x++
	}
}

type chipPart struct {
	text  string
	style tcell.Style
}

// drawSuggestions draws the popover under the formula bar.
func (a *App) drawSuggestions(s tcell.Screen, w, h int) {
	if len(a.Suggestions) == 0 || a.Notice != "" || a.HelpVisible {
		return
	}
	top := barTop + barHeight
	rows := min(len(a.Suggestions), maxSuggestions, h-top-2)
	if rows <= 0 {
		return
	}
	first := 0
	if a.Selected >= rows {
		first = a.Selected - rows + 1
	}

	width := 0
	for _, t := range a.Suggestions[first : first+rows] {
		width = max(width, runeLen(suggestionLine(t.Name, t.Category, t.Value.String())))
	}
	width = min(width+2, w-6)

	for i := 0; i < rows; i++ {
		idx := first + i
		t := a.Suggestions[idx]
		style := styleMenu
		if idx == a.Selected {
			style = styleMenuSel
		}
		printText(s, 4, top+i, " "+suggestionLine(t.Name, t.Category, t.Value.String()), style, width)
	}
}

func suggestionLine(name, category, value string) string {
	var b strings.Builder
	b.WriteString(name)
	if category != "" {
		b.WriteString("  [" + category + "]")
	}
	if value != "" {
		b.WriteString("  " + value)
	}
	return b.String()
}

func (a *App) drawStatus(s tcell.Screen, w, h int) {
	text := a.Message
	style := styleText
	if text == "" {
		text = "Enter evaluate  Tab accept  Esc close  Ctrl+L clear  : command  ? help"
		style = styleDim
	}
	printText(s, 0, h-1, " "+text, style, w)
}

// printText writes str from (x, y), padding with spaces up to width.
func printText(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		var ch rune = ' '
		if i < len(runes) {
			ch = runes[i]
		}
		if x+i >= 0 && y >= 0 {
			s.SetContent(x+i, y, ch, nil, style)
		}
	}
}

func drawBox(s tcell.Screen, left, top, width, height int, style tcell.Style) {
	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	for x := left; x < left+width; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+height-1, tcell.RuneHLine, nil, style)
	}
	for y := top; y < top+height; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+width-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+width-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+height-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+width-1, top+height-1, tcell.RuneLRCorner, nil, style)
}

// drawPopup centers a framed block of wrapped text.
func drawPopup(s tcell.Screen, text string, style tcell.Style) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	padding := 2
	innerW := min(60, w-4-padding*2)
	lines := wrapText(text, innerW)
	if maxH := h - 2 - padding*2; len(lines) > maxH {
		lines = lines[:maxH]
	}

	pw := innerW + padding*2
	ph := len(lines) + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2

	drawBox(s, left, top, pw, ph, styleBorder)
	for i, ln := range lines {
		printText(s, left+padding, top+padding+i, ln, style, innerW)
	}
}

// wrapText breaks s into lines of at most max runes, keeping blank lines
// between paragraphs. Overlong words are split.
func wrapText(s string, max int) []string {
	if max <= 2 {
		return []string{s}
	}

	var result []string
	for _, para := range strings.Split(s, "\n") {
		if runeLen(para) <= max {
			result = append(result, para)
			continue
		}
		words := strings.Fields(para)
		if len(words) == 0 {
			result = append(result, "")
			continue
		}
		// keep the indentation of aligned lines
		indent := para[:len(para)-len(strings.TrimLeft(para, " "))]
		cur := indent
		for _, w := range words {
			for _, c := range chunkString(w, max) {
				switch {
				case runeLen(cur) == len(indent):
					cur += c
				case runeLen(cur)+1+runeLen(c) <= max:
					cur += " " + c
				default:
					result = append(result, cur)
					cur = c
				}
			}
		}
		result = append(result, cur)
	}
	return result
}

func runeLen(s string) int {
	return len([]rune(s))
}

func chunkString(s string, size int) []string {
	r := []rune(s)
	var out []string
	for i := 0; i < len(r); i += size {
		j := min(i+size, len(r))
		out = append(out, string(r[i:j]))
	}
	return out
}
