package app

import (
	"github.com/gdamore/tcell/v2"
)

const maxInputLen = 4096

// PopupInput shows a one-line modal input with prompt and initial text. It
// returns the entered text and true on Enter, or "" and false on Esc.
// Events that are not keys keep flowing to HandleEvent while it is open.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	if s == nil {
		return "", false
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)

	promptRunes := []rune(prompt)
	buf := []rune(initial)
	pos := len(buf)

	var left, top, boxW int
	const boxH = 3
	layout := func() {
		w, h := s.Size()
		boxW = min(max(40, len(promptRunes)+len(buf)+6), w-4)
		left = (w - boxW) / 2
		top = (h - boxH) / 2
	}

	redraw := func() {
		a.Draw(s)
		drawBox(s, left, top, boxW, boxH, style)

		x, y := left+2, top+1
		printText(s, x, y, prompt, style, len(promptRunes))
		x += len(promptRunes) + 1

		field := boxW - 4 - len(promptRunes) - 1
		start := 0
		if pos > field {
			start = pos - field
		}
		end := min(len(buf), start+field)
		printText(s, x, y, string(buf[start:end]), style, field)
		s.ShowCursor(x+pos-start, y)
		s.Show()
	}

	done := func(text string, ok bool) (string, bool) {
		s.HideCursor()
		a.Draw(s)
		return text, ok
	}

	layout()
	redraw()
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			// screen finalized
			return "", false
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc, tcell.KeyCtrlC:
				return done("", false)
			case tcell.KeyEnter:
				return done(string(buf), true)
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if pos > 0 {
					buf = append(buf[:pos-1], buf[pos:]...)
					pos--
				}
			case tcell.KeyDelete:
				if pos < len(buf) {
					buf = append(buf[:pos], buf[pos+1:]...)
				}
			case tcell.KeyLeft:
				if pos > 0 {
					pos--
				}
			case tcell.KeyRight:
				if pos < len(buf) {
					pos++
				}
			case tcell.KeyHome:
				pos = 0
			case tcell.KeyEnd:
				pos = len(buf)
			case tcell.KeyRune:
				if len(buf) < maxInputLen {
					buf = append(buf[:pos], append([]rune{ev.Rune()}, buf[pos:]...)...)
					pos++
				}
			}
		case *tcell.EventResize:
			s.Sync()
			layout()
		default:
			a.HandleEvent(s, ev)
		}
		redraw()
	}
}
