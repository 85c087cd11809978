package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Splash plays the start-up animation and waits for a key. Events that
// arrive meanwhile, such as a finished catalog load, are returned so the
// caller can replay them.
func Splash(s tcell.Screen, frame time.Duration) []tcell.Event {
	text := []struct {
		char  rune
		color tcell.Color
	}{
		{'T', tcell.ColorWhite},
		{'A', tcell.ColorWhite},
		{'G', tcell.ColorWhite},
		{':', tcell.ColorYellow},
		{'C', tcell.ColorYellow},
		{'A', tcell.ColorYellow},
		{'L', tcell.ColorYellow},
		{'C', tcell.ColorYellow},
	}
	hint := "Press any key to start typing a formula"

	draw := func(reveal int) {
		s.Clear()
		width, height := s.Size()
		startX := (width - len(text)) / 2
		y := height / 2
		for i := 0; i < reveal; i++ {
			style := tcell.StyleDefault.Foreground(text[i].color).Bold(true)
			s.SetContent(startX+i, y, text[i].char, nil, style)
		}
		printText(s, (width-len(hint))/2, y+2, hint, tcell.StyleDefault.Foreground(tcell.ColorYellow), len(hint))
		s.Show()
	}

	for reveal := 1; reveal <= len(text); reveal++ {
		draw(reveal)
		time.Sleep(frame)
	}

	var pending []tcell.Event
	for {
		switch ev := s.PollEvent().(type) {
		case nil, *tcell.EventKey:
			return pending
		case *tcell.EventResize:
			s.Sync()
			draw(len(text))
		default:
			pending = append(pending, ev)
		}
	}
}
