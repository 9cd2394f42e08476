package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bubblepop/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"h", runeKey('h'), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"j", runeKey('j'), core.ActionDown, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionFire, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionFire, false},
		{"p", runeKey('p'), core.ActionPause, false},
		{"r", runeKey('r'), core.ActionRestart, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = (%v, %v), expected (%v, %v)", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyLeft}, &frame) {
		t.Error("left should not quit")
	}
	km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeySpace}, &frame)

	if !frame.Has(core.ActionLeft) || !frame.Has(core.ActionFire) {
		t.Errorf("frame should hold both actions, got %v", frame.Actions)
	}
	if frame.Has(core.ActionNone) {
		t.Error("unbound keys must not set ActionNone")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %d, expected %d", tt.msg.String(), got, tt.want)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawTextColored(0, 0, "pop", core.ColorRed)
	s.DrawText(0, 1, "ok")

	out := RenderScreen(s)
	// Styling depends on the terminal profile; the text must survive either way
	for _, want := range []string{"pop", "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() lost %q: %q", want, out)
		}
	}
}
