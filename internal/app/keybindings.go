package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/sidediff/internal/diffmodel"
)

const sashStep = 2

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Alt         tcell.Key // optional special key with the same action
	AltLabel    string
	Description string
	Handler     func(*App)
}

// Label returns the keys as shown in the help screen
func (kb KeyBinding) Label() string {
	if kb.AltLabel != "" {
		return fmt.Sprintf("%c/%s", kb.Key, kb.AltLabel)
	}
	return string(kb.Key)
}

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{Key: 'j', Alt: tcell.KeyDown, AltLabel: "Down", Description: "Scroll down", Handler: func(app *App) {
			app.editor.ScrollBy(1)
		}},
		{Key: 'k', Alt: tcell.KeyUp, AltLabel: "Up", Description: "Scroll up", Handler: func(app *App) {
			app.editor.ScrollBy(-1)
		}},
		{Key: 'f', Alt: tcell.KeyPgDn, AltLabel: "PgDn", Description: "Page down", Handler: func(app *App) {
			app.editor.ScrollBy(app.pageSize())
		}},
		{Key: 'b', Alt: tcell.KeyPgUp, AltLabel: "PgUp", Description: "Page up", Handler: func(app *App) {
			app.editor.ScrollBy(-app.pageSize())
		}},
		{Key: 'g', Alt: tcell.KeyHome, AltLabel: "Home", Description: "Go to top", Handler: func(app *App) {
			app.editor.ScrollTo(0)
		}},
		{Key: 'G', Alt: tcell.KeyEnd, AltLabel: "End", Description: "Go to bottom", Handler: func(app *App) {
			app.editor.ScrollTo(app.editor.Modified().RowCount() - 1)
		}},
		{Key: 'n', Description: "Next change", Handler: func(app *App) {
			if !app.editor.NextChange() {
				app.SetStatus("No next change")
			}
		}},
		{Key: 'N', Description: "Previous change", Handler: func(app *App) {
			if !app.editor.PreviousChange() {
				app.SetStatus("No previous change")
			}
		}},
		{Key: 'e', Alt: tcell.KeyEnter, AltLabel: "Enter", Description: "Reveal more of the first hidden region on screen", Handler: func(app *App) {
			app.revealRegion((*diffmodel.UnchangedRegion).ShowMoreAbove)
		}},
		{Key: 'E', Description: "Reveal more of it from the bottom", Handler: func(app *App) {
			app.revealRegion((*diffmodel.UnchangedRegion).ShowMoreBelow)
		}},
		{Key: 'a', Description: "Show all hidden regions", Handler: func(app *App) {
			app.editor.ShowAllRegions()
		}},
		{Key: 'z', Description: "Toggle hiding of unchanged regions", Handler: func(app *App) {
			app.editor.SetHideUnchangedRegions(!app.editor.HideUnchangedRegions())
		}},
		{Key: 'w', Description: "Toggle word wrap", Handler: func(app *App) {
			app.editor.SetWordWrap(!app.editor.WordWrap())
			app.SetStatus(onOff("Word wrap", app.editor.WordWrap()))
		}},
		{Key: 'i', Description: "Toggle ignoring leading/trailing whitespace", Handler: func(app *App) {
			app.editor.SetIgnoreTrimWhitespace(!app.editor.IgnoreTrimWhitespace())
			app.SetStatus(onOff("Ignore whitespace", app.editor.IgnoreTrimWhitespace()))
		}},
		{Key: '<', Description: "Move divider left", Handler: func(app *App) {
			app.moveSash(-sashStep)
		}},
		{Key: '>', Description: "Move divider right", Handler: func(app *App) {
			app.moveSash(sashStep)
		}},
		{Key: '=', Description: "Reset divider", Handler: func(app *App) {
			app.editor.Sash().Reset()
		}},
		{Key: 'u', Description: "Show unified diff", Handler: func(app *App) {
			app.showUnified()
		}},
		{Key: 'r', Description: "Reload both files", Handler: func(app *App) {
			if err := app.reload(""); err != nil {
				app.SetStatus("Reload failed: " + err.Error())
			}
		}},
		{Key: ':', Description: "Command mode", Handler: func(app *App) {
			app.command.Start()
		}},
		{Key: '?', Description: "Toggle help", Handler: func(app *App) {
			app.help.Toggle()
		}},
		{Key: 'q', Description: "Quit", Handler: func(app *App) {
			app.Quit()
		}},
	}
}

// handleKeypress runs the binding for ev, if any
func (a *App) handleKeypress(ev *tcell.EventKey) {
	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	switch ev.Key() {
	case tcell.KeyCtrlD:
		a.editor.ScrollBy(max(a.pageSize()/2, 1))
		return
	case tcell.KeyCtrlU:
		a.editor.ScrollBy(-max(a.pageSize()/2, 1))
		return
	case tcell.KeyCtrlL:
		a.screen.Sync()
		return
	}

	for _, kb := range a.keys {
		if (ev.Key() == tcell.KeyRune && ev.Rune() == kb.Key) || (kb.Alt != 0 && ev.Key() == kb.Alt) {
			kb.Handler(a)
			return
		}
	}
}

func (a *App) pageSize() int {
	return max(a.editor.CurrentLayout().Height, 1)
}

func (a *App) moveSash(delta int) {
	s := a.editor.Sash()
	if !s.Enabled() {
		a.SetStatus("Split resizing is disabled")
		return
	}
	s.MoveBy(delta)
}

// revealRegion applies reveal to the first region bar visible on screen
func (a *App) revealRegion(reveal func(*diffmodel.UnchangedRegion)) {
	top := a.editor.Modified().ScrollTop()
	for row := top; row < top+a.pageSize(); row++ {
		if r, ok := a.editor.RegionAtRow(row); ok {
			reveal(r)
			return
		}
	}
	a.SetStatus("No hidden region on screen")
}

func (a *App) showUnified() {
	d := a.editor.Diff()
	if d == nil {
		a.SetStatus("Diff not computed yet")
		return
	}
	orig, mod := a.editor.Original().Document(), a.editor.Modified().Document()
	a.unified.Show(d, orig.Lines(), mod.Lines(), orig.Name(), mod.Name())
}

func onOff(name string, on bool) string {
	if on {
		return name + " on"
	}
	return name + " off"
}
