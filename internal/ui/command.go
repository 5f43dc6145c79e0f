package ui

import (
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CommandMode manages command line input (`:command`)
type CommandMode struct {
	active     bool
	input      string
	cursorPos  int
	history    *History
	completion []string
}

// NewCommandMode creates a command line using h for history. completion
// lists the command names offered on Tab.
func NewCommandMode(h *History, completion []string) *CommandMode {
	if h == nil {
		h = NewHistory(50)
	}
	return &CommandMode{history: h, completion: completion}
}

// Start enters command mode
func (c *CommandMode) Start() {
	c.active = true
	c.input = ""
	c.cursorPos = 0
	c.history.Reset()
}

// Stop exits command mode
func (c *CommandMode) Stop() {
	c.active = false
}

// IsActive returns whether command mode is active
func (c *CommandMode) IsActive() bool {
	return c.active
}

// Input returns the text typed so far
func (c *CommandMode) Input() string {
	return c.input
}

// deleteWordBackwards deletes the word before the cursor
func (c *CommandMode) deleteWordBackwards() {
	pos := c.cursorPos
	for pos > 0 && (c.input[pos-1] == ' ' || c.input[pos-1] == '\t') {
		pos--
	}
	for pos > 0 && c.input[pos-1] != ' ' && c.input[pos-1] != '\t' {
		pos--
	}
	c.input = c.input[:pos] + c.input[c.cursorPos:]
	c.cursorPos = pos
}

func (c *CommandMode) setInput(s string) {
	c.input = s
	c.cursorPos = len(s)
}

// complete replaces the first word with the best fuzzy match among the
// completion names.
func (c *CommandMode) complete() {
	name, rest, _ := strings.Cut(c.input, " ")
	if best, ok := ResolveCommand(name, c.completion); ok {
		c.setInput(best + " " + rest)
	}
}

// HandleKey processes a key press in command mode
func (c *CommandMode) HandleKey(ev *tcell.EventKey) (command string, done bool) {
	switch ev.Key() {
	case tcell.KeyCtrlW:
		c.deleteWordBackwards()
	case tcell.KeyEscape:
		c.Stop()
		return "", true
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(c.input)
		c.history.Add(cmd)
		c.Stop()
		return cmd, true
	case tcell.KeyTab:
		c.complete()
	case tcell.KeyUp:
		if prev, ok := c.history.Previous(c.input); ok {
			c.setInput(prev)
		}
	case tcell.KeyDown:
		if next, ok := c.history.Next(); ok {
			c.setInput(next)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if c.cursorPos > 0 {
			runes := []rune(c.input[:c.cursorPos])
			before := string(runes[:len(runes)-1])
			c.input = before + c.input[c.cursorPos:]
			c.cursorPos = len(before)
		} else if c.input == "" {
			// Backspace on an empty line leaves command mode
			c.Stop()
			return "", true
		}
	case tcell.KeyDelete:
		if c.cursorPos < len(c.input) {
			runes := []rune(c.input[c.cursorPos:])
			c.input = c.input[:c.cursorPos] + string(runes[1:])
		}
	case tcell.KeyLeft:
		if c.cursorPos > 0 {
			runes := []rune(c.input[:c.cursorPos])
			c.cursorPos = len(string(runes[:len(runes)-1]))
		}
	case tcell.KeyRight:
		if c.cursorPos < len(c.input) {
			runes := []rune(c.input[c.cursorPos:])
			c.cursorPos += len(string(runes[:1]))
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		c.cursorPos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		c.cursorPos = len(c.input)
	case tcell.KeyCtrlU:
		c.input = c.input[c.cursorPos:]
		c.cursorPos = 0
	case tcell.KeyCtrlK:
		c.input = c.input[:c.cursorPos]
	case tcell.KeyRune:
		s := string(ev.Rune())
		c.input = c.input[:c.cursorPos] + s + c.input[c.cursorPos:]
		c.cursorPos += len(s)
	}

	return "", false
}

// Render renders the command line
func (c *CommandMode) Render(screen *Screen, y int) {
	if !c.active {
		return
	}

	textStyle := screen.CommandTextStyle()
	cursorStyle := screen.CommandCursorStyle()
	width := screen.GetWidth()

	screen.Fill(0, y, width, ' ', textStyle)
	x := screen.DrawString(0, y, ":", screen.CommandPromptStyle())
	for i, r := range c.input {
		style := textStyle
		if i == c.cursorPos {
			style = cursorStyle
		}
		screen.SetCell(x, y, r, style)
		x++
	}
	if c.cursorPos >= len(c.input) {
		screen.SetCell(x, y, ' ', cursorStyle)
	}
}

// ResolveCommand maps a possibly abbreviated or misspelled command name to
// one of names. An exact match wins, then a unique prefix, then the closest
// fuzzy match.
func ResolveCommand(name string, names []string) (string, bool) {
	if name == "" {
		return "", false
	}
	var prefixed []string
	for _, n := range names {
		if n == name {
			return n, true
		}
		if strings.HasPrefix(n, name) {
			prefixed = append(prefixed, n)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}
	if len(prefixed) > 1 {
		return "", false
	}

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return "", false
	}
	return ranks[0].Target, true
}
