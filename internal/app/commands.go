package app

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pstuifzand/sidediff/internal/diff"
	"github.com/pstuifzand/sidediff/internal/ui"
)

var errUsage = errors.New("usage")

type commandSpec struct {
	name        string
	usage       string
	description string
	run         func(a *App, args []string) error
}

var commands = []commandSpec{
	{"quit", "quit", "Quit", func(a *App, _ []string) error {
		a.Quit()
		return nil
	}},
	{"reload", "reload [original|modified]", "Re-read files from disk", func(a *App, args []string) error {
		side := ""
		if len(args) > 0 {
			side = args[0]
		}
		return a.reload(side)
	}},
	{"wrap", "wrap [on|off]", "Soft-wrap long lines", func(a *App, args []string) error {
		on, err := toggleArg(args, a.editor.WordWrap())
		if err != nil {
			return err
		}
		a.editor.SetWordWrap(on)
		a.SetStatus(onOff("Word wrap", on))
		return nil
	}},
	{"ignorews", "ignorews [on|off]", "Ignore leading and trailing whitespace", func(a *App, args []string) error {
		on, err := toggleArg(args, a.editor.IgnoreTrimWhitespace())
		if err != nil {
			return err
		}
		a.editor.SetIgnoreTrimWhitespace(on)
		a.SetStatus(onOff("Ignore whitespace", on))
		return nil
	}},
	{"hide", "hide [on|off]", "Collapse unchanged regions", func(a *App, args []string) error {
		on, err := toggleArg(args, a.editor.HideUnchangedRegions())
		if err != nil {
			return err
		}
		a.editor.SetHideUnchangedRegions(on)
		return nil
	}},
	{"showall", "showall", "Reveal all hidden regions", func(a *App, _ []string) error {
		a.editor.ShowAllRegions()
		return nil
	}},
	{"ratio", "ratio <0-1>", "Place the divider", func(a *App, args []string) error {
		if len(args) != 1 {
			return errUsage
		}
		r, err := strconv.ParseFloat(args[0], 64)
		if err != nil || r <= 0 || r >= 1 {
			return fmt.Errorf("ratio must be between 0 and 1, got %q", args[0])
		}
		if !a.editor.Sash().Enabled() {
			return errors.New("split resizing is disabled")
		}
		a.editor.Sash().SetRatio(r)
		return nil
	}},
	{"algorithm", "algorithm <advanced|legacy>", "Select the diff algorithm", func(a *App, args []string) error {
		if len(args) != 1 {
			a.SetStatus("Algorithm: " + string(a.provider.Algorithm()))
			return nil
		}
		alg, ok := diff.ParseAlgorithm(args[0])
		if !ok {
			return fmt.Errorf("unknown algorithm %q", args[0])
		}
		a.provider.SetAlgorithm(alg)
		return nil
	}},
	{"timeout", "timeout <ms>", "Limit diff computation time (0 = none)", func(a *App, args []string) error {
		if len(args) != 1 {
			return errUsage
		}
		ms, err := strconv.Atoi(args[0])
		if err != nil || ms < 0 {
			return fmt.Errorf("invalid timeout %q", args[0])
		}
		a.editor.SetMaxComputationTime(time.Duration(ms) * time.Millisecond)
		return nil
	}},
	{"set", "set [key[=value]]", "Show or change a session setting", func(a *App, args []string) error {
		return a.setCommand(args)
	}},
	{"write-config", "write-config", "Save the current options to the config file", func(a *App, _ []string) error {
		return a.writeConfig()
	}},
	{"unified", "unified", "Show the diff as unified hunks", func(a *App, _ []string) error {
		a.showUnified()
		return nil
	}},
	{"messages", "messages", "Show recent messages", func(a *App, _ []string) error {
		a.showMessages()
		return nil
	}},
	{"help", "help", "Toggle help", func(a *App, _ []string) error {
		a.help.Toggle()
		return nil
	}},
	{"debug", "debug", "Show key events in the status line", func(a *App, _ []string) error {
		a.debugMode = !a.debugMode
		a.SetStatus(onOff("Debug mode", a.debugMode))
		return nil
	}},
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

func findCommand(name string) (commandSpec, bool) {
	if name == "q" {
		name = "quit"
	}
	resolved, ok := ui.ResolveCommand(name, commandNames())
	if !ok {
		return commandSpec{}, false
	}
	for _, c := range commands {
		if c.name == resolved {
			return c, true
		}
	}
	return commandSpec{}, false
}

func (a *App) handleCommand(cmd string) {
	args := parseCommand(cmd)
	if len(args) == 0 {
		return
	}

	c, ok := findCommand(args[0])
	if !ok {
		a.SetStatus("Unknown command: " + args[0])
		return
	}
	a.logger.Debug().Str("command", c.name).Strs("args", args[1:]).Msg("command")

	if err := c.run(a, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			a.SetStatus("Usage: :" + c.usage)
			return
		}
		a.SetStatus(fmt.Sprintf("%s: %v", c.name, err))
	}
}

// parseCommand splits a command line into words. Single and double quotes
// group words and a backslash escapes the next character.
func parseCommand(input string) []string {
	var args []string
	var current strings.Builder
	inWord := false
	var quote rune
	escaped := false

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, current.String())
	}
	return args
}

func toggleArg(args []string, current bool) (bool, error) {
	if len(args) == 0 {
		return !current, nil
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", args[0])
}

func (a *App) setCommand(args []string) error {
	if len(args) == 0 {
		all := a.cfg.GetAll()
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			parts = append(parts, k+"="+all[k])
		}
		if len(parts) == 0 {
			a.SetStatus("No settings")
		} else {
			a.SetStatus(strings.Join(parts, " "))
		}
		return nil
	}

	key, value, hasValue := strings.Cut(args[0], "=")
	if !hasValue && len(args) > 1 {
		value, hasValue = strings.Join(args[1:], " "), true
	}
	if !hasValue {
		a.SetStatus(key + "=" + a.cfg.Get(key))
		return nil
	}
	a.cfg.Set(key, value)
	a.SetStatus(key + "=" + value)
	return nil
}

// writeConfig stores the live editor options in the config file
func (a *App) writeConfig() error {
	if a.configPath == "" {
		return errors.New("no config file")
	}
	d := &a.cfg.Diff
	d.WordWrap = a.editor.WordWrap()
	d.IgnoreTrimWhitespace = a.editor.IgnoreTrimWhitespace()
	d.HideUnchangedRegions = a.editor.HideUnchangedRegions()
	d.Algorithm = string(a.provider.Algorithm())
	if a.editor.Sash().Enabled() {
		d.SplitRatio = a.editor.Sash().Ratio()
	}
	if err := a.cfg.SaveToFile(a.configPath); err != nil {
		return err
	}
	a.SetStatus("Config written to " + a.configPath)
	return nil
}

func (a *App) showMessages() {
	var entries []ui.HelpEntry
	for _, m := range a.log.Newest() {
		entries = append(entries, ui.HelpEntry{Keys: m.Timestamp.Format("15:04:05"), Description: m.Text})
	}
	a.messages = ui.NewHelpScreen()
	a.messages.SetTitle("Messages (q to close)")
	a.messages.AddSection("Messages", entries)
	a.messages.Toggle()
}
