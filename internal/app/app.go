package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/pstuifzand/sidediff/internal/config"
	"github.com/pstuifzand/sidediff/internal/diff"
	"github.com/pstuifzand/sidediff/internal/diffmodel"
	"github.com/pstuifzand/sidediff/internal/editor"
	"github.com/pstuifzand/sidediff/internal/history"
	"github.com/pstuifzand/sidediff/internal/model"
	"github.com/pstuifzand/sidediff/internal/socket"
	"github.com/pstuifzand/sidediff/internal/storage"
	"github.com/pstuifzand/sidediff/internal/ui"
)

const (
	statusTimeout = 5 * time.Second
	tickInterval  = time.Second
)

// Options configures a new App
type Options struct {
	OriginalPath string
	ModifiedPath string
	Config       *config.Config
	// ConfigPath is where :write-config saves; empty disables saving.
	ConfigPath string
	Screen     *ui.Screen
	Logger     zerolog.Logger
	// HistoryDir stores command history; empty keeps it in memory.
	HistoryDir string
	// SocketDir enables the control socket when set.
	SocketDir string
	// ModelOptions are passed to every diff model, after the defaults.
	ModelOptions []diffmodel.Option
}

// App is the main application controller
type App struct {
	screen *ui.Screen
	cfg    *config.Config
	logger zerolog.Logger

	configPath string
	original   *storage.TextStore
	modified   *storage.TextStore
	provider   *diff.LinesProvider
	editor     *editor.Editor
	view       *ui.SideBySideView
	unified    *ui.UnifiedView
	help       *ui.HelpScreen
	messages   *ui.HelpScreen
	command    *ui.CommandMode
	log        *ui.MessageLogger
	keys       []KeyBinding
	server     *socket.Server

	// posted carries work from diff goroutines back to the event loop
	posted chan func()
	// done is closed by Close; posts after it are dropped
	done      chan struct{}
	closeOnce sync.Once

	statusMsg  string
	statusTime time.Time
	quit       bool
	debugMode  bool
}

// NewApp loads both files and builds the editor
func NewApp(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	originalDoc, modifiedDoc, err := storage.LoadPair(ctx, opts.OriginalPath, opts.ModifiedPath)
	if err != nil {
		return nil, err
	}

	algorithm, ok := diff.ParseAlgorithm(cfg.Diff.Algorithm)
	if !ok {
		return nil, fmt.Errorf("%w: unknown algorithm %q", config.ErrInvalid, cfg.Diff.Algorithm)
	}

	a := &App{
		screen:     opts.Screen,
		cfg:        cfg,
		logger:     opts.Logger.With().Str("component", "app").Logger(),
		configPath: opts.ConfigPath,
		original:   storage.NewTextStore(opts.OriginalPath),
		modified:   storage.NewTextStore(opts.ModifiedPath),
		provider:   diff.NewLinesProvider(algorithm),
		unified:    ui.NewUnifiedView(),
		help:       ui.NewHelpScreen(),
		messages:   ui.NewHelpScreen(),
		log:        ui.NewMessageLogger(100),
		posted:     make(chan func(), 16),
		done:       make(chan struct{}),
		statusMsg:  "Computing diff...",
		statusTime: time.Now(),
	}

	modelOpts := append([]diffmodel.Option{
		diffmodel.WithDebounce(cfg.Diff.Debounce()),
		diffmodel.WithExecutor(a.post),
		diffmodel.WithErrorHandler(a.diffFailed),
	}, opts.ModelOptions...)
	a.editor = editor.New(originalDoc, modifiedDoc, a.provider, editorOptions(cfg), opts.Logger, modelOpts...)
	a.view = ui.NewSideBySideView(a.editor)

	a.keys = a.InitializeKeybindings()
	a.command = ui.NewCommandMode(a.loadHistory(opts.HistoryDir), commandNames())
	a.initHelp()

	if opts.SocketDir != "" {
		server, err := socket.NewServer(opts.SocketDir, os.Getpid(), opts.Logger)
		if err != nil {
			// The viewer works without remote control
			a.logger.Warn().Err(err).Msg("control socket disabled")
		} else {
			a.server = server
			server.Start()
		}
	}

	a.logger.Info().
		Str("original", opts.OriginalPath).
		Str("modified", opts.ModifiedPath).
		Str("algorithm", string(algorithm)).
		Msg("diff view opened")
	return a, nil
}

func editorOptions(cfg *config.Config) editor.Options {
	return editor.Options{
		IgnoreTrimWhitespace: cfg.Diff.IgnoreTrimWhitespace,
		MaxComputationTime:   cfg.Diff.MaxComputationTime(),
		WordWrap:             cfg.Diff.WordWrap,
		SplitRatio:           cfg.Diff.SplitRatio,
		EnableSplitResizing:  cfg.Diff.EnableSplitResizing,
		HideUnchangedRegions: cfg.Diff.HideUnchangedRegions,
	}
}

func (a *App) loadHistory(dir string) *ui.History {
	if dir == "" {
		return ui.NewHistory(history.MaxEntries)
	}
	manager, err := history.NewManager(dir)
	if err != nil {
		a.logger.Warn().Err(err).Msg("command history not persisted")
		return ui.NewHistory(history.MaxEntries)
	}
	h, err := ui.NewPersistentHistory(history.MaxEntries, manager, "commands.toml")
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to load command history")
	}
	return h
}

// post queues fn to run on the event loop. It is safe to call from any
// goroutine. Once the app is closed fn is dropped.
func (a *App) post(fn func()) {
	select {
	case a.posted <- fn:
	case <-a.done:
	}
}

func (a *App) diffFailed(err error) {
	a.logger.Error().Err(err).Msg("diff computation failed")
	a.SetStatus("Diff failed: " + err.Error())
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	var socketMessages <-chan socket.Message
	if a.server != nil {
		socketMessages = a.server.Messages()
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	a.render()
	for !a.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.HandleEvent(ev)
		case fn := <-a.posted:
			fn()
		case msg := <-socketMessages:
			a.handleSocketMessage(msg)
		case <-ticker.C:
		}
		a.render()
	}
	return nil
}

// Close releases the editor, the socket and the screen. It is safe to call
// more than once.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.done)
		if a.server != nil {
			a.server.Stop()
			a.server = nil
		}
		a.editor.Dispose()
		if a.screen != nil {
			err = a.screen.Close()
		}
	})
	return err
}

// Editor returns the diff editor
func (a *App) Editor() *editor.Editor {
	return a.editor
}

// render renders the current state to the screen
func (a *App) render() {
	width, height := a.screen.Size()
	a.screen.Clear()

	// header + panes, then status line, then command line
	bodyHeight := max(height-2, 0)
	a.editor.Layout(width, max(bodyHeight-1, 0))
	a.view.Render(a.screen, 0, bodyHeight)

	a.renderStatus(height-2, width)
	if a.command.IsActive() {
		a.command.Render(a.screen, height-1)
	}

	a.unified.Render(a.screen)
	a.help.Render(a.screen)
	a.messages.Render(a.screen)
	a.screen.Show()
}

func (a *App) renderStatus(y, width int) {
	if y < 0 {
		return
	}
	a.screen.Fill(0, y, width, ' ', a.screen.StatusMessageStyle())

	x := 0
	if a.editor.IsDiffUpToDate() {
		x = a.screen.DrawString(x, y, " "+a.changeSummary()+" ", a.screen.StatusModeStyle())
	} else {
		x = a.screen.DrawString(x, y, " COMPUTING ", a.screen.StatusStaleStyle())
	}

	msg := a.statusMsg
	if time.Since(a.statusTime) > statusTimeout {
		msg = ""
	}
	flags := a.flagSummary()
	a.screen.DrawStringLimited(x+1, y, msg, width-x-len(flags)-2, a.screen.StatusMessageStyle())
	a.screen.DrawString(max(width-len(flags)-1, x), y, flags, a.screen.StatusModeStyle())
}

func (a *App) changeSummary() string {
	d := a.editor.Diff()
	switch {
	case d == nil:
		return "NO DIFF"
	case d.Identical:
		return "IDENTICAL"
	case len(d.Changes) == 1:
		return "1 CHANGE"
	default:
		return fmt.Sprintf("%d CHANGES", len(d.Changes))
	}
}

func (a *App) flagSummary() string {
	on := func(b bool, s string) string {
		if b {
			return s
		}
		return "-"
	}
	return fmt.Sprintf("[%s%s%s] %s",
		on(a.editor.WordWrap(), "w"),
		on(a.editor.IgnoreTrimWhitespace(), "i"),
		on(a.editor.HideUnchangedRegions(), "z"),
		a.provider.Algorithm())
}

// HandleEvent dispatches one terminal event
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch {
	case a.command.IsActive():
		if cmd, done := a.command.HandleKey(ev); done {
			a.handleCommand(cmd)
		}
	case a.unified.IsVisible():
		a.unified.HandleKeyEvent(ev)
	case a.help.IsVisible() || a.messages.IsVisible():
		if ev.Key() == tcell.KeyEscape || ev.Rune() == '?' || ev.Rune() == 'q' {
			a.help.Hide()
			a.messages.Hide()
		}
	default:
		a.handleKeypress(ev)
	}
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
	a.log.Add(msg)
}

// Status returns the current status message
func (a *App) Status() string {
	return a.statusMsg
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

// SetDebugMode enables or disables debug mode
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
}

// reload re-reads one or both files from disk
func (a *App) reload(side string) error {
	var stores []*storage.TextStore
	var docs []*model.Document
	switch side {
	case socket.SideOriginal:
		stores, docs = append(stores, a.original), append(docs, a.editor.Original().Document())
	case socket.SideModified:
		stores, docs = append(stores, a.modified), append(docs, a.editor.Modified().Document())
	case "":
		stores = []*storage.TextStore{a.original, a.modified}
		docs = []*model.Document{a.editor.Original().Document(), a.editor.Modified().Document()}
	default:
		return fmt.Errorf("unknown side %q", side)
	}

	changed := 0
	for i, store := range stores {
		ok, err := store.Reload(docs[i])
		if err != nil {
			return err
		}
		if ok {
			changed++
		}
	}
	a.logger.Info().Str("side", side).Int("changed", changed).Msg("reloaded")
	if changed == 0 {
		a.SetStatus("Files unchanged")
	} else {
		a.SetStatus("Reloaded")
	}
	return nil
}

func (a *App) initHelp() {
	var entries []ui.HelpEntry
	for _, kb := range a.keys {
		entries = append(entries, ui.HelpEntry{Keys: kb.Label(), Description: kb.Description})
	}
	a.help.AddSection("Keys", entries)

	var cmds []ui.HelpEntry
	for _, c := range commands {
		cmds = append(cmds, ui.HelpEntry{Keys: ":" + c.usage, Description: c.description})
	}
	a.help.AddSection("Commands", cmds)
}
