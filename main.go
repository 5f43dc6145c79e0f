package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/sidediff/internal/app"
	"github.com/pstuifzand/sidediff/internal/config"
	"github.com/pstuifzand/sidediff/internal/history"
	"github.com/pstuifzand/sidediff/internal/logger"
	"github.com/pstuifzand/sidediff/internal/socket"
	"github.com/pstuifzand/sidediff/internal/theme"
	"github.com/pstuifzand/sidediff/internal/ui"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug mode (shows key events in status)")
	configPath := flag.String("config", "", "Use this config file instead of ~/.config/sidediff/config.toml")
	themeName := flag.String("theme", "", "Override the configured theme")
	reloadSide := flag.String("reload", "", "Ask a running instance to reload a side (original or modified)")
	status := flag.Bool("status", false, "Print the diff status of a running instance")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sidediff [options] <original> <modified>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *reloadSide != "" || *status {
		if err := remote(*reloadSide, *status); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *themeName != "" {
		cfg.Theme = *themeName
	}
	if cfg.Log.File == "" {
		if file, err := logger.DefaultFile(); err == nil {
			cfg.Log.File = file
		}
	}

	log, err := logger.New(cfg.Log, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	screen, err := ui.NewScreen(theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := app.Options{
		OriginalPath: args[0],
		ModifiedPath: args[1],
		Config:       cfg,
		ConfigPath:   path,
		Screen:       screen,
		Logger:       log.Logger,
		SocketDir:    socket.DefaultDir(),
	}
	if dir, err := history.DefaultDir(); err == nil {
		opts.HistoryDir = dir
	}

	application, err := app.NewApp(context.Background(), opts)
	if err != nil {
		screen.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		application.SetDebugMode(true)
	}

	if err := application.Run(); err != nil {
		log.Error().Err(err).Msg("runtime error")
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config from path, or from the standard location when
// path is empty. It returns the file :write-config should save to.
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.LoadFromFile(path)
		return cfg, path, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return cfg, "", nil
	}
	return cfg, filepath.Join(dir, "config.toml"), nil
}

// remote talks to the newest running instance
func remote(side string, status bool) error {
	socketPath, pid, err := socket.FindRunningInstance(socket.DefaultDir())
	if err != nil {
		return err
	}

	client, err := socket.NewClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to PID %d: %w", pid, err)
	}

	if side != "" {
		resp, err := client.Reload(side)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("reload failed: %s", resp.Message)
		}
		fmt.Println(resp.Message)
	}

	if status {
		resp, err := client.Status()
		if err != nil {
			return err
		}
		if !resp.Success || resp.Status == nil {
			return fmt.Errorf("status failed: %s", resp.Message)
		}
		s := resp.Status
		state := "up to date"
		if !s.UpToDate {
			state = "computing"
		}
		fmt.Printf("%s <-> %s: %d changes, %d hidden regions (%s)\n",
			s.Original, s.Modified, s.Changes, s.HiddenRegions, state)
	}
	return nil
}
