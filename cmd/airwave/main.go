package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/airwave/internal/config"
	"github.com/mmcdole/airwave/internal/curation"
	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/log"
	"github.com/mmcdole/airwave/internal/player"
	"github.com/mmcdole/airwave/internal/radiobrowser"
	"github.com/mmcdole/airwave/internal/storage"
	"github.com/mmcdole/airwave/internal/tui"
	"github.com/mmcdole/airwave/internal/userdata"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("airwave %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("airwave is an interactive application and needs a terminal")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting airwave", "version", Version)

	store, err := storage.Open(cfg.Data.Dir)
	if err != nil {
		logger.Warn("persistent storage unavailable, running in memory", "error", err)
		store, _ = storage.Open("")
	}
	defer store.Close()

	client := radiobrowser.NewClient(cfg.API, logger)
	if err := client.ProbeMirrors(context.Background()); err != nil {
		if errors.Is(err, domain.ErrMirrorsUnreachable) {
			logger.Warn("no directory mirror reachable, using default", "mirror", client.BaseURL())
		}
	}

	curator := curation.NewService(client, logger)

	user := userdata.NewStore(store, client, logger)
	user.Load()

	output := player.NewMPVOutput(logger)
	defer output.Close()

	playerCtrl := player.NewController(output, user, store, logger)
	output.OnEvent(playerCtrl.HandleOutputEvent)
	playerCtrl.RestoreVolume(cfg.Player.Volume)

	model := tui.NewModel(curator, client, user, playerCtrl, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Push service-side changes into the event loop.
	playerCtrl.Subscribe(func() {
		p.Send(tui.PlayerUpdatedMsg{})
	})
	user.Subscribe(func(e userdata.Event) {
		p.Send(tui.UserDataChangedMsg{Kind: e.Kind})
	})

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
