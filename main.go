package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"fastexplorer/internal/config"
	"fastexplorer/internal/eventbus"
	"fastexplorer/internal/explorer"
	"fastexplorer/internal/logging"
	"fastexplorer/internal/search"
	"fastexplorer/internal/ui"
)

// uiEvents are forwarded from the bus to the Bubble Tea program
var uiEvents = []eventbus.EventType{
	eventbus.EventSearchStarted,
	eventbus.EventSearchProgress,
	eventbus.EventSearchResultsUpdated,
	eventbus.EventSearchCompleted,
	eventbus.EventSearchTimeout,
	eventbus.EventDirectoryLoaded,
	eventbus.EventError,
}

func main() {
	var (
		targetDir  string
		configPath string
		debug      bool
	)
	flag.StringVar(&targetDir, "dir", "", "Directory to open")
	flag.StringVar(&targetDir, "d", "", "Directory to open (shorthand)")
	flag.StringVar(&configPath, "config", "", "Path to the configuration file")
	flag.BoolVar(&debug, "debug", false, "Write a debug log to the working directory")
	flag.Parse()

	if targetDir == "" && flag.NArg() > 0 {
		targetDir = flag.Arg(0)
	}

	bus := eventbus.New()

	configSvc := config.NewConfigServiceWithBus(bus, configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logging.Init(logConfig(cfg.Log, debug))
	defer logging.Shutdown()
	log := logging.Logger()

	if targetDir == "" {
		if wd, err := os.Getwd(); err == nil {
			targetDir = wd
		} else {
			targetDir = cfg.StartDir
		}
	}
	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving path: %v\n", err)
		os.Exit(1)
	}

	browser := explorer.New(bus, explorer.OptionsFromConfig(cfg, configSvc))
	if err := browser.NavigateTo(absDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", absDir, err)
		os.Exit(1)
	}

	opts := search.OptionsFromConfig(cfg.Search)
	opts.Prompt = search.BusPrompt(bus)
	controller := search.NewController(opts)
	controller.AddObserver(search.NewBusObserver(bus))

	uiModel := ui.NewModel(bus, cfg, configSvc, browser, controller)
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	for _, t := range uiEvents {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			if e.Type() == eventbus.EventSearchCompleted || e.Type() == eventbus.EventSearchTimeout {
				// must not be lost; the forwarder drains the channel
				eventChan <- e
				return
			}
			select {
			case eventChan <- e:
			default:
				log.Debug("event_channel_full", slog.String("event", string(e.Type())))
			}
		})
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range eventChan {
			p.Send(ui.EventMsg{Event: e})
		}
	}()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Quit()
	}()

	log.Info("ui_started", slog.String("dir", absDir))
	_, runErr := p.Run()

	// Cleanup: stop the run first so a pending timeout question is released
	controller.Stop()
	browser.Close()
	bus.Close()
	close(eventChan)
	<-done

	if runErr != nil {
		log.Error("ui_failed", slog.String("error", runErr.Error()))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", runErr)
		os.Exit(1)
	}
	log.Info("ui_exited")
}

func logConfig(s config.LogSettings, debug bool) logging.Config {
	level := s.Level
	if debug {
		level = "debug"
	}
	return logging.Config{
		Dir:        s.Dir,
		Level:      level,
		Format:     s.Format,
		MaxSizeMB:  s.MaxSizeMB,
		MaxBackups: s.MaxBackups,
		MaxAgeDays: s.MaxAgeDays,
		Compress:   s.Compress,
		Debug:      debug,
	}
}
