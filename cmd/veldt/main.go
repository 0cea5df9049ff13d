package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/veldtgame/veldt/internal/config"
	"github.com/veldtgame/veldt/internal/intent"
	"github.com/veldtgame/veldt/internal/overlay"
	"github.com/veldtgame/veldt/internal/sim"
	"github.com/veldtgame/veldt/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to the config file (default ~/.config/veldt/config.toml)")
	scenarioFlag := flag.String("scenario", "", "Path to a scenario YAML (default: built-in demo)")
	debugFlag := flag.String("debug", "", "Write a debug log (JSONL) to the specified file path")
	flag.Parse()

	var loadResult *config.LoadResult
	var err error
	if *configFlag != "" {
		loadResult, err = config.LoadFrom(*configFlag)
	} else {
		loadResult, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "veldt: config error: %v\n", err)
		os.Exit(1)
	}
	cfg := loadResult.Config

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "veldt: config warning: %s\n", w)
	}

	logger := zap.NewNop()
	if *debugFlag != "" {
		debugFile, err := os.OpenFile(*debugFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "veldt: failed to open debug log %q: %v\n", *debugFlag, err)
			os.Exit(1)
		}
		defer debugFile.Close()
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(debugFile),
			zap.DebugLevel,
		)
		logger = zap.New(core)
		defer logger.Sync()
	}

	scenarioPath := *scenarioFlag
	if scenarioPath == "" {
		scenarioPath = cfg.Sim.Scenario
	}

	scenario := sim.DefaultScenario()
	if scenarioPath != "" {
		scenario, err = sim.LoadScenario(scenarioPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "veldt: scenario error: %v\n", err)
			os.Exit(1)
		}
	}

	bus := intent.NewBus()

	engine, err := sim.New(scenario, sim.Options{
		AllianceLifeTicks: cfg.Sim.AllianceLifeTicks,
	}, bus, logger.Named("sim"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "veldt: %v\n", err)
		os.Exit(1)
	}

	diplomacy := overlay.NewAllianceOverlay(engine, bus, overlay.AllianceOptions{
		RequestTicks: cfg.Alliance.RequestTicks,
		AcceptTicks:  cfg.Alliance.AcceptTicks,
		RejectTicks:  cfg.Alliance.RejectTicks,
		TargetTicks:  cfg.Alliance.TargetTicks,
		NoticeTicks:  cfg.Alliance.NoticeTicks,
		RosterEvery:  cfg.Alliance.RosterEvery,
		SweepEvery:   cfg.Alliance.SweepEvery,
	}, logger.Named("diplomacy"))

	events := overlay.NewEventsOverlay(engine, bus, overlay.EventsOptions{
		DefaultTicks: cfg.Events.DefaultTicks,
		MaxEvents:    cfg.Events.MaxEvents,
	}, logger.Named("events"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.SetOutput(io.Discard)

	model := tui.NewModel(cfg,
		tui.WithEngine(engine),
		tui.WithDiplomacyProvider(diplomacy),
		tui.WithEventsProvider(events),
		tui.WithIntentDrainer(bus),
		tui.WithOnShutdown(func() {
			_ = logger.Sync()
		}),
	)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
	)

	go func() {
		<-sigCh
		_ = logger.Sync()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "veldt: %v\n", err)
		os.Exit(1)
	}
}
