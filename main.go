package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"codeberg.org/miketth/kbddbar/pkg/bar"
	"codeberg.org/miketth/kbddbar/pkg/config"
	"codeberg.org/miketth/kbddbar/pkg/desktopnotify"
	"codeberg.org/miketth/kbddbar/pkg/kbdd"
	"codeberg.org/miketth/kbddbar/pkg/kbddbus"
	jsonstore "codeberg.org/miketth/kbddbar/pkg/layoutstore/json"
	"codeberg.org/miketth/kbddbar/pkg/layoutstore/memory"
	"codeberg.org/miketth/kbddbar/pkg/layoutstore/sqlite"
	"codeberg.org/miketth/kbddbar/pkg/procscan"
	"codeberg.org/miketth/kbddbar/pkg/xkblayouts"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const segmentName = "kbdd"

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml (default: $XDG_CONFIG_HOME/kbddbar/config.yaml)")
	debug := pflag.Bool("debug", false, "enable debug logging")
	printConfig := pflag.Bool("print-config", false, "print the effective config and exit")
	stats := pflag.Bool("stats", false, "print layout change counts from the journal and exit")
	pflag.Parse()

	log, err := newLogger(*debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath, log)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *printConfig {
		return cfg.Dump(os.Stdout)
	}

	journal, err := openJournal(cfg.Journal, log)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if journal != nil {
		defer journal.Close()
	}

	if *stats {
		return printStats(os.Stdout, journal)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := loadRegistry(cfg, log)

	bus, err := kbddbus.Connect()
	if err != nil {
		log.Warnw("session bus unavailable, layout changes will not be pushed", "error", err)
	} else {
		defer bus.Close()
	}

	checker, err := newLivenessChecker(cfg, bus)
	if err != nil {
		return fmt.Errorf("create liveness checker: %w", err)
	}

	var observers []kbdd.ChangeObserver
	if journal != nil {
		observers = append(observers, journal)
	}
	if cfg.Notify {
		var describer desktopnotify.Describer
		if registry != nil {
			describer = registry
		}
		observers = append(observers, desktopnotify.New(describer))
	}

	segment := bar.NewSegment(segmentName)
	indicator, err := kbdd.NewIndicator(ctx, kbdd.Config{
		Layouts:    cfg.ConfiguredKeyboards,
		Colours:    cfg.Colours,
		DetectExit: cfg.DetectExit,
	}, checker, segment, log, observers...)
	if err != nil {
		return fmt.Errorf("create indicator: %w", err)
	}

	runner := bar.NewRunner(indicator, segment, newWriter(cfg, os.Stdout), cfg.UpdateInterval, log)

	log.Infow("started kbddbar", "layouts", cfg.ConfiguredKeyboards, "output", cfg.Output, "liveness", cfg.Liveness)

	errChan := make(chan error, 4)
	var wg sync.WaitGroup

	spawn := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				errChan <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	spawn("render", runner.Run)
	spawn("systemd notify", func(ctx context.Context) error {
		return systemdNotifyLoop(ctx, indicator)
	})
	if bus != nil {
		spawn("process signals", func(ctx context.Context) error {
			return indicator.ProcessSignals(ctx, bus)
		})
	}
	if store, ok := journal.(*jsonstore.LayoutStore); ok {
		spawn("save journal", store.SaveLooper)
	}

	// reading stdin cannot be interrupted, so this one is not waited for
	if cfg.Output == config.OutputI3bar && cfg.ClickEvents && bus != nil {
		go func() {
			err := bar.ReadClicks(ctx, os.Stdin, clickHandler(ctx, bus, log))
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warnw("stopped reading click events", "error", err)
			}
		}()
	}

	err = <-errChan
	stop()
	wg.Wait()

	switch {
	case errors.Is(err, context.Canceled):
		log.Info("shutting down")
		return nil
	case err != nil:
		return err
	}

	return nil
}

func newLivenessChecker(cfg config.Config, bus *kbddbus.Client) (kbdd.LivenessChecker, error) {
	switch cfg.Liveness {
	case config.LivenessDBus:
		if bus == nil {
			return nil, errors.New("dbus liveness needs a session bus")
		}
		return bus, nil
	default:
		return procscan.New(cfg.PsPath, cfg.ProcessName)
	}
}

func newWriter(cfg config.Config, w io.Writer) bar.Writer {
	switch cfg.Output {
	case config.OutputText:
		return bar.NewText(w)
	case config.OutputPolybar:
		return bar.NewPolybar(w)
	default:
		return bar.NewI3Bar(w, cfg.ClickEvents)
	}
}

func openJournal(cfg config.JournalConfig, log *zap.SugaredLogger) (kbdd.Journal, error) {
	switch cfg.Backend {
	case config.JournalNone:
		return nil, nil
	case config.JournalMemory:
		return memory.NewLayoutStore(), nil
	}

	err := os.MkdirAll(filepath.Dir(cfg.Path), 0755)
	if err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	switch cfg.Backend {
	case config.JournalJSON:
		return jsonstore.NewLayoutStore(cfg.Path)
	case config.JournalSQLite:
		return sqlite.NewLayoutStore(cfg.Path, log)
	}

	return nil, fmt.Errorf("unknown journal backend %q", cfg.Backend)
}

func printStats(w io.Writer, journal kbdd.Journal) error {
	if journal == nil {
		return errors.New("journal is disabled")
	}

	counts, err := journal.LayoutCounts()
	if err != nil {
		return fmt.Errorf("read layout counts: %w", err)
	}

	layouts := make([]string, 0, len(counts))
	for layout := range counts {
		layouts = append(layouts, layout)
	}
	sort.Strings(layouts)

	for _, layout := range layouts {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", layout, counts[layout]); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}

	return nil
}

func loadRegistry(cfg config.Config, log *zap.SugaredLogger) *xkblayouts.XkbConfigRegistry {
	registry, err := xkblayouts.ParseLayouts(cfg.EvdevXMLPath)
	if err != nil {
		log.Debugw("layout registry unavailable, not validating layout codes", "path", cfg.EvdevXMLPath, "error", err)
		return nil
	}

	if unknown := registry.UnknownLayouts(cfg.ConfiguredKeyboards); len(unknown) > 0 {
		log.Warnw("configured layouts are not known to xkb", "layouts", unknown)
	}

	return registry
}

func clickHandler(ctx context.Context, bus *kbddbus.Client, log *zap.SugaredLogger) func(bar.ClickEvent) {
	return func(ev bar.ClickEvent) {
		if ev.Name != segmentName {
			return
		}

		var err error
		switch ev.Button {
		case bar.ButtonLeft:
			err = bus.NextLayout(ctx)
		case bar.ButtonRight:
			err = bus.PrevLayout(ctx)
		default:
			return
		}

		if err != nil {
			log.Warnw("switch layout", "button", ev.Button, "error", err)
		}
	}
}

func systemdNotifyLoop(ctx context.Context, indicator *kbdd.Indicator) error {
	// tell systemd that we're ready
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	status := func() {
		_, _ = daemon.SdNotify(false, "STATUS=Layout: "+indicator.State().Label)
	}
	status()

	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}

	// without a watchdog only the status line needs refreshing
	interval := t / 2
	if t == 0 {
		interval = 10 * time.Second
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(interval):
			status()
			if t == 0 {
				continue
			}

			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	// stdout belongs to the bar
	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}
