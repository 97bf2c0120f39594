// Command pongsim plays the reflex pong game in a terminal.
//
// Press 1 or 2 then Enter to press a player's button, q to quit. With -bot,
// player 2's button is pressed automatically at the given interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/reflexpong"
	"github.com/comalice/reflexpong/dispatch"
	"github.com/comalice/reflexpong/display"
	"github.com/comalice/reflexpong/internal/config"
	"github.com/comalice/reflexpong/internal/input"
	"github.com/comalice/reflexpong/internal/logging"
	"github.com/comalice/reflexpong/internal/production"
	"github.com/comalice/reflexpong/internal/simhw"
	"github.com/comalice/reflexpong/internal/telemetry"
	"github.com/comalice/reflexpong/ledrow"
	"github.com/comalice/reflexpong/music"
	"github.com/comalice/reflexpong/realtime"
)

const (
	displayCells   = 4
	redrawInterval = 50 * time.Millisecond
	snapshotName   = "pongsim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "pongsim:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.ParseConfig(flag.NewFlagSet("pongsim", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	if cfg.DOT {
		_, err := fmt.Fprint(out, reflexpong.ExportDOT(reflexpong.Start))
		return err
	}

	logger, err := logging.New(errOut, cfg.LogLevel)
	if err != nil {
		return err
	}

	tp, shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "pongsim",
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lib, err := loadLibrary(cfg.Tunes)
	if err != nil {
		return err
	}
	console := simhw.NewConsole(out, displayCells, reflexpong.LEDCount, lib)
	panel := display.NewPanel(console.Segments())
	stepper := music.NewStepper(lib, console.Buzzer())
	stepper.SetLogger(logger)
	blink := display.NewBlinker(panel)
	blink.SetLogger(logger)

	timer := realtime.NewTimer(cfg.TimerUnit)
	timer.SetLogger(logger)
	disp := dispatch.New(timer, map[dispatch.Slot]dispatch.Binding{
		dispatch.Tune:  {Renderer: stepper, Period: dispatch.TunePeriod},
		dispatch.Blink: {Renderer: blink, Period: dispatch.BlinkPeriod},
	})
	disp.SetLogger(logger)

	tracer := telemetry.NewTransitionTracer(ctx, tp)
	transitions := make(chan production.TransitionEvent, 16)
	publisher := production.NewChannelPublisher(transitions)

	latch := &reflexpong.Latch{}
	engine, err := reflexpong.New(reflexpong.Hardware{
		Display: panel,
		LEDs:    ledrow.New(console.Pins()),
		Music:   stepper,
		Blink:   blink,
		Timer:   disp,
		Buttons: latch,
	},
		reflexpong.WithLogger(logger),
		reflexpong.WithObserver(tracer),
		reflexpong.WithObserver(publisher),
	)
	if err != nil {
		return err
	}
	if err := engine.Init(); err != nil {
		return err
	}

	rt := realtime.NewRuntime(engine, latch, timer, disp, realtime.Config{
		LoopInterval: cfg.LoopInterval,
		TicksPerWake: cfg.TicksPerWake,
	})
	rt.SetLogger(logger)

	var history *production.HistoryStore
	if cfg.History != "" {
		if history, err = production.OpenHistory(cfg.History); err != nil {
			return err
		}
		defer history.Close()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range transitions {
			logger.Debug("state changed", "from", ev.From, "to", ev.To,
				"p1", ev.Controllers.P1Score, "p2", ev.Controllers.P2Score)
			if history == nil {
				continue
			}
			if res, ok := production.ResultFromTransition(ev); ok {
				if _, err := history.RecordResult(context.Background(), res); err != nil {
					logger.Warn("record result", "error", err)
				} else {
					logger.Info("game over", "winner", res.Winner, "p1", res.P1Score, "p2", res.P2Score)
				}
			}
		}
	}()
	drawn := make(chan struct{})
	go func() {
		defer close(drawn)
		if err := console.Run(ctx, redrawInterval); err != nil {
			logger.Warn("console", "error", err)
		}
	}()
	keys := input.NewKeySource(ctx, in)
	go func() {
		defer cancel()
		_ = input.Forward(ctx, keys, rt, logger)
	}()
	if cfg.Bot > 0 {
		bot := input.NewTickerSource(reflexpong.Player2, cfg.Bot)
		defer bot.Stop()
		go func() { _ = input.Forward(ctx, bot, rt, logger) }()
	}

	if err := rt.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	rt.Stop()
	<-drawn
	fmt.Fprintln(out)

	snap := rt.Snapshot()
	tracer.Close(snap.Controllers)
	_ = publisher.Close()
	<-done
	if n := publisher.Dropped(); n > 0 {
		logger.Debug("transition events dropped", "count", n)
	}

	if cfg.Dump != "" {
		return dump(cfg.Dump, cfg.DumpFormat, snap, logger)
	}
	return nil
}

// loadLibrary reads the tune library from path, or returns the built-in one
// when path is empty.
func loadLibrary(path string) (*music.Library, error) {
	if path == "" {
		return music.DefaultLibrary()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tunes: %w", err)
	}
	defer f.Close()
	lib, err := music.LoadLibrary(f)
	if err != nil {
		return nil, fmt.Errorf("tunes %s: %w", path, err)
	}
	return lib, nil
}

func dump(dir, format string, snap reflexpong.Snapshot, logger *slog.Logger) error {
	p, err := production.NewPersister(format, dir)
	if err != nil {
		return err
	}
	rec := production.Record{Name: snapshotName, Timestamp: time.Now(), Snapshot: snap}
	if err := p.Save(context.Background(), rec); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", p.Path(snapshotName))
	return nil
}
