package controller

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/turtacn/FlightStatus/internal/export"
	"github.com/turtacn/FlightStatus/internal/monitor"
	"github.com/turtacn/FlightStatus/internal/source"
	"github.com/turtacn/FlightStatus/internal/status"
	"github.com/turtacn/FlightStatus/internal/telemetry"
	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/errors"
	"github.com/turtacn/FlightStatus/pkg/logger"
	"github.com/turtacn/FlightStatus/pkg/protocol"
)

// Navigator stands in for the navigation pipeline: it logs and counts
// resets requested by the status store.
type Navigator struct {
	resets atomic.Int64
	log    logger.Logger
}

func NewNavigator(l logger.Logger) *Navigator {
	return &Navigator{log: l.With("component", "navigation")}
}

func (n *Navigator) NavigationReset() {
	n.resets.Add(1)
	monitor.NavigationResets.Inc()
	n.log.Info("Navigation reset")
}

func (n *Navigator) Resets() int64 {
	return n.resets.Load()
}

// Engine runs the fixed-rate control loop that drives the status store:
// one gyro sample per tick, init after warmup, failsafe on sample
// starvation, and periodic metric/export publication.
type Engine struct {
	cfg   *protocol.Config
	store *status.Store
	src   source.Source

	exporter  *export.Exporter
	telemetry *telemetry.Server

	period          time.Duration
	warmup          time.Duration
	failsafeTimeout time.Duration
	publishEvery    time.Duration

	started     time.Time
	lastSample  time.Time
	lastPublish time.Time
	exhausted   bool

	log logger.Logger
}

type Option func(*Engine)

func WithExporter(e *export.Exporter) Option {
	return func(en *Engine) { en.exporter = e }
}

func WithTelemetry(s *telemetry.Server) Option {
	return func(en *Engine) { en.telemetry = s }
}

func WithLogger(l logger.Logger) Option {
	return func(en *Engine) { en.log = l }
}

func NewEngine(cfg *protocol.Config, store *status.Store, src source.Source, opts ...Option) *Engine {
	rate := cfg.Loop.RateHz
	if rate <= 0 {
		rate = consts.DefaultLoopRateHz
	}
	e := &Engine{
		cfg:             cfg,
		store:           store,
		src:             src,
		period:          time.Second / time.Duration(rate),
		warmup:          protocol.Duration(cfg.Loop.WarmupDelay, consts.DefaultWarmupDelay),
		failsafeTimeout: protocol.Duration(cfg.Loop.FailsafeTimeout, consts.DefaultFailsafeTimeout),
		publishEvery:    protocol.Duration(cfg.Export.Interval, consts.DefaultExportInterval),
		log:             logger.Log,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "controller")
	return e
}

// Start runs the loop until SIGINT or SIGTERM.
func (e *Engine) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return e.Run(ctx)
}

// Run drives the loop until ctx is cancelled. The vehicle is disarmed on the
// way out.
func (e *Engine) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	if e.telemetry != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.telemetry.Serve(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	e.log.Info("Control loop starting", "vehicle", e.cfg.Vehicle.Name, "period", e.period, "warmup", e.warmup)

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err := <-errCh:
			runErr = err
			break loop
		case now := <-ticker.C:
			e.tick(now)
		}
	}

	if e.store.Armed() == consts.Armed {
		e.store.SetArmed(consts.Disarmed)
	}
	e.publish()
	e.log.Info("Control loop stopped", "status", e.store.Snapshot())

	wg.Wait()
	return runErr
}

func (e *Engine) tick(now time.Time) {
	if e.started.IsZero() {
		e.started = now
		e.lastSample = now
	}

	if e.store.Init() == consts.InitNotFinished && now.Sub(e.started) >= e.warmup {
		e.store.SetInit(consts.InitFinished)
	}

	e.sample(now)

	starving := now.Sub(e.lastSample) > e.failsafeTimeout
	if starving != e.store.Failsafe() {
		e.store.SetFailsafe(starving)
	}

	if e.lastPublish.IsZero() || now.Sub(e.lastPublish) >= e.publishEvery {
		e.lastPublish = now
		e.publish()
	}
}

func (e *Engine) sample(now time.Time) {
	if e.exhausted {
		monitor.SampleMisses.Inc()
		return
	}

	v, err := e.src.Next()
	if err != nil {
		monitor.SampleMisses.Inc()
		if errors.Is(err, errors.ErrCodeSourceExhausted) {
			e.exhausted = true
			e.log.Warn("Gyro source exhausted", "err", err)
			return
		}
		e.log.Warn("Gyro sample dropped", "err", err)
		return
	}

	e.lastSample = now
	e.store.ObserveGyro(v)
}

func (e *Engine) publish() {
	snap := e.store.Snapshot()
	monitor.ObserveSnapshot(snap)

	if e.exporter == nil {
		return
	}
	if _, err := e.exporter.Export(snap); err != nil {
		e.log.Warn("Status export failed", "err", err)
	}
}

// Personal.AI order the ending
