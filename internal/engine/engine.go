package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aquaeye/internal/alert"
	"github.com/aquaeye/internal/config"
	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/metrics"
	"github.com/aquaeye/internal/models"
	"github.com/aquaeye/internal/notify"
	"github.com/aquaeye/internal/simulator"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"
)

const maxConcurrentPonds = 10

// Engine drives the telemetry core: a generation loop synthesizing
// readings, an evaluation loop re-scanning the latest stored readings, and
// a retention loop purging old resolved alerts. The three loops share one
// cancellation context and fail independently per tick.
type Engine struct {
	db         *gorm.DB
	sim        *simulator.Synthesizer
	evaluator  *alert.Evaluator
	alerts     *alert.Manager
	dispatcher *notify.Dispatcher
	cfg        config.Config
	sem        *semaphore.Weighted
	log        zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// Status is the operational snapshot exposed to the API layer.
type Status struct {
	Running            bool          `json:"running"`
	SimulationEnabled  bool          `json:"simulation_enabled"`
	GenerationInterval time.Duration `json:"generation_interval"`
	EvaluationInterval time.Duration `json:"evaluation_interval"`
}

func New(db *gorm.DB, sim *simulator.Synthesizer, evaluator *alert.Evaluator, alerts *alert.Manager, dispatcher *notify.Dispatcher, cfg config.Config) *Engine {
	return &Engine{
		db:         db,
		sim:        sim,
		evaluator:  evaluator,
		alerts:     alerts,
		dispatcher: dispatcher,
		cfg:        cfg,
		sem:        semaphore.NewWeighted(maxConcurrentPonds),
		log:        logger.WithComponent("engine"),
	}
}

// Start launches the periodic loops. Calling Start on a running engine is
// a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running.Load() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.running.Store(true)

	if e.cfg.Engine.SimulationEnabled {
		e.runLoop(ctx, "generation", e.cfg.Engine.GenerationInterval, e.generationTick)
	}
	e.runLoop(ctx, "evaluation", e.cfg.Engine.EvaluationInterval, e.evaluationTick)
	e.runLoop(ctx, "retention", e.cfg.Engine.RetentionInterval, e.retentionTick)

	e.log.Info().
		Bool("simulation", e.cfg.Engine.SimulationEnabled).
		Dur("generation_interval", e.cfg.Engine.GenerationInterval).
		Dur("evaluation_interval", e.cfg.Engine.EvaluationInterval).
		Msg("engine started")
}

// Stop cancels the loops and waits for in-flight store work to finish.
// External channel I/O is detached and not waited on.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running.Load() {
		return
	}

	e.cancel()
	e.wg.Wait()
	e.running.Store(false)
	e.log.Info().Msg("engine stopped")
}

// GetStatus reports whether the engine runs and at which intervals.
func (e *Engine) GetStatus() Status {
	return Status{
		Running:            e.running.Load(),
		SimulationEnabled:  e.cfg.Engine.SimulationEnabled,
		GenerationInterval: e.cfg.Engine.GenerationInterval,
		EvaluationInterval: e.cfg.Engine.EvaluationInterval,
	}
}

// runLoop runs fn every interval until the context is cancelled. A failed
// or panicking tick is logged and the next tick still runs.
func (e *Engine) runLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.tick(ctx, name, fn)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (e *Engine) tick(ctx context.Context, name string, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("job", name).Interface("panic", r).Msg("tick panicked")
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
		e.log.Error().Err(err).Str("job", name).Msg("tick failed")
	}
	metrics.TickDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// generationTick synthesizes one reading per active pond, persists it, then
// runs the inline threshold check on the new reading. Per-pond failures
// are isolated.
func (e *Engine) generationTick(ctx context.Context) error {
	ponds, err := e.activePonds(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := range ponds {
		pond := &ponds[i]

		if err := e.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer e.sem.Release(1)
			e.generateForPond(ctx, pond)
		}()
	}
	wg.Wait()

	return nil
}

func (e *Engine) generateForPond(ctx context.Context, pond *models.Pond) {
	prev, err := e.latestReading(ctx, pond.ID)
	if err != nil {
		e.log.Error().Err(err).Uint("pond_id", pond.ID).Msg("failed to load previous reading")
		return
	}

	reading := e.sim.Generate(pond, prev, time.Now())
	e.persistAndEvaluate(ctx, pond, reading)
}

// persistAndEvaluate writes the reading, broadcasts it, and runs the
// inline threshold check. The reading is durably written before anything
// downstream sees it.
func (e *Engine) persistAndEvaluate(ctx context.Context, pond *models.Pond, reading *models.SensorReading) {
	if err := e.db.WithContext(ctx).Create(reading).Error; err != nil {
		metrics.ReadingsFailed.Inc()
		e.log.Error().Err(err).Uint("pond_id", pond.ID).Msg("failed to persist reading")
		return
	}
	metrics.ReadingsGenerated.Inc()

	e.dispatcher.PublishReading(pond, reading)

	for _, v := range e.evaluator.EvaluateReading(pond, reading, pond.Thresholds) {
		if _, err := e.alerts.RaiseViolation(ctx, pond, v); err != nil {
			e.log.Error().Err(err).
				Uint("pond_id", pond.ID).
				Str("severity", string(v.Severity)).
				Msg("failed to raise alert")
		}
	}
}

// evaluationTick re-scans the latest stored reading of every active pond,
// covering ponds fed by real sensors instead of the synthesizer. Stale
// readings raise a sensor-malfunction alert in place of threshold checks.
func (e *Engine) evaluationTick(ctx context.Context) error {
	ponds, err := e.activePonds(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range ponds {
		pond := &ponds[i]

		latest, err := e.latestReading(ctx, pond.ID)
		if err != nil {
			e.log.Error().Err(err).Uint("pond_id", pond.ID).Msg("failed to load latest reading")
			continue
		}
		if latest == nil {
			continue
		}

		if v := e.evaluator.CheckStaleness(pond, latest, now); v != nil {
			if _, err := e.alerts.RaiseViolation(ctx, pond, *v); err != nil {
				e.log.Error().Err(err).Uint("pond_id", pond.ID).Msg("failed to raise offline alert")
			}
			continue
		}

		for _, v := range e.evaluator.EvaluateReading(pond, latest, pond.Thresholds) {
			if _, err := e.alerts.RaiseViolation(ctx, pond, v); err != nil {
				e.log.Error().Err(err).Uint("pond_id", pond.ID).Msg("failed to raise alert")
			}
		}
	}

	return nil
}

func (e *Engine) retentionTick(ctx context.Context) error {
	_, err := e.alerts.PurgeResolved(ctx)
	return err
}

// InjectScenario generates one forced-condition reading for a pond and
// pushes it through the same persist/broadcast/evaluate path as a normal
// tick.
func (e *Engine) InjectScenario(ctx context.Context, pondID uint, scenario simulator.Scenario) (*models.SensorReading, error) {
	var pond models.Pond
	err := e.db.WithContext(ctx).
		Preload("Thresholds", "is_active = ?", true).
		First(&pond, pondID).Error
	if err != nil {
		return nil, fmt.Errorf("pond %d not found: %w", pondID, err)
	}

	prev, err := e.latestReading(ctx, pond.ID)
	if err != nil {
		return nil, err
	}

	reading := e.sim.GenerateScenario(&pond, prev, time.Now(), scenario)
	e.persistAndEvaluate(ctx, &pond, reading)

	e.log.Info().
		Uint("pond_id", pond.ID).
		Str("scenario", string(scenario)).
		Msg("scenario reading injected")
	return reading, nil
}

func (e *Engine) activePonds(ctx context.Context) ([]models.Pond, error) {
	var ponds []models.Pond
	err := e.db.WithContext(ctx).
		Preload("Thresholds", "is_active = ?", true).
		Where("is_active = ?", true).
		Find(&ponds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active ponds: %w", err)
	}
	return ponds, nil
}

func (e *Engine) latestReading(ctx context.Context, pondID uint) (*models.SensorReading, error) {
	var reading models.SensorReading
	err := e.db.WithContext(ctx).
		Where("pond_id = ?", pondID).
		Order("timestamp desc").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}
