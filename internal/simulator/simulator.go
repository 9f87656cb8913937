package simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/models"
	"github.com/rs/zerolog"
)

const (
	// continuityPull is how far a new value is drawn toward the previous
	// reading before noise is added.
	continuityPull = 0.3

	// faultChance is the probability that one generated reading loses a
	// randomly chosen parameter, simulating a sensor fault.
	faultChance = 0.001

	nightStartHour = 20
	nightEndHour   = 6
)

// Synthesizer produces plausible sensor readings for ponds without physical
// sensors. It is stateless between calls; continuity comes from the
// previous persisted reading passed in by the caller.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
	log zerolog.Logger
}

// New returns a Synthesizer using the given random source. A nil rng gets
// a time-seeded one.
func New(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{
		rng: rng,
		log: logger.WithComponent("simulator"),
	}
}

// Generate produces one reading for the pond at the given time. prev may be
// nil when the pond has no history.
func (s *Synthesizer) Generate(pond *models.Pond, prev *models.SensorReading, now time.Time) *models.SensorReading {
	// Readings for different ponds are generated concurrently but share
	// one random source.
	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := baselines[pond.Type]
	if !ok {
		base = baselines[models.WaterFreshwater]
	}
	night := isNight(now)

	reading := &models.SensorReading{
		PondID:    pond.ID,
		Timestamp: now,
	}

	for _, param := range models.AllParameters {
		value := base[param]

		// Time-of-day adjustment, or a probabilistic spike for the
		// parameters that jump instead of cycling.
		if d, ok := diurnalOffsets[param]; ok {
			if night {
				value += d.Night
			} else {
				value += d.Day
			}
		} else if sp, ok := spikes[param]; ok {
			if s.rng.Float64() < sp.Chance {
				value += sp.Size
			}
		}

		// Pull toward the previous reading so consecutive values trend
		// rather than jump.
		if prev != nil {
			if pv := prev.Value(param); pv != nil {
				value += (*pv - value) * continuityPull
			}
		}

		// Multiplicative noise inside the parameter's variation band.
		variation := value * variationPercent[param] * (s.rng.Float64() - 0.5) * 2
		value += variation

		value = clamp(param, value)
		reading.SetValue(param, round2(value))
	}

	if s.rng.Float64() < faultChance {
		faulty := models.AllParameters[s.rng.Intn(len(models.AllParameters))]
		reading.SetValue(faulty, nil)
		s.log.Debug().
			Uint("pond_id", pond.ID).
			Str("parameter", string(faulty)).
			Msg("simulated sensor fault")
	}

	return reading
}

// Scenario names a forced condition for test/demo readings.
type Scenario string

const (
	ScenarioHighTemperature Scenario = "high_temperature"
	ScenarioLowOxygen       Scenario = "low_oxygen"
	ScenarioPHSpike         Scenario = "ph_spike"
	ScenarioSensorFailure   Scenario = "sensor_failure"
)

// GenerateScenario produces a reading with one condition forced out of its
// usual range, for exercising the alerting path on demand.
func (s *Synthesizer) GenerateScenario(pond *models.Pond, prev *models.SensorReading, now time.Time, scenario Scenario) *models.SensorReading {
	reading := s.Generate(pond, prev, now)

	switch scenario {
	case ScenarioHighTemperature:
		reading.Temperature = ptr(25.0)
	case ScenarioLowOxygen:
		reading.Oxygen = ptr(4.0)
	case ScenarioPHSpike:
		reading.PH = ptr(9.2)
	case ScenarioSensorFailure:
		reading.Temperature = nil
		reading.PH = nil
	}

	return reading
}

func isNight(t time.Time) bool {
	hour := t.Hour()
	return hour >= nightStartHour || hour <= nightEndHour
}

func round2(v float64) *float64 {
	r := math.Round(v*100) / 100
	return &r
}

func ptr(v float64) *float64 {
	return &v
}
