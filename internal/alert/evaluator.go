package alert

import (
	"fmt"
	"time"

	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/models"
	"github.com/rs/zerolog"
)

// Band is the effective acceptable range for one parameter: a normal band
// inside a wider critical band. Values outside the normal band score HIGH,
// values outside the critical band score CRITICAL.
type Band struct {
	MinValue    float64
	MaxValue    float64
	CriticalMin float64
	CriticalMax float64
}

// Violation is one out-of-range finding for a reading. Parameter is nil
// for staleness (sensor malfunction) findings.
type Violation struct {
	Type      models.AlertType
	Severity  models.AlertSeverity
	Parameter *models.Parameter
	Value     *float64
	Threshold *float64
	Message   string
}

// Evaluator classifies readings against per-pond thresholds, falling back
// to profile defaults when a pond carries no active override.
type Evaluator struct {
	stalenessBound time.Duration
	log            zerolog.Logger
}

func NewEvaluator(stalenessBound time.Duration) *Evaluator {
	return &Evaluator{
		stalenessBound: stalenessBound,
		log:            logger.WithComponent("evaluator"),
	}
}

// EvaluateReading checks every reported parameter of the reading against
// its effective band. Parameters the sensor did not report are skipped.
func (e *Evaluator) EvaluateReading(pond *models.Pond, reading *models.SensorReading, thresholds []models.Threshold) []Violation {
	var violations []Violation

	for _, param := range models.AllParameters {
		value := reading.Value(param)
		if value == nil {
			continue
		}

		band, ok := e.EffectiveBand(pond, param, thresholds)
		if !ok {
			continue
		}

		if v := classify(pond, param, *value, band); v != nil {
			violations = append(violations, *v)
		}
	}

	return violations
}

// CheckStaleness reports a sensor-malfunction violation when the pond's
// latest reading is older than the staleness bound.
func (e *Evaluator) CheckStaleness(pond *models.Pond, latest *models.SensorReading, now time.Time) *Violation {
	age := now.Sub(latest.Timestamp)
	if age <= e.stalenessBound {
		return nil
	}

	return &Violation{
		Type:     models.AlertSensorMalfunction,
		Severity: models.SeverityHigh,
		Message: fmt.Sprintf("No recent sensor data for %s. Last reading was %d minutes ago.",
			pond.Name, int(age.Minutes())),
	}
}

// EffectiveBand returns the band to evaluate against: the pond's active
// override for the parameter if one exists, else the profile default.
func (e *Evaluator) EffectiveBand(pond *models.Pond, param models.Parameter, thresholds []models.Threshold) (Band, bool) {
	for _, t := range thresholds {
		if t.Parameter == param && t.IsActive {
			return Band{
				MinValue:    t.MinValue,
				MaxValue:    t.MaxValue,
				CriticalMin: t.CriticalMin,
				CriticalMax: t.CriticalMax,
			}, true
		}
	}

	profile, ok := defaultThresholds[pond.Type]
	if !ok {
		profile = defaultThresholds[models.WaterFreshwater]
	}
	band, ok := profile[param]
	return band, ok
}

func classify(pond *models.Pond, param models.Parameter, value float64, band Band) *Violation {
	name := param.DisplayName()

	// Critical bounds first; a value past them is never just a warning.
	switch {
	case value < band.CriticalMin:
		return violation(param, value, band.CriticalMin, models.SeverityCritical,
			fmt.Sprintf("CRITICAL: %s in %s is critically low (%.2f < %.2f)", name, pond.Name, value, band.CriticalMin))
	case value > band.CriticalMax:
		return violation(param, value, band.CriticalMax, models.SeverityCritical,
			fmt.Sprintf("CRITICAL: %s in %s is critically high (%.2f > %.2f)", name, pond.Name, value, band.CriticalMax))
	case value < band.MinValue:
		return violation(param, value, band.MinValue, models.SeverityHigh,
			fmt.Sprintf("WARNING: %s in %s is below safe threshold (%.2f < %.2f)", name, pond.Name, value, band.MinValue))
	case value > band.MaxValue:
		return violation(param, value, band.MaxValue, models.SeverityHigh,
			fmt.Sprintf("WARNING: %s in %s is above safe threshold (%.2f > %.2f)", name, pond.Name, value, band.MaxValue))
	}

	return nil
}

func violation(param models.Parameter, value, threshold float64, severity models.AlertSeverity, message string) *Violation {
	p := param
	v := value
	t := threshold
	return &Violation{
		Type:      models.AlertThresholdExceeded,
		Severity:  severity,
		Parameter: &p,
		Value:     &v,
		Threshold: &t,
		Message:   message,
	}
}
