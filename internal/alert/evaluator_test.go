package alert

import (
	"testing"
	"time"

	"github.com/aquaeye/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPond(waterType models.WaterType) *models.Pond {
	pond := &models.Pond{
		Name:     "North Basin",
		Type:     waterType,
		FarmID:   1,
		IsActive: true,
	}
	pond.ID = 1
	return pond
}

func phThresholds() []models.Threshold {
	return []models.Threshold{
		{
			PondID:      1,
			Parameter:   models.ParamPH,
			MinValue:    6.5,
			MaxValue:    8.5,
			CriticalMin: 6.0,
			CriticalMax: 9.0,
			IsActive:    true,
		},
	}
}

func readingWithPH(value float64) *models.SensorReading {
	return &models.SensorReading{
		PondID:    1,
		Timestamp: time.Now(),
		PH:        &value,
	}
}

func TestClassifyCriticalAboveCriticalBound(t *testing.T) {
	e := NewEvaluator(time.Hour)
	pond := testPond(models.WaterFreshwater)

	violations := e.EvaluateReading(pond, readingWithPH(9.4), phThresholds())

	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, models.SeverityCritical, v.Severity)
	assert.Equal(t, models.AlertThresholdExceeded, v.Type)
	require.NotNil(t, v.Parameter)
	assert.Equal(t, models.ParamPH, *v.Parameter)
	require.NotNil(t, v.Threshold)
	assert.Equal(t, 9.0, *v.Threshold)
}

func TestClassifyHighOutsideNormalBand(t *testing.T) {
	e := NewEvaluator(time.Hour)
	pond := testPond(models.WaterFreshwater)

	violations := e.EvaluateReading(pond, readingWithPH(8.6), phThresholds())

	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, models.SeverityHigh, v.Severity)
	require.NotNil(t, v.Threshold)
	assert.Equal(t, 8.5, *v.Threshold)
}

func TestClassifyWithinNormalBand(t *testing.T) {
	e := NewEvaluator(time.Hour)
	pond := testPond(models.WaterFreshwater)

	violations := e.EvaluateReading(pond, readingWithPH(7.2), phThresholds())
	assert.Empty(t, violations)
}

func TestNullParameterIsSkipped(t *testing.T) {
	e := NewEvaluator(time.Hour)
	pond := testPond(models.WaterFreshwater)

	// Oxygen absent; even a threshold that everything violates must not
	// fire for a parameter the sensor did not report.
	thresholds := []models.Threshold{
		{
			PondID:      1,
			Parameter:   models.ParamOxygen,
			MinValue:    7.0,
			MaxValue:    7.1,
			CriticalMin: 6.9,
			CriticalMax: 7.2,
			IsActive:    true,
		},
	}
	reading := &models.SensorReading{PondID: 1, Timestamp: time.Now()}

	violations := e.EvaluateReading(pond, reading, thresholds)
	assert.Empty(t, violations)
}

func TestInactiveThresholdFallsBackToProfileDefault(t *testing.T) {
	e := NewEvaluator(time.Hour)
	pond := testPond(models.WaterSaltwater)

	inactive := []models.Threshold{
		{
			PondID:      1,
			Parameter:   models.ParamTemperature,
			MinValue:    0,
			MaxValue:    100,
			CriticalMin: -10,
			CriticalMax: 200,
			IsActive:    false,
		},
	}

	// 30 degrees exceeds the saltwater critical maximum of 25.
	temp := 30.0
	reading := &models.SensorReading{PondID: 1, Timestamp: time.Now(), Temperature: &temp}

	violations := e.EvaluateReading(pond, reading, inactive)
	require.Len(t, violations, 1)
	assert.Equal(t, models.SeverityCritical, violations[0].Severity)
}

func TestProfileDefaultsCoverAllParameters(t *testing.T) {
	e := NewEvaluator(time.Hour)
	for _, wt := range []models.WaterType{models.WaterSaltwater, models.WaterFreshwater, models.WaterBrackish} {
		pond := testPond(wt)
		for _, param := range models.AllParameters {
			_, ok := e.EffectiveBand(pond, param, nil)
			assert.True(t, ok, "no default band for %s/%s", wt, param)
		}
	}
}

func TestCheckStaleness(t *testing.T) {
	e := NewEvaluator(time.Hour)
	pond := testPond(models.WaterFreshwater)
	now := time.Now()

	fresh := &models.SensorReading{PondID: 1, Timestamp: now.Add(-5 * time.Minute)}
	assert.Nil(t, e.CheckStaleness(pond, fresh, now))

	stale := &models.SensorReading{PondID: 1, Timestamp: now.Add(-2 * time.Hour)}
	v := e.CheckStaleness(pond, stale, now)
	require.NotNil(t, v)
	assert.Equal(t, models.AlertSensorMalfunction, v.Type)
	assert.Equal(t, models.SeverityHigh, v.Severity)
	assert.Nil(t, v.Parameter)
}
