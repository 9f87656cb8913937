package engine

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/aquaeye/internal/alert"
	"github.com/aquaeye/internal/config"
	"github.com/aquaeye/internal/database"
	"github.com/aquaeye/internal/models"
	"github.com/aquaeye/internal/notify"
	"github.com/aquaeye/internal/simulator"
	"github.com/aquaeye/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hub := ws.NewHub()
	go hub.Run()

	cfg := config.Config{}
	cfg.Engine.SimulationEnabled = true
	cfg.Engine.GenerationInterval = time.Hour
	cfg.Engine.EvaluationInterval = time.Hour
	cfg.Engine.RetentionInterval = time.Hour
	cfg.Engine.DedupWindow = 30 * time.Minute
	cfg.Engine.RetentionWindow = 30 * 24 * time.Hour
	cfg.Engine.StalenessBound = time.Hour

	dispatcher := notify.NewDispatcher(db, hub, &cfg)
	sim := simulator.New(rand.New(rand.NewSource(1)))
	evaluator := alert.NewEvaluator(cfg.Engine.StalenessBound)
	alerts := alert.NewManager(db, dispatcher, cfg.Engine.DedupWindow, cfg.Engine.RetentionWindow)

	return New(db, sim, evaluator, alerts, dispatcher, cfg), db
}

func seedPond(t *testing.T, db *gorm.DB, active bool) *models.Pond {
	t.Helper()

	farm := &models.Farm{Name: "Test Farm"}
	require.NoError(t, db.Create(farm).Error)

	pond := &models.Pond{Name: "Pond A", Type: models.WaterFreshwater, FarmID: farm.ID, IsActive: active}
	require.NoError(t, db.Create(pond).Error)
	return pond
}

func TestGenerationTickPersistsOneReadingPerActivePond(t *testing.T) {
	eng, db := newTestEngine(t)
	seedPond(t, db, true)
	seedPond(t, db, true)
	seedPond(t, db, false)

	require.NoError(t, eng.generationTick(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.SensorReading{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "one reading per active pond, none for inactive")
}

func TestGenerationTickUsesPreviousReadingForContinuity(t *testing.T) {
	eng, db := newTestEngine(t)
	pond := seedPond(t, db, true)

	require.NoError(t, eng.generationTick(context.Background()))
	require.NoError(t, eng.generationTick(context.Background()))

	var readings []models.SensorReading
	require.NoError(t, db.Where("pond_id = ?", pond.ID).Order("timestamp asc").Find(&readings).Error)
	require.Len(t, readings, 2)

	// Consecutive synthesized readings stay close together.
	require.NotNil(t, readings[0].Temperature)
	require.NotNil(t, readings[1].Temperature)
	assert.InDelta(t, *readings[0].Temperature, *readings[1].Temperature, 5.0)
}

func TestEvaluationTickRaisesAndDeduplicatesAlerts(t *testing.T) {
	eng, db := newTestEngine(t)
	pond := seedPond(t, db, true)

	// Temperature past the freshwater critical maximum of 23.
	temp := 30.0
	reading := &models.SensorReading{PondID: pond.ID, Timestamp: time.Now(), Temperature: &temp}
	require.NoError(t, db.Create(reading).Error)

	require.NoError(t, eng.evaluationTick(context.Background()))

	var alerts []models.Alert
	require.NoError(t, db.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, models.AlertThresholdExceeded, alerts[0].Type)

	// Re-running inside the dedup window must not create a second alert.
	require.NoError(t, eng.evaluationTick(context.Background()))
	require.NoError(t, db.Find(&alerts).Error)
	assert.Len(t, alerts, 1)
}

func TestEvaluationTickFlagsStalePonds(t *testing.T) {
	eng, db := newTestEngine(t)
	pond := seedPond(t, db, true)

	temp := 18.0
	reading := &models.SensorReading{PondID: pond.ID, Timestamp: time.Now().Add(-2 * time.Hour), Temperature: &temp}
	require.NoError(t, db.Create(reading).Error)

	require.NoError(t, eng.evaluationTick(context.Background()))

	var alerts []models.Alert
	require.NoError(t, db.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertSensorMalfunction, alerts[0].Type)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)
	assert.Nil(t, alerts[0].Parameter)
}

func TestEvaluationTickSkipsPondsWithoutReadings(t *testing.T) {
	eng, db := newTestEngine(t)
	seedPond(t, db, true)

	require.NoError(t, eng.evaluationTick(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.Alert{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestInjectScenarioCreatesReadingAndAlert(t *testing.T) {
	eng, db := newTestEngine(t)
	pond := seedPond(t, db, true)

	reading, err := eng.InjectScenario(context.Background(), pond.ID, simulator.ScenarioPHSpike)
	require.NoError(t, err)
	require.NotNil(t, reading.PH)
	assert.Equal(t, 9.2, *reading.PH)

	// pH 9.2 exceeds the freshwater critical maximum of 8.5.
	var alerts []models.Alert
	require.NoError(t, db.Where("type = ?", models.AlertThresholdExceeded).Find(&alerts).Error)

	found := false
	for _, a := range alerts {
		if a.Parameter != nil && *a.Parameter == models.ParamPH {
			found = true
			assert.Equal(t, models.SeverityCritical, a.Severity)
		}
	}
	assert.True(t, found, "pH spike scenario should raise a pH alert")
}

func TestInjectScenarioUnknownPond(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.InjectScenario(context.Background(), 9999, simulator.ScenarioLowOxygen)
	assert.Error(t, err)
}

func TestStartStopAndStatus(t *testing.T) {
	eng, _ := newTestEngine(t)

	assert.False(t, eng.GetStatus().Running)

	eng.Start()
	status := eng.GetStatus()
	assert.True(t, status.Running)
	assert.True(t, status.SimulationEnabled)
	assert.Equal(t, time.Hour, status.GenerationInterval)

	// Start is idempotent.
	eng.Start()
	assert.True(t, eng.GetStatus().Running)

	eng.Stop()
	assert.False(t, eng.GetStatus().Running)

	// Stop is idempotent too.
	eng.Stop()
	assert.False(t, eng.GetStatus().Running)
}

func TestRetentionTickPurgesOldResolvedAlerts(t *testing.T) {
	eng, db := newTestEngine(t)
	pond := seedPond(t, db, true)

	resolvedAt := time.Now().Add(-31 * 24 * time.Hour)
	expired := &models.Alert{
		PondID:     pond.ID,
		FarmID:     pond.FarmID,
		Type:       models.AlertThresholdExceeded,
		Severity:   models.SeverityHigh,
		Message:    "old",
		IsRead:     true,
		IsResolved: true,
		ResolvedAt: &resolvedAt,
	}
	require.NoError(t, db.Create(expired).Error)

	require.NoError(t, eng.retentionTick(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.Alert{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
