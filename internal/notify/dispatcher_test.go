package notify

import (
	"fmt"
	"testing"

	"github.com/aquaeye/internal/config"
	"github.com/aquaeye/internal/database"
	"github.com/aquaeye/internal/models"
	"github.com/aquaeye/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestDispatcherWithoutCredentialsDisablesExternalChannels(t *testing.T) {
	db := newTestDB(t)
	hub := ws.NewHub()
	go hub.Run()

	d := NewDispatcher(db, hub, &config.Config{})
	assert.Nil(t, d.slack)
	assert.Nil(t, d.email)
}

func TestPublishAlertWithDisabledChannelsDoesNotPanic(t *testing.T) {
	db := newTestDB(t)
	hub := ws.NewHub()
	go hub.Run()

	d := NewDispatcher(db, hub, &config.Config{})

	pond := &models.Pond{Name: "U1", Type: models.WaterFreshwater, FarmID: 1}
	pond.ID = 1
	alert := &models.Alert{
		PondID:   1,
		FarmID:   1,
		Type:     models.AlertThresholdExceeded,
		Severity: models.SeverityHigh,
		Message:  "test",
	}

	assert.NotPanics(t, func() {
		d.PublishAlert(pond, alert)
		d.PublishReading(pond, &models.SensorReading{PondID: 1})
	})
}

func TestRecipientsFiltering(t *testing.T) {
	db := newTestDB(t)
	hub := ws.NewHub()
	go hub.Run()

	d := NewDispatcher(db, hub, &config.Config{})

	farm := &models.Farm{Name: "Coastal Farm"}
	require.NoError(t, db.Create(farm).Error)

	users := []models.User{
		{Username: "wants-all", Email: "all@example.com", Role: models.RoleUser,
			FarmID: farm.ID, IsActive: true, EmailAlerts: true, MinSeverity: models.SeverityLow},
		{Username: "critical-only", Email: "crit@example.com", Role: models.RoleUser,
			FarmID: farm.ID, IsActive: true, EmailAlerts: true, MinSeverity: models.SeverityCritical},
		{Username: "opted-out", Email: "out@example.com", Role: models.RoleUser,
			FarmID: farm.ID, IsActive: true, EmailAlerts: false, MinSeverity: models.SeverityLow},
		{Username: "inactive", Email: "gone@example.com", Role: models.RoleUser,
			FarmID: farm.ID, IsActive: false, EmailAlerts: true, MinSeverity: models.SeverityLow},
		{Username: "other-farm", Email: "other@example.com", Role: models.RoleUser,
			FarmID: farm.ID + 1, IsActive: true, EmailAlerts: true, MinSeverity: models.SeverityLow},
	}
	for i := range users {
		require.NoError(t, users[i].SetPassword("secret"))
		require.NoError(t, db.Create(&users[i]).Error)
	}

	highAlert := &models.Alert{FarmID: farm.ID, Severity: models.SeverityHigh}
	recipients, err := d.recipients(highAlert)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "all@example.com", recipients[0].Email)

	criticalAlert := &models.Alert{FarmID: farm.ID, Severity: models.SeverityCritical}
	recipients, err = d.recipients(criticalAlert)
	require.NoError(t, err)
	assert.Len(t, recipients, 2)
}
