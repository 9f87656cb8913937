package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/metrics"
	"github.com/aquaeye/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Publisher fans a new alert out to live viewers and external channels.
// Delivery problems stay inside the publisher; alert persistence never
// depends on it.
type Publisher interface {
	PublishAlert(pond *models.Pond, alert *models.Alert)
}

// Manager owns the alert lifecycle: windowed dedup at creation,
// acknowledgement, resolution and retention cleanup.
type Manager struct {
	db          *gorm.DB
	publisher   Publisher
	dedupWindow time.Duration
	retention   time.Duration
	log         zerolog.Logger
}

func NewManager(db *gorm.DB, publisher Publisher, dedupWindow, retention time.Duration) *Manager {
	return &Manager{
		db:          db,
		publisher:   publisher,
		dedupWindow: dedupWindow,
		retention:   retention,
		log:         logger.WithComponent("alerts"),
	}
}

// RaiseViolation creates an alert for the violation unless an unresolved
// alert for the same pond and parameter was already created inside the
// dedup window. Returns the created alert, or nil when suppressed.
//
// The dedup check is a windowed query, not a uniqueness constraint;
// concurrent ticks can in rare cases both pass it. Slight over-alerting is
// accepted over silent loss.
func (m *Manager) RaiseViolation(ctx context.Context, pond *models.Pond, v Violation) (*models.Alert, error) {
	since := time.Now().Add(-m.dedupWindow)

	query := m.db.WithContext(ctx).
		Where("pond_id = ? AND is_resolved = ? AND created_at >= ?", pond.ID, false, since)
	if v.Parameter != nil {
		query = query.Where("parameter = ?", *v.Parameter)
	} else {
		query = query.Where("parameter IS NULL AND type = ?", v.Type)
	}

	var count int64
	if err := query.Model(&models.Alert{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check for duplicate alert: %w", err)
	}
	if count > 0 {
		metrics.AlertsSuppressed.Inc()
		return nil, nil
	}

	alert := &models.Alert{
		PondID:    pond.ID,
		FarmID:    pond.FarmID,
		Type:      v.Type,
		Severity:  v.Severity,
		Parameter: v.Parameter,
		Value:     v.Value,
		Threshold: v.Threshold,
		Message:   v.Message,
	}

	if err := m.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	metrics.AlertsCreated.WithLabelValues(string(alert.Severity)).Inc()
	m.log.Info().
		Uint("alert_id", alert.ID).
		Uint("pond_id", pond.ID).
		Str("severity", string(alert.Severity)).
		Str("type", string(alert.Type)).
		Msg("alert created")

	if m.publisher != nil {
		m.publisher.PublishAlert(pond, alert)
	}

	return alert, nil
}

// Acknowledge marks an alert as read. Idempotent.
func (m *Manager) Acknowledge(ctx context.Context, alertID uint) error {
	var alert models.Alert
	if err := m.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		return fmt.Errorf("failed to find alert %d: %w", alertID, err)
	}

	if alert.IsRead {
		return nil
	}

	return m.db.WithContext(ctx).Model(&alert).Update("is_read", true).Error
}

// Resolve marks an alert as resolved by the given user, stamping the
// resolution time and implying acknowledgement. Idempotent; re-resolving
// keeps the original timestamp.
func (m *Manager) Resolve(ctx context.Context, alertID, actorID uint) error {
	var alert models.Alert
	if err := m.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		return fmt.Errorf("failed to find alert %d: %w", alertID, err)
	}

	if alert.IsResolved {
		return nil
	}

	now := time.Now()
	return m.db.WithContext(ctx).Model(&alert).Updates(map[string]interface{}{
		"is_resolved": true,
		"is_read":     true,
		"resolved_at": now,
		"resolved_by": actorID,
	}).Error
}

// PurgeResolved hard-deletes alerts resolved longer ago than the retention
// window. Returns the number of rows removed.
func (m *Manager) PurgeResolved(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-m.retention)

	result := m.db.WithContext(ctx).
		Unscoped().
		Where("is_resolved = ? AND resolved_at < ?", true, cutoff).
		Delete(&models.Alert{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge resolved alerts: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		metrics.AlertsPurged.Add(float64(result.RowsAffected))
		m.log.Info().Int64("count", result.RowsAffected).Msg("purged old resolved alerts")
	}

	return result.RowsAffected, nil
}

// List returns alerts, optionally filtered by resolution state, newest
// first.
func (m *Manager) List(ctx context.Context, resolved *bool, limit int) ([]models.Alert, error) {
	query := m.db.WithContext(ctx).Order("created_at desc")
	if resolved != nil {
		query = query.Where("is_resolved = ?", *resolved)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var alerts []models.Alert
	if err := query.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}
