package notify

import (
	"time"

	"github.com/aquaeye/internal/config"
	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/metrics"
	"github.com/aquaeye/internal/models"
	"github.com/aquaeye/internal/ws"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dispatcher fans reading and alert events out to live viewers and, when
// configured, to external channels. External channels are probed once at
// construction; a missing or invalid configuration disables that channel
// for the life of the process instead of failing at call time.
type Dispatcher struct {
	db    *gorm.DB
	hub   *ws.Hub
	slack *SlackNotifier
	email *EmailNotifier
	log   zerolog.Logger
}

func NewDispatcher(db *gorm.DB, hub *ws.Hub, cfg *config.Config) *Dispatcher {
	log := logger.WithComponent("notify")

	d := &Dispatcher{
		db:  db,
		hub: hub,
		log: log,
	}

	if cfg.Alert.Slack.Token != "" && cfg.Alert.Slack.Channel != "" {
		slackNotifier, err := NewSlackNotifier(cfg.Alert.Slack.Token, cfg.Alert.Slack.Channel)
		if err != nil {
			log.Warn().Err(err).Msg("slack channel disabled: credential check failed")
		} else {
			d.slack = slackNotifier
			log.Info().Str("channel", cfg.Alert.Slack.Channel).Msg("slack channel enabled")
		}
	}

	if cfg.Alert.Email.SMTPHost != "" && cfg.Alert.Email.From != "" {
		emailNotifier, err := NewEmailNotifier(
			cfg.Alert.Email.SMTPHost,
			cfg.Alert.Email.SMTPPort,
			cfg.Alert.Email.From,
			cfg.Alert.Email.Password,
		)
		if err != nil {
			log.Warn().Err(err).Msg("email channel disabled: SMTP check failed")
		} else {
			d.email = emailNotifier
			log.Info().Str("host", cfg.Alert.Email.SMTPHost).Msg("email channel enabled")
		}
	}

	return d
}

// PublishReading broadcasts a fresh reading on the pond and farm topics.
func (d *Dispatcher) PublishReading(pond *models.Pond, reading *models.SensorReading) {
	payload := map[string]interface{}{
		"pond_id": pond.ID,
		"data":    reading,
		"pond": map[string]interface{}{
			"id":   pond.ID,
			"name": pond.Name,
			"type": pond.Type,
		},
	}
	d.hub.Publish(ws.PondTopic(pond.ID), "sensorData", payload)
	d.hub.Publish(ws.FarmTopic(pond.FarmID), "sensorData", payload)
}

// PublishAlert broadcasts a new alert to live viewers and hands it to the
// external channels. The external leg runs detached so a slow channel
// never delays the caller's tick.
func (d *Dispatcher) PublishAlert(pond *models.Pond, alert *models.Alert) {
	payload := map[string]interface{}{
		"alert":     alert,
		"pond_name": pond.Name,
		"timestamp": time.Now(),
	}
	d.hub.Publish(ws.PondTopic(pond.ID), "alert", payload)
	d.hub.Publish(ws.FarmTopic(pond.FarmID), "alert", payload)

	go d.dispatchExternal(pond, alert)
}

// dispatchExternal delivers the alert to Slack and to each opted-in user.
// Failures are counted and logged per recipient; one bad recipient never
// blocks the rest.
func (d *Dispatcher) dispatchExternal(pond *models.Pond, alert *models.Alert) {
	if d.slack != nil {
		if err := d.slack.Notify(pond, alert); err != nil {
			metrics.NotificationsFailed.WithLabelValues("slack").Inc()
			d.log.Error().Err(err).Uint("alert_id", alert.ID).Msg("slack notification failed")
		}
	}

	if d.email == nil {
		return
	}

	recipients, err := d.recipients(alert)
	if err != nil {
		d.log.Error().Err(err).Uint("alert_id", alert.ID).Msg("failed to load notification recipients")
		return
	}

	for _, user := range recipients {
		if err := d.email.Notify(user.Email, pond, alert); err != nil {
			metrics.NotificationsFailed.WithLabelValues("email").Inc()
			d.log.Error().Err(err).
				Str("recipient", user.Email).
				Uint("alert_id", alert.ID).
				Msg("email notification failed")
		}
	}
}

// recipients returns the farm's active users who opted into email alerts
// at or above the alert's severity.
func (d *Dispatcher) recipients(alert *models.Alert) ([]models.User, error) {
	var users []models.User
	err := d.db.
		Where("farm_id = ? AND is_active = ? AND email_alerts = ?", alert.FarmID, true, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	filtered := users[:0]
	for _, u := range users {
		if u.Email != "" && u.WantsSeverity(alert.Severity) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}
