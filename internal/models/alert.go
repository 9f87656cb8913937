package models

import (
	"time"

	"gorm.io/gorm"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "LOW"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Rank orders severities LOW < MEDIUM < HIGH < CRITICAL. Unknown
// severities rank below LOW.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

type AlertType string

const (
	AlertThresholdExceeded AlertType = "THRESHOLD_EXCEEDED"
	AlertSensorMalfunction AlertType = "SENSOR_MALFUNCTION"
)

// Alert records one detected out-of-range condition. Lifecycle: created
// unread -> acknowledged (IsRead) -> resolved (IsResolved + ResolvedAt) ->
// deleted by the retention job once resolved long enough. Parameter is nil
// for SENSOR_MALFUNCTION alerts, which are not tied to a single parameter.
type Alert struct {
	gorm.Model
	PondID     uint          `gorm:"index;not null" json:"pond_id"`
	FarmID     uint          `gorm:"index;not null" json:"farm_id"`
	Type       AlertType     `gorm:"not null" json:"type"`
	Severity   AlertSeverity `gorm:"not null" json:"severity"`
	Parameter  *Parameter    `gorm:"index" json:"parameter"`
	Value      *float64      `json:"value"`
	Threshold  *float64      `json:"threshold"`
	Message    string        `json:"message"`
	IsRead     bool          `gorm:"default:false" json:"is_read"`
	IsResolved bool          `gorm:"index;default:false" json:"is_resolved"`
	ResolvedAt *time.Time    `json:"resolved_at"`
	ResolvedBy uint          `json:"resolved_by,omitempty"`
}
