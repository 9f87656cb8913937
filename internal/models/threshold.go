package models

import (
	"gorm.io/gorm"
)

// Threshold is a per-pond override of the acceptable range for one
// parameter. MinValue/MaxValue bound the normal band; CriticalMin/
// CriticalMax bound the critical band (critical band contains the normal
// band). Ponds without an active override for a parameter fall back to the
// profile defaults built into the evaluator.
type Threshold struct {
	gorm.Model
	PondID      uint      `gorm:"index;not null" json:"pond_id"`
	Parameter   Parameter `gorm:"not null" json:"parameter"`
	MinValue    float64   `json:"min_value"`
	MaxValue    float64   `json:"max_value"`
	CriticalMin float64   `json:"critical_min"`
	CriticalMax float64   `json:"critical_max"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
}
