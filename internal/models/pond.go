package models

import (
	"gorm.io/gorm"
)

// WaterType is the environment profile a pond belongs to. It selects the
// baseline tables used by the simulator and the default thresholds used by
// the evaluator.
type WaterType string

const (
	WaterSaltwater  WaterType = "saltwater"
	WaterFreshwater WaterType = "freshwater"
	WaterBrackish   WaterType = "brackish"
)

// Farm groups ponds and the users who should be notified about them.
type Farm struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	Location string `json:"location"`
	Ponds    []Pond `json:"ponds,omitempty"`
	Users    []User `json:"users,omitempty"`
}

// Pond is one monitored water body. The engine only reads ponds; they are
// created and edited by the CRUD layer.
type Pond struct {
	gorm.Model
	Name       string      `gorm:"not null" json:"name"`
	Type       WaterType   `gorm:"not null;default:freshwater" json:"type"`
	FarmID     uint        `gorm:"index;not null" json:"farm_id"`
	Farm       Farm        `json:"farm,omitempty"`
	IsActive   bool        `gorm:"default:true" json:"is_active"`
	Thresholds []Threshold `json:"thresholds,omitempty"`
}
