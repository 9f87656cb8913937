package models

import (
	"time"

	"gorm.io/gorm"
)

// SensorReading is one timestamped snapshot of a pond's parameters.
// Fields are pointers because a sensor fault leaves a parameter unreported;
// nil means "no data", never zero. Readings are immutable once written.
type SensorReading struct {
	gorm.Model
	PondID      uint      `gorm:"index;not null" json:"pond_id"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	Temperature *float64  `json:"temperature"`
	PH          *float64  `json:"ph"`
	Oxygen      *float64  `json:"oxygen"`
	Salinity    *float64  `json:"salinity"`
	Turbidity   *float64  `json:"turbidity"`
	Ammonia     *float64  `json:"ammonia"`
	Nitrite     *float64  `json:"nitrite"`
	Nitrate     *float64  `json:"nitrate"`
}

// Value returns the reading's value for one parameter, or nil if the
// sensor did not report it.
func (r *SensorReading) Value(p Parameter) *float64 {
	switch p {
	case ParamTemperature:
		return r.Temperature
	case ParamPH:
		return r.PH
	case ParamOxygen:
		return r.Oxygen
	case ParamSalinity:
		return r.Salinity
	case ParamTurbidity:
		return r.Turbidity
	case ParamAmmonia:
		return r.Ammonia
	case ParamNitrite:
		return r.Nitrite
	case ParamNitrate:
		return r.Nitrate
	default:
		return nil
	}
}

// SetValue stores a value for one parameter. A nil value records a sensor
// fault for that parameter.
func (r *SensorReading) SetValue(p Parameter, v *float64) {
	switch p {
	case ParamTemperature:
		r.Temperature = v
	case ParamPH:
		r.PH = v
	case ParamOxygen:
		r.Oxygen = v
	case ParamSalinity:
		r.Salinity = v
	case ParamTurbidity:
		r.Turbidity = v
	case ParamAmmonia:
		r.Ammonia = v
	case ParamNitrite:
		r.Nitrite = v
	case ParamNitrate:
		r.Nitrate = v
	}
}
