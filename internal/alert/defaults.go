package alert

import (
	"github.com/aquaeye/internal/models"
)

// defaultThresholds are the built-in per-profile bands used when a pond
// has no active override for a parameter. Water chemistry bands are shared
// across profiles; temperature, pH, oxygen and salinity depend on the
// water type.
var defaultThresholds = map[models.WaterType]map[models.Parameter]Band{
	models.WaterSaltwater: {
		models.ParamTemperature: {MinValue: 16.0, MaxValue: 22.0, CriticalMin: 14.0, CriticalMax: 25.0},
		models.ParamPH:          {MinValue: 7.8, MaxValue: 8.3, CriticalMin: 7.5, CriticalMax: 8.5},
		models.ParamOxygen:      {MinValue: 6.0, MaxValue: 9.0, CriticalMin: 5.0, CriticalMax: 12.0},
		models.ParamSalinity:    {MinValue: 32.0, MaxValue: 37.0, CriticalMin: 30.0, CriticalMax: 40.0},
		models.ParamTurbidity:   {MinValue: 0.0, MaxValue: 5.0, CriticalMin: 0.0, CriticalMax: 10.0},
		models.ParamAmmonia:     {MinValue: 0.0, MaxValue: 0.25, CriticalMin: 0.0, CriticalMax: 0.5},
		models.ParamNitrite:     {MinValue: 0.0, MaxValue: 0.15, CriticalMin: 0.0, CriticalMax: 0.3},
		models.ParamNitrate:     {MinValue: 0.0, MaxValue: 5.0, CriticalMin: 0.0, CriticalMax: 8.0},
	},
	models.WaterFreshwater: {
		models.ParamTemperature: {MinValue: 15.0, MaxValue: 20.0, CriticalMin: 12.0, CriticalMax: 23.0},
		models.ParamPH:          {MinValue: 7.0, MaxValue: 8.0, CriticalMin: 6.5, CriticalMax: 8.5},
		models.ParamOxygen:      {MinValue: 7.0, MaxValue: 10.0, CriticalMin: 6.0, CriticalMax: 12.0},
		models.ParamSalinity:    {MinValue: 0.0, MaxValue: 1.0, CriticalMin: 0.0, CriticalMax: 2.0},
		models.ParamTurbidity:   {MinValue: 0.0, MaxValue: 5.0, CriticalMin: 0.0, CriticalMax: 10.0},
		models.ParamAmmonia:     {MinValue: 0.0, MaxValue: 0.25, CriticalMin: 0.0, CriticalMax: 0.5},
		models.ParamNitrite:     {MinValue: 0.0, MaxValue: 0.15, CriticalMin: 0.0, CriticalMax: 0.3},
		models.ParamNitrate:     {MinValue: 0.0, MaxValue: 5.0, CriticalMin: 0.0, CriticalMax: 8.0},
	},
	models.WaterBrackish: {
		models.ParamTemperature: {MinValue: 15.5, MaxValue: 21.0, CriticalMin: 13.0, CriticalMax: 24.0},
		models.ParamPH:          {MinValue: 7.4, MaxValue: 8.2, CriticalMin: 7.0, CriticalMax: 8.5},
		models.ParamOxygen:      {MinValue: 6.5, MaxValue: 9.5, CriticalMin: 5.5, CriticalMax: 12.0},
		models.ParamSalinity:    {MinValue: 10.0, MaxValue: 20.0, CriticalMin: 5.0, CriticalMax: 25.0},
		models.ParamTurbidity:   {MinValue: 0.0, MaxValue: 5.0, CriticalMin: 0.0, CriticalMax: 10.0},
		models.ParamAmmonia:     {MinValue: 0.0, MaxValue: 0.25, CriticalMin: 0.0, CriticalMax: 0.5},
		models.ParamNitrite:     {MinValue: 0.0, MaxValue: 0.15, CriticalMin: 0.0, CriticalMax: 0.3},
		models.ParamNitrate:     {MinValue: 0.0, MaxValue: 5.0, CriticalMin: 0.0, CriticalMax: 8.0},
	},
}
