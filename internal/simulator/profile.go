package simulator

import (
	"github.com/aquaeye/internal/models"
)

// bound is the hard physical range for a parameter. Generated values never
// leave it, whatever the noise draw produced.
type bound struct {
	Min float64
	Max float64
}

// Bounds is the physical bound table, exported for use by tests and the
// evaluator's sanity checks.
var Bounds = map[models.Parameter]bound{
	models.ParamTemperature: {Min: 5.0, Max: 35.0},
	models.ParamPH:          {Min: 6.0, Max: 9.0},
	models.ParamOxygen:      {Min: 0.0, Max: 15.0},
	models.ParamSalinity:    {Min: 0.0, Max: 50.0},
	models.ParamTurbidity:   {Min: 0.0, Max: 20.0},
	models.ParamAmmonia:     {Min: 0.0, Max: 2.0},
	models.ParamNitrite:     {Min: 0.0, Max: 1.0},
	models.ParamNitrate:     {Min: 0.0, Max: 10.0},
}

// baselines holds the resting value per parameter for each water type.
var baselines = map[models.WaterType]map[models.Parameter]float64{
	models.WaterSaltwater: {
		models.ParamTemperature: 19.0,
		models.ParamPH:          8.1,
		models.ParamOxygen:      7.0,
		models.ParamSalinity:    35.0,
		models.ParamTurbidity:   2.5,
		models.ParamAmmonia:     0.1,
		models.ParamNitrite:     0.05,
		models.ParamNitrate:     1.0,
	},
	models.WaterFreshwater: {
		models.ParamTemperature: 17.0,
		models.ParamPH:          7.5,
		models.ParamOxygen:      8.0,
		models.ParamSalinity:    0.3,
		models.ParamTurbidity:   3.0,
		models.ParamAmmonia:     0.15,
		models.ParamNitrite:     0.08,
		models.ParamNitrate:     2.0,
	},
	models.WaterBrackish: {
		models.ParamTemperature: 18.0,
		models.ParamPH:          7.8,
		models.ParamOxygen:      7.5,
		models.ParamSalinity:    15.0,
		models.ParamTurbidity:   2.8,
		models.ParamAmmonia:     0.12,
		models.ParamNitrite:     0.06,
		models.ParamNitrate:     1.5,
	},
}

// diurnal holds the fixed offsets applied by time of day. Oxygen and
// temperature drop at night (respiration, no photosynthesis); pH follows.
type diurnal struct {
	Night float64
	Day   float64
}

var diurnalOffsets = map[models.Parameter]diurnal{
	models.ParamTemperature: {Night: -1.5, Day: 1.0},
	models.ParamPH:          {Night: -0.1, Day: 0.1},
	models.ParamOxygen:      {Night: -0.5, Day: 0.3},
}

// spike holds the chance and magnitude of a one-off excursion for the
// parameters that jump rather than cycle.
type spike struct {
	Chance float64
	Size   float64
}

var spikes = map[models.Parameter]spike{
	models.ParamTurbidity: {Chance: 0.10, Size: 2.0},
	models.ParamAmmonia:   {Chance: 0.05, Size: 0.2},
	models.ParamNitrite:   {Chance: 0.02, Size: 0.1},
}

// variationPercent is the multiplicative noise band per parameter, as a
// fraction of the current value.
var variationPercent = map[models.Parameter]float64{
	models.ParamTemperature: 0.05,
	models.ParamPH:          0.03,
	models.ParamOxygen:      0.10,
	models.ParamSalinity:    0.02,
	models.ParamTurbidity:   0.20,
	models.ParamAmmonia:     0.30,
	models.ParamNitrite:     0.25,
	models.ParamNitrate:     0.15,
}

func clamp(p models.Parameter, value float64) float64 {
	b, ok := Bounds[p]
	if !ok {
		return value
	}
	if value < b.Min {
		return b.Min
	}
	if value > b.Max {
		return b.Max
	}
	return value
}
