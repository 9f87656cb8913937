package models

// Parameter identifies one measured water-quality parameter. Thresholds,
// readings and alerts all key on this type rather than matching field names
// by string.
type Parameter string

const (
	ParamTemperature Parameter = "TEMPERATURE"
	ParamPH          Parameter = "PH"
	ParamOxygen      Parameter = "OXYGEN"
	ParamSalinity    Parameter = "SALINITY"
	ParamTurbidity   Parameter = "TURBIDITY"
	ParamAmmonia     Parameter = "AMMONIA"
	ParamNitrite     Parameter = "NITRITE"
	ParamNitrate     Parameter = "NITRATE"
)

// AllParameters lists every parameter in the order readings report them.
var AllParameters = []Parameter{
	ParamTemperature,
	ParamPH,
	ParamOxygen,
	ParamSalinity,
	ParamTurbidity,
	ParamAmmonia,
	ParamNitrite,
	ParamNitrate,
}

var parameterNames = map[Parameter]string{
	ParamTemperature: "Temperature",
	ParamPH:          "pH",
	ParamOxygen:      "Dissolved Oxygen",
	ParamSalinity:    "Salinity",
	ParamTurbidity:   "Turbidity",
	ParamAmmonia:     "Ammonia",
	ParamNitrite:     "Nitrite",
	ParamNitrate:     "Nitrate",
}

// DisplayName returns the human readable name used in alert messages.
func (p Parameter) DisplayName() string {
	if name, ok := parameterNames[p]; ok {
		return name
	}
	return string(p)
}

// Valid reports whether p is one of the known parameters.
func (p Parameter) Valid() bool {
	_, ok := parameterNames[p]
	return ok
}
