package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingValueRoundtrip(t *testing.T) {
	reading := &SensorReading{}

	for i, param := range AllParameters {
		v := float64(i) + 0.5
		reading.SetValue(param, &v)
	}

	for i, param := range AllParameters {
		got := reading.Value(param)
		require.NotNil(t, got, "parameter %s", param)
		assert.Equal(t, float64(i)+0.5, *got)
	}

	reading.SetValue(ParamOxygen, nil)
	assert.Nil(t, reading.Value(ParamOxygen))
	assert.NotNil(t, reading.Value(ParamTemperature))
}

func TestReadingValueUnknownParameter(t *testing.T) {
	v := 1.0
	reading := &SensorReading{Temperature: &v}
	assert.Nil(t, reading.Value(Parameter("CONDUCTIVITY")))
}

func TestParameterValidity(t *testing.T) {
	for _, param := range AllParameters {
		assert.True(t, param.Valid(), "parameter %s", param)
	}
	assert.False(t, Parameter("CONDUCTIVITY").Valid())
	assert.Equal(t, "Dissolved Oxygen", ParamOxygen.DisplayName())
	assert.Equal(t, "BOGUS", Parameter("BOGUS").DisplayName())
}

func TestSeverityRankOrdering(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
	assert.Less(t, AlertSeverity("").Rank(), SeverityLow.Rank())
}

func TestUserWantsSeverity(t *testing.T) {
	user := &User{MinSeverity: SeverityHigh}

	assert.False(t, user.WantsSeverity(SeverityLow))
	assert.False(t, user.WantsSeverity(SeverityMedium))
	assert.True(t, user.WantsSeverity(SeverityHigh))
	assert.True(t, user.WantsSeverity(SeverityCritical))
}

func TestUserPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("orcinus"))

	assert.NotEqual(t, "orcinus", user.Password)
	assert.True(t, user.CheckPassword("orcinus"))
	assert.False(t, user.CheckPassword("orca"))
}
