package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

func f(v float64) *float64 { return &v }

func TestParseCaptiveMode(t *testing.T) {
	for in, want := range map[string]CaptiveMode{"": CaptiveAll, " ALL ": CaptiveAll, "Yes": CaptiveYes, "no": CaptiveNo} {
		got, err := ParseCaptiveMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCaptiveMode("maybe")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFilterInvalid))
}

func TestFilterOptions_Validate(t *testing.T) {
	assert.NoError(t, FilterOptions{}.Validate())
	assert.NoError(t, FilterOptions{CapacityMin: f(100), CapacityMax: f(100)}.Validate())

	assert.Error(t, FilterOptions{CapacityMin: f(500), CapacityMax: f(100)}.Validate())
	assert.Error(t, FilterOptions{Captive: "sometimes"}.Validate())
	assert.Error(t, FilterOptions{MaxRemainingLifetime: f(-1)}.Validate())
}

func TestPlant_DisplayStatus(t *testing.T) {
	assert.Equal(t, "Under construction", Plant{Status: StatusUnderConstruction, StatusLabel: "Under construction"}.DisplayStatus())
	assert.Equal(t, "Retired", Plant{Status: StatusRetired}.DisplayStatus())
}

//Personal.AI order the ending
