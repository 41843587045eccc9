package articulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTas/FLUTE-WELL/internal/logger"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

func fingered(start, end int64) contracts.FingeredInterval {
	return contracts.FingeredInterval{
		StartTick: start,
		EndTick:   end,
		Pitch:     81,
		Fingering: contracts.Fingering{Label: "A5 (81)", Keys: []contracts.KeyID{0x66, 0x65}},
	}
}

func TestNewShaperValidation(t *testing.T) {
	tests := []struct {
		name    string
		style   contracts.ArticulationStyle
		hold    float64
		holdSet bool
		wantErr bool
	}{
		{name: "preset without hold", style: contracts.ArticulationStaccato},
		{name: "custom with valid hold", style: contracts.ArticulationCustom, hold: 0.5, holdSet: true},
		{name: "custom at upper bound", style: contracts.ArticulationCustom, hold: 1.0, holdSet: true},
		{name: "custom without hold", style: contracts.ArticulationCustom, wantErr: true},
		{name: "custom with zero hold", style: contracts.ArticulationCustom, hold: 0, holdSet: true, wantErr: true},
		{name: "custom with negative hold", style: contracts.ArticulationCustom, hold: -0.2, holdSet: true, wantErr: true},
		{name: "custom above one", style: contracts.ArticulationCustom, hold: 1.2, holdSet: true, wantErr: true},
		{name: "hold with preset style", style: contracts.ArticulationLegato, hold: 0.5, holdSet: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShaper(tt.style, tt.hold, tt.holdSet, logger.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, contracts.ErrConfig)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
		})
	}
}

func TestPresetHoldFractions(t *testing.T) {
	tests := []struct {
		style contracts.ArticulationStyle
		want  float64
	}{
		{style: contracts.ArticulationLegato, want: 1.0},
		{style: contracts.ArticulationTenuto, want: 0.95},
		{style: contracts.ArticulationPortato, want: 0.75},
		{style: contracts.ArticulationStaccato, want: 0.3},
		{style: contracts.ArticulationStaccatissimo, want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			s, err := NewShaper(tt.style, 0, false, logger.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Hold())
		})
	}
}

func TestShapeShortensToHoldFraction(t *testing.T) {
	s, err := NewShaper(contracts.ArticulationStaccato, 0, false, logger.NewNop())
	require.NoError(t, err)

	out := s.Shape([]contracts.FingeredInterval{fingered(0, 1000)})
	require.Len(t, out, 1)
	assert.Equal(t, int64(0), out[0].StartTick)
	assert.Equal(t, int64(300), out[0].HoldEndTick)
	assert.Equal(t, uint8(81), out[0].Pitch)
}

func TestShapeRoundsHalfUp(t *testing.T) {
	s, err := NewShaper(contracts.ArticulationCustom, 0.5, true, logger.NewNop())
	require.NoError(t, err)

	// 5 ticks at 50% rounds to 3.
	out := s.Shape([]contracts.FingeredInterval{fingered(100, 105)})
	require.Len(t, out, 1)
	assert.Equal(t, int64(103), out[0].HoldEndTick)
}

func TestShapeFloorsHoldAtOneTick(t *testing.T) {
	s, err := NewShaper(contracts.ArticulationCustom, 0.1, true, logger.NewNop())
	require.NoError(t, err)

	out := s.Shape([]contracts.FingeredInterval{fingered(10, 12)})
	require.Len(t, out, 1)
	assert.Equal(t, int64(11), out[0].HoldEndTick)
}

func TestShapeLegatoKeepsFullSpans(t *testing.T) {
	s, err := NewShaper(contracts.ArticulationLegato, 0, false, logger.NewNop())
	require.NoError(t, err)

	out := s.Shape([]contracts.FingeredInterval{
		fingered(0, 480),
		fingered(480, 960),
	})
	require.Len(t, out, 2)
	assert.Equal(t, int64(480), out[0].HoldEndTick)
	assert.Equal(t, int64(480), out[1].StartTick)
	assert.Equal(t, int64(960), out[1].HoldEndTick)
}

func TestShapePushesOverlappingStart(t *testing.T) {
	s, err := NewShaper(contracts.ArticulationLegato, 0, false, logger.NewNop())
	require.NoError(t, err)

	// Overlapping input cannot come from reduction, but rounding guards
	// still keep the output monotonic.
	out := s.Shape([]contracts.FingeredInterval{
		fingered(0, 500),
		fingered(490, 700),
	})
	require.Len(t, out, 2)
	assert.Equal(t, int64(500), out[0].HoldEndTick)
	assert.Equal(t, int64(500), out[1].StartTick)
	assert.GreaterOrEqual(t, out[1].HoldEndTick, out[1].StartTick+1)
}

func TestShapeEmptyInput(t *testing.T) {
	s, err := NewShaper(contracts.ArticulationPortato, 0, false, logger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, s.Shape(nil))
}
