package contracts_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xTas/FLUTE-WELL/internal/logger"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

func TestParseSelectionPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want contracts.SelectionPolicy
	}{
		{"highest", contracts.SelectHighest},
		{"h", contracts.SelectHighest},
		{"HIGHEST", contracts.SelectHighest},
		{" lowest ", contracts.SelectLowest},
		{"lw", contracts.SelectLowest},
		{"loudest", contracts.SelectLoudest},
		{"lu", contracts.SelectLoudest},
		{"first", contracts.SelectFirstOnset},
		{"first-onset", contracts.SelectFirstOnset},
		{"f", contracts.SelectFirstOnset},
		{"last", contracts.SelectLastOnset},
		{"last-onset", contracts.SelectLastOnset},
		{"la", contracts.SelectLastOnset},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := contracts.ParseSelectionPolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelectionPolicyUnknown(t *testing.T) {
	_, err := contracts.ParseSelectionPolicy("median")
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrConfig)
}

func TestParseOutOfRangePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want contracts.OutOfRangePolicy
	}{
		{"drop", contracts.OutOfRangeDrop},
		{"d", contracts.OutOfRangeDrop},
		{"clamp", contracts.OutOfRangeClamp},
		{"C", contracts.OutOfRangeClamp},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := contracts.ParseOutOfRangePolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := contracts.ParseOutOfRangePolicy("wrap")
	assert.ErrorIs(t, err, contracts.ErrConfig)
}

func TestParseArticulationStyle(t *testing.T) {
	tests := []struct {
		in   string
		want contracts.ArticulationStyle
	}{
		{"portato", contracts.ArticulationPortato},
		{"portamento", contracts.ArticulationPortato},
		{"p", contracts.ArticulationPortato},
		{"legato", contracts.ArticulationLegato},
		{"l", contracts.ArticulationLegato},
		{"tenuto", contracts.ArticulationTenuto},
		{"t", contracts.ArticulationTenuto},
		{"staccato", contracts.ArticulationStaccato},
		{"s", contracts.ArticulationStaccato},
		{"staccatissimo", contracts.ArticulationStaccatissimo},
		{"ss", contracts.ArticulationStaccatissimo},
		{"custom", contracts.ArticulationCustom},
		{"c", contracts.ArticulationCustom},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := contracts.ParseArticulationStyle(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := contracts.ParseArticulationStyle("marcato")
	assert.ErrorIs(t, err, contracts.ErrConfig)
}

func TestPolicyStringsRoundTrip(t *testing.T) {
	policies := []contracts.SelectionPolicy{
		contracts.SelectHighest,
		contracts.SelectLowest,
		contracts.SelectLoudest,
		contracts.SelectFirstOnset,
		contracts.SelectLastOnset,
	}
	for _, p := range policies {
		got, err := contracts.ParseSelectionPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	styles := []contracts.ArticulationStyle{
		contracts.ArticulationPortato,
		contracts.ArticulationLegato,
		contracts.ArticulationTenuto,
		contracts.ArticulationStaccato,
		contracts.ArticulationStaccatissimo,
		contracts.ArticulationCustom,
	}
	for _, a := range styles {
		got, err := contracts.ParseArticulationStyle(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
}

func TestPitchRangeContains(t *testing.T) {
	r := contracts.PitchRange{Low: 69, High: 93}

	assert.True(t, r.Contains(69))
	assert.True(t, r.Contains(81))
	assert.True(t, r.Contains(93))
	assert.False(t, r.Contains(68))
	assert.False(t, r.Contains(94))
}

func TestWarningsCollectsInOrder(t *testing.T) {
	w := contracts.NewWarnings(logger.NewNop())

	w.Addf("parse", "note %d never ended", 72)
	w.Addf("keymap", "pitch %d dropped", 30)

	require.Equal(t, 2, w.Count())
	all := w.All()
	assert.Equal(t, "parse", all[0].Stage)
	assert.Equal(t, "note 72 never ended", all[0].Message)
	assert.Equal(t, "keymap", all[1].Stage)

	// All returns a snapshot, not the backing slice.
	all[0].Stage = "mutated"
	assert.Equal(t, "parse", w.All()[0].Stage)
}

func TestWarningsConcurrentAdds(t *testing.T) {
	w := contracts.NewWarnings(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				w.Addf("reduce", "warning %d", j)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, w.Count())
}
