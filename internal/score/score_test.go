package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempoMapDefaultWhenFileSetsNoTempo(t *testing.T) {
	m := NewTempoMap(480, nil)

	require.Len(t, m.Changes(), 1)
	assert.Equal(t, uint32(500_000), m.At(0).MicrosPerQuarter)
	assert.Equal(t, 500*time.Millisecond, m.TimeAt(480))
}

func TestTempoMapInsertsDefaultBeforeLateFirstChange(t *testing.T) {
	m := NewTempoMap(480, []TempoChange{{Tick: 960, MicrosPerQuarter: 250_000}})

	assert.Equal(t, uint32(500_000), m.At(0).MicrosPerQuarter)
	assert.Equal(t, uint32(500_000), m.At(959).MicrosPerQuarter)
	assert.Equal(t, uint32(250_000), m.At(960).MicrosPerQuarter)
}

func TestTempoMapSameTickLaterChangeWins(t *testing.T) {
	m := NewTempoMap(480, []TempoChange{
		{Tick: 0, MicrosPerQuarter: 600_000},
		{Tick: 0, MicrosPerQuarter: 400_000},
	})

	require.Len(t, m.Changes(), 1)
	assert.Equal(t, uint32(400_000), m.At(0).MicrosPerQuarter)
}

func TestTempoMapSortsUnorderedChanges(t *testing.T) {
	m := NewTempoMap(480, []TempoChange{
		{Tick: 960, MicrosPerQuarter: 300_000},
		{Tick: 0, MicrosPerQuarter: 500_000},
		{Tick: 480, MicrosPerQuarter: 250_000},
	})

	changes := m.Changes()
	require.Len(t, changes, 3)
	assert.Equal(t, int64(0), changes[0].Tick)
	assert.Equal(t, int64(480), changes[1].Tick)
	assert.Equal(t, int64(960), changes[2].Tick)
}

func TestTempoMapTimeAtWalksSegments(t *testing.T) {
	// 480 ticks at 120 BPM, then the tempo doubles.
	m := NewTempoMap(480, []TempoChange{
		{Tick: 0, MicrosPerQuarter: 500_000},
		{Tick: 480, MicrosPerQuarter: 250_000},
	})

	tests := []struct {
		name string
		tick int64
		want time.Duration
	}{
		{name: "origin", tick: 0, want: 0},
		{name: "negative clamps to zero", tick: -5, want: 0},
		{name: "inside first segment", tick: 240, want: 250 * time.Millisecond},
		{name: "at the change", tick: 480, want: 500 * time.Millisecond},
		{name: "inside second segment", tick: 720, want: 625 * time.Millisecond},
		{name: "one quarter into second segment", tick: 960, want: 750 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.TimeAt(tt.tick))
		})
	}
}

func TestTempoMapTimeAtNeverDecreases(t *testing.T) {
	m := NewTempoMap(96, []TempoChange{
		{Tick: 0, MicrosPerQuarter: 500_000},
		{Tick: 100, MicrosPerQuarter: 1_200_000},
		{Tick: 250, MicrosPerQuarter: 80_000},
		{Tick: 700, MicrosPerQuarter: 500_000},
	})

	prev := m.TimeAt(0)
	for tick := int64(1); tick <= 1000; tick++ {
		cur := m.TimeAt(tick)
		require.GreaterOrEqual(t, cur, prev, "tick %d", tick)
		prev = cur
	}
}

func TestTempoChangeBPM(t *testing.T) {
	assert.InDelta(t, 120.0, TempoChange{MicrosPerQuarter: 500_000}.BPM(), 1e-9)
	assert.InDelta(t, 90.0, TempoChange{MicrosPerQuarter: 666_667}.BPM(), 1e-3)
}
