package score

import (
	"math"
	"sort"
	"time"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// defaultMicrosPerQuarter is the tempo assumed until the first tempo event,
// 500000 microseconds per quarter note (120 BPM).
const defaultMicrosPerQuarter = 500_000

// Track holds the note events of one MIDI track, sorted by start tick.
type Track []contracts.NoteEvent

// Model is the tick-domain representation of a parsed MIDI file.
type Model struct {
	Title           string
	TicksPerQuarter int64
	Tracks          []Track
	Tempo           *TempoMap
}

// NoteCount reports the total number of note events across all tracks.
func (m *Model) NoteCount() int {
	n := 0
	for _, t := range m.Tracks {
		n += len(t)
	}
	return n
}

// LastTick reports the largest end tick across all tracks, or zero for an
// empty model.
func (m *Model) LastTick() int64 {
	var last int64
	for _, t := range m.Tracks {
		for _, ev := range t {
			if ev.EndTick > last {
				last = ev.EndTick
			}
		}
	}
	return last
}

// TempoChange sets the tempo from Tick onward.
type TempoChange struct {
	Tick             int64
	MicrosPerQuarter uint32
}

// BPM converts the tempo to beats per minute, for logs.
func (c TempoChange) BPM() float64 {
	return 60_000_000 / float64(c.MicrosPerQuarter)
}

// TempoMap converts ticks to wall-clock time across tempo changes. A tempo
// change takes effect exactly at its tick, so a note spanning a change
// accumulates time under each tempo proportionally.
type TempoMap struct {
	ticksPerQuarter int64
	changes         []TempoChange
	// elapsed[i] is the number of microseconds from tick zero to
	// changes[i].Tick, walking every earlier segment at its own tempo.
	elapsed []float64
}

// NewTempoMap normalizes raw tempo changes into a queryable map. Changes are
// ordered by tick, a later change at the same tick replaces the earlier one,
// and a default tempo is inserted at tick zero when the file sets none.
func NewTempoMap(ticksPerQuarter int64, changes []TempoChange) *TempoMap {
	sorted := make([]TempoChange, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick < sorted[j].Tick
	})

	normalized := make([]TempoChange, 0, len(sorted)+1)
	for _, c := range sorted {
		if n := len(normalized); n > 0 && normalized[n-1].Tick == c.Tick {
			normalized[n-1] = c
			continue
		}
		normalized = append(normalized, c)
	}
	if len(normalized) == 0 || normalized[0].Tick > 0 {
		normalized = append([]TempoChange{{Tick: 0, MicrosPerQuarter: defaultMicrosPerQuarter}}, normalized...)
	}

	elapsed := make([]float64, len(normalized))
	for i := 1; i < len(normalized); i++ {
		span := normalized[i].Tick - normalized[i-1].Tick
		elapsed[i] = elapsed[i-1] + float64(span)*float64(normalized[i-1].MicrosPerQuarter)/float64(ticksPerQuarter)
	}

	return &TempoMap{
		ticksPerQuarter: ticksPerQuarter,
		changes:         normalized,
		elapsed:         elapsed,
	}
}

// At returns the tempo in effect at the given tick.
func (m *TempoMap) At(tick int64) TempoChange {
	return m.changes[m.segment(tick)]
}

// Changes returns the normalized tempo changes in tick order.
func (m *TempoMap) Changes() []TempoChange {
	out := make([]TempoChange, len(m.changes))
	copy(out, m.changes)
	return out
}

// TimeAt converts an absolute tick to the wall-clock offset from tick zero,
// rounded to the nearest microsecond.
func (m *TempoMap) TimeAt(tick int64) time.Duration {
	if tick <= 0 {
		return 0
	}

	i := m.segment(tick)
	span := tick - m.changes[i].Tick
	micros := m.elapsed[i] + float64(span)*float64(m.changes[i].MicrosPerQuarter)/float64(m.ticksPerQuarter)
	return time.Duration(math.Round(micros)) * time.Microsecond
}

// segment returns the index of the last change at or before tick.
func (m *TempoMap) segment(tick int64) int {
	// First change whose tick is strictly greater, minus one. The tick-zero
	// entry guarantees the result is never negative.
	i := sort.Search(len(m.changes), func(i int) bool {
		return m.changes[i].Tick > tick
	})
	return i - 1
}
