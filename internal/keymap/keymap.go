package keymap

import (
	"fmt"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// maxOctaveShifts bounds the octave folding loop. Eight octaves exceed the
// full MIDI pitch span, so a pitch that is still outside the range after
// this many shifts can never be folded in.
const maxOctaveShifts = 8

// Mapper translates melody pitches into flute fingerings, folding pitches
// outside the playable range by whole octaves first.
type Mapper struct {
	table      map[uint8]contracts.Fingering
	rng        contracts.PitchRange
	transpose  int
	outOfRange contracts.OutOfRangePolicy
	log        contracts.Logger
	warns      *contracts.Warnings
}

// NewMapper validates that the fingering table covers every pitch in the
// configured range, so a missing fingering during mapping indicates a
// corrupted table rather than bad input.
func NewMapper(table map[uint8]contracts.Fingering, rng contracts.PitchRange, transpose int, outOfRange contracts.OutOfRangePolicy, log contracts.Logger, warns *contracts.Warnings) (*Mapper, error) {
	if rng.Low > rng.High {
		return nil, fmt.Errorf("%w: pitch range %d-%d is inverted", contracts.ErrConfig, rng.Low, rng.High)
	}
	for p := int(rng.Low); p <= int(rng.High); p++ {
		if _, ok := table[uint8(p)]; !ok {
			return nil, fmt.Errorf("%w: fingering table has no entry for in-range pitch %d", contracts.ErrConfig, p)
		}
	}

	return &Mapper{
		table:      table,
		rng:        rng,
		transpose:  transpose,
		outOfRange: outOfRange,
		log:        log,
		warns:      warns,
	}, nil
}

// AllKeys returns the union of keys the mapper's table can press.
func (m *Mapper) AllKeys() []contracts.KeyID {
	return AllKeys(m.table)
}

// Map assigns a fingering to every melody interval. The transpose is applied
// once, then out-of-range pitches are shifted by octaves toward the range.
// Pitches that cannot be folded in are dropped or clamped per the policy.
func (m *Mapper) Map(intervals []contracts.MelodyInterval) ([]contracts.FingeredInterval, error) {
	out := make([]contracts.FingeredInterval, 0, len(intervals))
	dropped := 0

	for _, iv := range intervals {
		pitch := int(iv.Pitch) + m.transpose

		folded, ok := m.fold(pitch)
		if !ok {
			switch m.outOfRange {
			case contracts.OutOfRangeClamp:
				clamped := int(m.rng.Low)
				if pitch > int(m.rng.High) {
					clamped = int(m.rng.High)
				}
				m.warns.Addf("keymap", "clamping unfoldable pitch %d to %d at tick %d", pitch, clamped, iv.StartTick)
				folded = clamped
			default:
				m.warns.Addf("keymap", "dropping unfoldable pitch %d at tick %d", pitch, iv.StartTick)
				dropped++
				continue
			}
		}

		f, ok := m.table[uint8(folded)]
		if !ok {
			return nil, fmt.Errorf("%w: pitch %d inside range %d-%d", contracts.ErrMissingFingering, folded, m.rng.Low, m.rng.High)
		}

		out = append(out, contracts.FingeredInterval{
			StartTick: iv.StartTick,
			EndTick:   iv.EndTick,
			Pitch:     uint8(folded),
			Fingering: f,
		})
	}

	m.log.Debug("mapped melody to fingerings",
		m.log.Field().
			Int("intervals", len(intervals)).
			Int("mapped", len(out)).
			Int("dropped", dropped).
			Int("transpose", m.transpose))

	return out, nil
}

// fold shifts the pitch by octaves toward the range. The second return is
// false when the pitch cannot be brought inside, and the pitch comes back
// unchanged for the caller's message.
func (m *Mapper) fold(pitch int) (int, bool) {
	folded := pitch
	for i := 0; i < maxOctaveShifts && !m.rng.Contains(folded); i++ {
		if folded < int(m.rng.Low) {
			folded += 12
		} else {
			folded -= 12
		}
	}
	if m.rng.Contains(folded) {
		return folded, true
	}
	return pitch, false
}
