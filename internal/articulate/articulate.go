package articulate

import (
	"fmt"
	"math"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// Preset hold fractions. Legato runs notes into each other, the rest leave
// a widening gap before the next note.
const (
	legatoHold        = 1.0
	tenutoHold        = 0.95
	portatoHold       = 0.75
	staccatoHold      = 0.3
	staccatissimoHold = 0.25
)

// Shaper shortens each interval's sounding span to express articulation.
type Shaper struct {
	style contracts.ArticulationStyle
	hold  float64
	log   contracts.Logger
}

// NewShaper resolves the hold fraction for the style. An explicit hold
// percentage is required with ArticulationCustom and rejected everywhere
// else, so a forgotten style flag cannot silently ignore the percentage.
func NewShaper(style contracts.ArticulationStyle, holdPercentage float64, holdSet bool, log contracts.Logger) (*Shaper, error) {
	if style == contracts.ArticulationCustom {
		if !holdSet {
			return nil, fmt.Errorf("%w: custom articulation requires a hold percentage", contracts.ErrConfig)
		}
		if holdPercentage <= 0 || holdPercentage > 1 {
			return nil, fmt.Errorf("%w: hold percentage %.3f outside (0, 1]", contracts.ErrConfig, holdPercentage)
		}
		return &Shaper{style: style, hold: holdPercentage, log: log}, nil
	}

	if holdSet {
		return nil, fmt.Errorf("%w: hold percentage only applies to custom articulation, not %s", contracts.ErrConfig, style)
	}
	return &Shaper{style: style, hold: presetHold(style), log: log}, nil
}

// Hold returns the resolved hold fraction.
func (s *Shaper) Hold() float64 {
	return s.hold
}

// Shape computes each interval's hold end. A held span never rounds below
// one tick, and when rounding would make consecutive holds overlap the
// later interval starts where the earlier hold ends.
func (s *Shaper) Shape(intervals []contracts.FingeredInterval) []contracts.ArticulatedInterval {
	out := make([]contracts.ArticulatedInterval, 0, len(intervals))

	var prevHoldEnd int64
	for _, iv := range intervals {
		held := int64(math.Round(float64(iv.EndTick-iv.StartTick) * s.hold))
		if held < 1 {
			held = 1
		}
		holdEnd := iv.StartTick + held

		start := iv.StartTick
		if start < prevHoldEnd {
			start = prevHoldEnd
		}
		if holdEnd <= start {
			holdEnd = start + 1
		}

		out = append(out, contracts.ArticulatedInterval{
			StartTick:   start,
			HoldEndTick: holdEnd,
			Pitch:       iv.Pitch,
			Fingering:   iv.Fingering,
		})
		prevHoldEnd = holdEnd
	}

	s.log.Debug("articulated melody",
		s.log.Field().
			Int("intervals", len(out)).
			String("style", s.style.String()).
			Float64("hold", s.hold))

	return out
}

func presetHold(style contracts.ArticulationStyle) float64 {
	switch style {
	case contracts.ArticulationLegato:
		return legatoHold
	case contracts.ArticulationTenuto:
		return tenutoHold
	case contracts.ArticulationStaccato:
		return staccatoHold
	case contracts.ArticulationStaccatissimo:
		return staccatissimoHold
	default:
		return portatoHold
	}
}
