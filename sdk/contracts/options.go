package contracts

import (
	"fmt"
	"strings"
	"time"
)

// SelectionPolicy chooses one note among simultaneously sounding notes
// during polyphony reduction.
type SelectionPolicy int

const (
	// SelectHighest picks the highest active pitch.
	SelectHighest SelectionPolicy = iota
	// SelectLowest picks the lowest active pitch.
	SelectLowest
	// SelectLoudest picks the active note with the highest velocity.
	SelectLoudest
	// SelectFirstOnset picks the active note that started earliest.
	SelectFirstOnset
	// SelectLastOnset picks the active note that started latest.
	SelectLastOnset
)

// String returns the policy name for logs.
func (p SelectionPolicy) String() string {
	switch p {
	case SelectHighest:
		return "highest"
	case SelectLowest:
		return "lowest"
	case SelectLoudest:
		return "loudest"
	case SelectFirstOnset:
		return "first-onset"
	case SelectLastOnset:
		return "last-onset"
	default:
		return "unknown"
	}
}

// ParseSelectionPolicy resolves a policy name or short alias.
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "highest":
		return SelectHighest, nil
	case "lw", "lowest":
		return SelectLowest, nil
	case "lu", "loudest":
		return SelectLoudest, nil
	case "f", "first", "first-onset":
		return SelectFirstOnset, nil
	case "la", "last", "last-onset":
		return SelectLastOnset, nil
	default:
		return SelectHighest, fmt.Errorf("%w: unknown selection policy %q", ErrConfig, s)
	}
}

// OutOfRangePolicy decides what happens to a pitch that octave shifting
// cannot bring into the instrument range.
type OutOfRangePolicy int

const (
	// OutOfRangeDrop skips the note with a warning.
	OutOfRangeDrop OutOfRangePolicy = iota
	// OutOfRangeClamp snaps the pitch to the nearer range boundary.
	OutOfRangeClamp
)

// String returns the policy name for logs.
func (p OutOfRangePolicy) String() string {
	switch p {
	case OutOfRangeDrop:
		return "drop"
	case OutOfRangeClamp:
		return "clamp"
	default:
		return "unknown"
	}
}

// ParseOutOfRangePolicy resolves an out-of-range policy name.
func ParseOutOfRangePolicy(s string) (OutOfRangePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "drop":
		return OutOfRangeDrop, nil
	case "c", "clamp":
		return OutOfRangeClamp, nil
	default:
		return OutOfRangeDrop, fmt.Errorf("%w: unknown out-of-range policy %q", ErrConfig, s)
	}
}

// ArticulationStyle names a hold-duration preset, or Custom for an explicit
// hold percentage.
type ArticulationStyle int

const (
	// ArticulationPortato holds three quarters of each note.
	ArticulationPortato ArticulationStyle = iota
	// ArticulationLegato holds the full duration so notes run together.
	ArticulationLegato
	// ArticulationTenuto holds nearly the full duration with a minimal gap.
	ArticulationTenuto
	// ArticulationStaccato holds notes short.
	ArticulationStaccato
	// ArticulationStaccatissimo holds notes very short.
	ArticulationStaccatissimo
	// ArticulationCustom uses the configured hold percentage.
	ArticulationCustom
)

// String returns the style name for logs.
func (a ArticulationStyle) String() string {
	switch a {
	case ArticulationPortato:
		return "portato"
	case ArticulationLegato:
		return "legato"
	case ArticulationTenuto:
		return "tenuto"
	case ArticulationStaccato:
		return "staccato"
	case ArticulationStaccatissimo:
		return "staccatissimo"
	case ArticulationCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseArticulationStyle resolves a style name or short alias.
func ParseArticulationStyle(s string) (ArticulationStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "portato", "portamento":
		return ArticulationPortato, nil
	case "l", "legato":
		return ArticulationLegato, nil
	case "t", "tenuto":
		return ArticulationTenuto, nil
	case "s", "staccato":
		return ArticulationStaccato, nil
	case "ss", "staccatissimo":
		return ArticulationStaccatissimo, nil
	case "c", "custom":
		return ArticulationCustom, nil
	default:
		return ArticulationPortato, fmt.Errorf("%w: unknown articulation style %q", ErrConfig, s)
	}
}

// PlayerOptions defines the configuration for a playback run.
type PlayerOptions struct {
	Logger   Logger   // Logger threaded through every stage.
	LogLevel LogLevel // Minimum level to emit.

	Selection      SelectionPolicy   // Polyphony reduction policy.
	OutOfRange     OutOfRangePolicy  // Handling for unmappable pitches.
	Range          PitchRange        // Playable pitch window.
	Transpose      int               // Manual transpose in semitones, applied before octave folding.
	Articulation   ArticulationStyle // Hold-duration preset.
	HoldPercentage float64           // Hold fraction in (0,1]; only valid with ArticulationCustom.
	HoldSet        bool              // Whether HoldPercentage was explicitly provided.
	MergeRepeats   bool              // Rejoin adjacent same-pitch intervals after reduction.

	DelayStart time.Duration // Wait before the first action.
	DryRun     bool          // Substitute a reporting sink and skip all sleeping.
	DryRunMax  int           // Maximum plan entries previewed in dry-run mode.

	SerialPort string // Serial device path; selects the serial engine when set.
	SerialBaud int    // Serial baud rate.
}

// Option is a function that modifies PlayerOptions.
type Option func(*PlayerOptions)

// WithLogger sets the logger used by every pipeline stage.
func WithLogger(l Logger) Option {
	return func(opts *PlayerOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the minimum log level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *PlayerOptions) {
		opts.LogLevel = level
	}
}

// WithSelectionPolicy sets the polyphony reduction policy.
func WithSelectionPolicy(p SelectionPolicy) Option {
	return func(opts *PlayerOptions) {
		opts.Selection = p
	}
}

// WithOutOfRangePolicy sets the handling for pitches that cannot be folded
// into the instrument range.
func WithOutOfRangePolicy(p OutOfRangePolicy) Option {
	return func(opts *PlayerOptions) {
		opts.OutOfRange = p
	}
}

// WithPitchRange overrides the playable pitch window.
func WithPitchRange(r PitchRange) Option {
	return func(opts *PlayerOptions) {
		opts.Range = r
	}
}

// WithTranspose sets the manual transpose in semitones.
func WithTranspose(semitones int) Option {
	return func(opts *PlayerOptions) {
		opts.Transpose = semitones
	}
}

// WithArticulation sets the hold-duration preset.
func WithArticulation(a ArticulationStyle) Option {
	return func(opts *PlayerOptions) {
		opts.Articulation = a
	}
}

// WithHoldPercentage sets the explicit hold fraction for ArticulationCustom.
func WithHoldPercentage(pct float64) Option {
	return func(opts *PlayerOptions) {
		opts.HoldPercentage = pct
		opts.HoldSet = true
	}
}

// WithMergeRepeats rejoins adjacent same-pitch intervals after reduction.
func WithMergeRepeats(merge bool) Option {
	return func(opts *PlayerOptions) {
		opts.MergeRepeats = merge
	}
}

// WithDelayStart waits the given duration before the first action.
func WithDelayStart(d time.Duration) Option {
	return func(opts *PlayerOptions) {
		opts.DelayStart = d
	}
}

// WithDryRun substitutes a reporting sink for the input engine and skips
// all real sleeping.
func WithDryRun(dry bool) Option {
	return func(opts *PlayerOptions) {
		opts.DryRun = dry
	}
}

// WithDryRunMax caps the number of plan entries previewed in dry-run mode.
func WithDryRunMax(n int) Option {
	return func(opts *PlayerOptions) {
		opts.DryRunMax = n
	}
}

// WithSerialPort routes key actions to a hardware actuator on the named
// serial device instead of the OS keyboard.
func WithSerialPort(device string, baud int) Option {
	return func(opts *PlayerOptions) {
		opts.SerialPort = device
		opts.SerialBaud = baud
	}
}
