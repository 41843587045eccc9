package contracts

import "time"

// KeyID identifies one physical key as an OS virtual-key code.
type KeyID uint16

// Fingering is the ordered set of keys that produces one pitch on the
// instrument. Keys are pressed in slice order and released in reverse.
type Fingering struct {
	Label string  // Human-readable note name, e.g. "A4 (69)".
	Keys  []KeyID // Press order; the play key comes last.
}

// PitchRange is the closed interval of MIDI pitches the instrument can play.
type PitchRange struct {
	Low  uint8 // Lowest playable MIDI pitch.
	High uint8 // Highest playable MIDI pitch.
}

// Contains reports whether the pitch lies inside the range.
func (r PitchRange) Contains(pitch int) bool {
	return pitch >= int(r.Low) && pitch <= int(r.High)
}

// NoteEvent is one note from the source file, already paired from its
// on/off messages. Notes within a track may overlap.
type NoteEvent struct {
	Pitch     uint8 // MIDI pitch 0-127.
	Velocity  uint8 // NoteOn velocity.
	StartTick int64 // Absolute tick of the NoteOn.
	EndTick   int64 // Absolute tick of the NoteOff.
	Track     int   // Index of the source track.
}

// MelodyInterval is one span of the reduced monophonic line. Intervals from
// the reducer are mutually non-overlapping and ordered by StartTick.
type MelodyInterval struct {
	StartTick int64
	EndTick   int64
	Pitch     uint8
	Velocity  uint8
}

// FingeredInterval pairs a melody interval with its resolved fingering.
// Pitch is the final pitch after transposition and octave folding.
type FingeredInterval struct {
	StartTick int64
	EndTick   int64
	Pitch     uint8
	Fingering Fingering
}

// ArticulatedInterval is a fingered interval with its sounding duration
// shortened to express articulation. HoldEndTick never exceeds the source
// interval's EndTick.
type ArticulatedInterval struct {
	StartTick   int64
	HoldEndTick int64
	Pitch       uint8
	Fingering   Fingering
}

// ActionKind distinguishes the two halves of a keystroke.
type ActionKind uint8

const (
	// Press sends key-down events for all keys of a fingering.
	Press ActionKind = iota
	// Release sends the matching key-up events.
	Release
)

// String returns the action kind name for logs.
func (k ActionKind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// ScheduledAction is one timed keystroke of the playback plan. At is the
// offset from playback start on the monotonic clock. Actions are handed to
// the input engine by value; nothing is shared after dispatch.
type ScheduledAction struct {
	At    time.Duration
	Kind  ActionKind
	Keys  []KeyID
	Label string
}

// PlayState is the lifecycle state of a playback run.
type PlayState int32

const (
	// StateIdle means no playback has been started.
	StateIdle PlayState = iota
	// StateArmed means playback was requested and the start delay is elapsing.
	StateArmed
	// StateRunning means actions are being dispatched.
	StateRunning
	// StateFinished means every action was dispatched.
	StateFinished
	// StateCancelled means playback was stopped before completion.
	StateCancelled
)

// String returns the state name for logs.
func (s PlayState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
