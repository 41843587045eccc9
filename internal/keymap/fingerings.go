package keymap

import (
	"sort"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// Windows virtual-key codes for the keys the flute uses.
const (
	KeyDigit1  contracts.KeyID = 0x31
	KeyDigit3  contracts.KeyID = 0x33
	KeyNumpad1 contracts.KeyID = 0x61
	KeyNumpad2 contracts.KeyID = 0x62
	KeyNumpad3 contracts.KeyID = 0x63
	KeyNumpad4 contracts.KeyID = 0x64
	KeyNumpad5 contracts.KeyID = 0x65
	KeyNumpad6 contracts.KeyID = 0x66
	KeyNumpad7 contracts.KeyID = 0x67
	KeyNumpad8 contracts.KeyID = 0x68
	KeyNumpad9 contracts.KeyID = 0x69
)

// The flute is steered with the numpad: eight directions select the note,
// numpad five blows, and the digit row holds the octave and semitone
// modifiers.
const (
	DirRight     = KeyNumpad6
	DirDownRight = KeyNumpad3
	DirDown      = KeyNumpad2
	DirDownLeft  = KeyNumpad1
	DirLeft      = KeyNumpad4
	DirUpLeft    = KeyNumpad7
	DirUp        = KeyNumpad8
	DirUpRight   = KeyNumpad9

	PlayKey          = KeyNumpad5
	OctaveModifier   = KeyDigit1
	SemitoneModifier = KeyDigit3
)

// DefaultRange is the playable window of the in-game flute, A4 through A6.
var DefaultRange = contracts.PitchRange{Low: 69, High: 93}

// DefaultTable maps every playable MIDI pitch to its key chord. Keys are
// listed in press order with the play key last, so releasing in reverse
// lets go of the blow before the modifiers.
func DefaultTable() map[uint8]contracts.Fingering {
	return map[uint8]contracts.Fingering{
		69: {Label: "A4 (69)", Keys: keys(OctaveModifier, DirRight, PlayKey)},
		70: {Label: "A#4 (70)", Keys: keys(OctaveModifier, DirRight, SemitoneModifier, PlayKey)},
		71: {Label: "B4 (71)", Keys: keys(OctaveModifier, DirDownRight, PlayKey)},
		72: {Label: "C5 (72)", Keys: keys(OctaveModifier, DirDownRight, SemitoneModifier, PlayKey)},
		73: {Label: "C#5 (73)", Keys: keys(OctaveModifier, DirDown, PlayKey)},
		74: {Label: "D5 (74)", Keys: keys(OctaveModifier, DirDown, SemitoneModifier, PlayKey)},
		75: {Label: "D#5 (75)", Keys: keys(OctaveModifier, DirDownLeft, SemitoneModifier, PlayKey)},
		76: {Label: "E5 (76)", Keys: keys(OctaveModifier, DirLeft, PlayKey)},
		77: {Label: "F5 (77)", Keys: keys(OctaveModifier, DirLeft, SemitoneModifier, PlayKey)},
		78: {Label: "F#5 (78)", Keys: keys(OctaveModifier, DirUpLeft, PlayKey)},
		79: {Label: "G5 (79)", Keys: keys(OctaveModifier, DirUpLeft, SemitoneModifier, PlayKey)},
		80: {Label: "G#5 (80)", Keys: keys(OctaveModifier, DirUp, PlayKey)},
		81: {Label: "A5 (81)", Keys: keys(DirRight, PlayKey)},
		82: {Label: "A#5 (82)", Keys: keys(DirRight, SemitoneModifier, PlayKey)},
		83: {Label: "B5 (83)", Keys: keys(DirDownRight, PlayKey)},
		84: {Label: "C6 (84)", Keys: keys(DirDownRight, SemitoneModifier, PlayKey)},
		85: {Label: "C#6 (85)", Keys: keys(DirDown, PlayKey)},
		86: {Label: "D6 (86)", Keys: keys(DirDown, SemitoneModifier, PlayKey)},
		87: {Label: "D#6 (87)", Keys: keys(DirDownLeft, SemitoneModifier, PlayKey)},
		88: {Label: "E6 (88)", Keys: keys(DirLeft, PlayKey)},
		89: {Label: "F6 (89)", Keys: keys(DirLeft, SemitoneModifier, PlayKey)},
		90: {Label: "F#6 (90)", Keys: keys(DirUpLeft, PlayKey)},
		91: {Label: "G6 (91)", Keys: keys(DirUpLeft, SemitoneModifier, PlayKey)},
		92: {Label: "G#6 (92)", Keys: keys(DirUp, PlayKey)},
		93: {Label: "A6 (93)", Keys: keys(DirUpRight, PlayKey)},
	}
}

func keys(ids ...contracts.KeyID) []contracts.KeyID {
	return ids
}

// AllKeys returns every key any fingering in the table can press, sorted.
// The scheduler releases this union when bailing out of playback.
func AllKeys(table map[uint8]contracts.Fingering) []contracts.KeyID {
	seen := make(map[contracts.KeyID]bool)
	var out []contracts.KeyID
	for _, f := range table {
		for _, k := range f.Keys {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
