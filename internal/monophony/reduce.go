package monophony

import (
	"sort"

	"github.com/0xTas/FLUTE-WELL/internal/score"
	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// boundary is one note edge on the merged timeline.
type boundary struct {
	tick int64
	on   bool
	note contracts.NoteEvent
}

// Reduce collapses the note events of all tracks into one non-overlapping
// monophonic sequence. It sweeps every note edge in tick order, recomputes
// the set of sounding notes at each edge, and keeps the note the policy
// selects. Every edge closes the open interval even when the selected pitch
// does not change, so interval boundaries always coincide with note edges.
func Reduce(tracks []score.Track, policy contracts.SelectionPolicy, mergeRepeats bool, log contracts.Logger, warns *contracts.Warnings) []contracts.MelodyInterval {
	var edges []boundary
	for _, tr := range tracks {
		for _, n := range tr {
			if n.EndTick <= n.StartTick {
				warns.Addf("reduce", "dropping note %d with non-positive duration at tick %d", n.Pitch, n.StartTick)
				continue
			}
			edges = append(edges,
				boundary{tick: n.StartTick, on: true, note: n},
				boundary{tick: n.EndTick, on: false, note: n},
			)
		}
	}
	if len(edges) == 0 {
		return nil
	}

	// Offs sort before ons at the same tick so a note ending exactly where
	// another starts never counts as overlap.
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].tick != edges[j].tick {
			return edges[i].tick < edges[j].tick
		}
		return !edges[i].on && edges[j].on
	})

	var (
		out       []contracts.MelodyInterval
		active    []contracts.NoteEvent
		open      bool
		openStart int64
		openNote  contracts.NoteEvent
	)

	for i := 0; i < len(edges); {
		tick := edges[i].tick
		for i < len(edges) && edges[i].tick == tick {
			if edges[i].on {
				active = append(active, edges[i].note)
			} else {
				active = removeNote(active, edges[i].note)
			}
			i++
		}

		if open && tick > openStart {
			out = append(out, contracts.MelodyInterval{
				StartTick: openStart,
				EndTick:   tick,
				Pitch:     openNote.Pitch,
				Velocity:  openNote.Velocity,
			})
		}
		open = false

		if len(active) > 0 {
			openNote = selectWinner(active, policy)
			openStart = tick
			open = true
		}
	}

	if mergeRepeats {
		out = mergeAdjacent(out)
	}

	log.Debug("reduced to monophonic melody",
		log.Field().
			Int("edges", len(edges)).
			Int("intervals", len(out)).
			String("policy", policy.String()))

	return out
}

// removeNote drops one instance of the given note from the active set.
func removeNote(active []contracts.NoteEvent, n contracts.NoteEvent) []contracts.NoteEvent {
	for i, a := range active {
		if a == n {
			return append(active[:i], active[i+1:]...)
		}
	}
	return active
}

// selectWinner picks the sounding note the policy prefers. The first note
// wins a complete tie, which only occurs between indistinguishable notes.
func selectWinner(active []contracts.NoteEvent, policy contracts.SelectionPolicy) contracts.NoteEvent {
	winner := active[0]
	for _, n := range active[1:] {
		if beats(n, winner, policy) {
			winner = n
		}
	}
	return winner
}

// beats reports whether a strictly outranks b under the policy.
func beats(a, b contracts.NoteEvent, policy contracts.SelectionPolicy) bool {
	switch policy {
	case contracts.SelectLowest:
		if a.Pitch != b.Pitch {
			return a.Pitch < b.Pitch
		}
		return beatsByOnsetThenTrack(a, b)

	case contracts.SelectLoudest:
		if a.Velocity != b.Velocity {
			return a.Velocity > b.Velocity
		}
		if a.StartTick != b.StartTick {
			return a.StartTick < b.StartTick
		}
		if a.Track != b.Track {
			return a.Track < b.Track
		}
		return a.Pitch < b.Pitch

	case contracts.SelectFirstOnset:
		if a.StartTick != b.StartTick {
			return a.StartTick < b.StartTick
		}
		return beatsByTrackThenPitch(a, b)

	case contracts.SelectLastOnset:
		if a.StartTick != b.StartTick {
			return a.StartTick > b.StartTick
		}
		return beatsByTrackThenPitch(a, b)

	default: // SelectHighest
		if a.Pitch != b.Pitch {
			return a.Pitch > b.Pitch
		}
		return beatsByOnsetThenTrack(a, b)
	}
}

func beatsByOnsetThenTrack(a, b contracts.NoteEvent) bool {
	if a.StartTick != b.StartTick {
		return a.StartTick < b.StartTick
	}
	return a.Track < b.Track
}

func beatsByTrackThenPitch(a, b contracts.NoteEvent) bool {
	if a.Track != b.Track {
		return a.Track < b.Track
	}
	return a.Pitch < b.Pitch
}

// mergeAdjacent rejoins consecutive intervals of the same pitch that touch
// exactly, undoing the splits the boundary sweep introduces for repeated
// or sustained notes.
func mergeAdjacent(intervals []contracts.MelodyInterval) []contracts.MelodyInterval {
	if len(intervals) < 2 {
		return intervals
	}

	out := intervals[:1]
	for _, iv := range intervals[1:] {
		last := &out[len(out)-1]
		if iv.Pitch == last.Pitch && iv.StartTick == last.EndTick {
			last.EndTick = iv.EndTick
			continue
		}
		out = append(out, iv)
	}
	return out
}
