package score

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

// headerSize is the byte length of a complete MThd chunk.
const headerSize = 14

// ParseFile reads and decodes a Standard MIDI File from disk. The file base
// name becomes the model title unless a track-name event overrides it.
func ParseFile(path string, log contracts.Logger, warns *contracts.Warnings) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(data, base, log, warns)
}

// Parse decodes Standard MIDI File bytes into the tick-domain model. The raw
// container is validated before event decoding so that damaged files fail
// with a classified ParseError instead of an opaque decoder message.
func Parse(data []byte, fallbackTitle string, log contracts.Logger, warns *contracts.Warnings) (*Model, error) {
	if err := scanHeader(data); err != nil {
		return nil, err
	}

	rd, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, contracts.NewParseError(contracts.ErrInvalidEventEncoding, "decode events: %v", err)
	}

	mt, ok := rd.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, contracts.NewParseError(contracts.ErrUnsupportedFormat, "non-metric time division %v", rd.TimeFormat)
	}
	tpq := int64(mt)

	model := &Model{
		Title:           fallbackTitle,
		TicksPerQuarter: tpq,
	}

	var (
		tempoChanges []TempoChange
		titled       bool
	)

	type openNote struct {
		startTick int64
		velocity  uint8
	}

	for trackIdx, tr := range rd.Tracks {
		var (
			abs      int64
			trackEnd int64
			notes    Track
		)
		// Overlapping same-pitch notes on one channel close in LIFO order.
		open := make(map[[2]uint8][]openNote)

		for _, ev := range tr {
			abs += int64(ev.Delta)
			if abs > trackEnd {
				trackEnd = abs
			}

			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				id := [2]uint8{ch, key}
				open[id] = append(open[id], openNote{startTick: abs, velocity: vel})

			case ev.Message.GetNoteEnd(&ch, &key):
				id := [2]uint8{ch, key}
				stack := open[id]
				if len(stack) == 0 {
					log.Debug("ignoring note-off without a matching note-on",
						log.Field().Int("track", trackIdx).Uint8("pitch", key).Int64("tick", abs))
					continue
				}
				n := stack[len(stack)-1]
				open[id] = stack[:len(stack)-1]
				notes = append(notes, contracts.NoteEvent{
					Pitch:     key,
					Velocity:  n.velocity,
					StartTick: n.startTick,
					EndTick:   abs,
					Track:     trackIdx,
				})

			default:
				var bpm float64
				if ev.Message.GetMetaTempo(&bpm) {
					if bpm <= 0 {
						warns.Addf("parse", "ignoring non-positive tempo %.2f BPM at tick %d", bpm, abs)
						continue
					}
					tempoChanges = append(tempoChanges, TempoChange{
						Tick:             abs,
						MicrosPerQuarter: microsPerQuarter(bpm),
					})
					continue
				}

				var name string
				if ev.Message.GetMetaTrackName(&name) && !titled && strings.TrimSpace(name) != "" {
					model.Title = strings.TrimSpace(name)
					titled = true
				}
			}
		}

		// A note-on without a note-off sounds until the end of its track, or
		// one quarter note when the track ends before it begins.
		for id, stack := range open {
			for _, n := range stack {
				end := trackEnd
				if end <= n.startTick {
					end = n.startTick + tpq
				}
				warns.Addf("parse", "note %d on track %d never ends, closing at tick %d", id[1], trackIdx, end)
				notes = append(notes, contracts.NoteEvent{
					Pitch:     id[1],
					Velocity:  n.velocity,
					StartTick: n.startTick,
					EndTick:   end,
					Track:     trackIdx,
				})
			}
		}

		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].StartTick < notes[j].StartTick
		})
		model.Tracks = append(model.Tracks, notes)
	}

	model.Tempo = NewTempoMap(tpq, tempoChanges)

	initial := model.Tempo.At(0)
	log.Debug("parsed midi file",
		log.Field().
			String("title", model.Title).
			Int("tracks", len(model.Tracks)).
			Int("notes", model.NoteCount()).
			Int64("ticks_per_quarter", tpq).
			Int("tempo_changes", len(model.Tempo.Changes())).
			Float64("initial_bpm", initial.BPM()))

	return model, nil
}

// microsPerQuarter converts beats per minute back to the wire tempo unit.
func microsPerQuarter(bpm float64) uint32 {
	return uint32(math.Round(60_000_000 / bpm))
}

// scanHeader validates the raw chunk structure: header identity and size,
// supported format and division, and chunk lengths that stay inside the file.
func scanHeader(data []byte) error {
	if len(data) < headerSize {
		return contracts.NewParseError(contracts.ErrTruncatedData,
			"file is %d bytes, shorter than a complete header", len(data))
	}
	if !bytes.Equal(data[0:4], []byte("MThd")) {
		return contracts.NewParseError(contracts.ErrMalformedHeader, "missing MThd chunk identifier")
	}
	if hlen := binary.BigEndian.Uint32(data[4:8]); hlen != 6 {
		return contracts.NewParseError(contracts.ErrMalformedHeader,
			"header declares %d data bytes, want 6", hlen)
	}

	format := binary.BigEndian.Uint16(data[8:10])
	promised := binary.BigEndian.Uint16(data[10:12])
	division := binary.BigEndian.Uint16(data[12:14])

	if format > 1 {
		return contracts.NewParseError(contracts.ErrUnsupportedFormat,
			"format %d files are not supported", format)
	}
	if division == 0 {
		return contracts.NewParseError(contracts.ErrMalformedHeader, "time division is zero")
	}
	if division&0x8000 != 0 {
		return contracts.NewParseError(contracts.ErrUnsupportedFormat,
			"SMPTE time division is not supported")
	}

	tracks := 0
	offset := headerSize
	for offset < len(data) {
		if len(data)-offset < 8 {
			return contracts.NewParseError(contracts.ErrTruncatedData,
				"dangling %d bytes after last complete chunk", len(data)-offset)
		}
		chunkType := data[offset : offset+4]
		chunkLen := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if chunkLen > len(data)-offset {
			return contracts.NewParseError(contracts.ErrTruncatedData,
				"%s chunk declares %d bytes but only %d remain", chunkType, chunkLen, len(data)-offset)
		}
		if bytes.Equal(chunkType, []byte("MTrk")) {
			tracks++
		}
		offset += chunkLen
	}
	if tracks < int(promised) {
		return contracts.NewParseError(contracts.ErrTruncatedData,
			"header promises %d tracks, found %d", promised, tracks)
	}

	return nil
}
