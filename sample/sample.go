// Package sample renders measures of a score back into a Standard MIDI File,
// one track per voice.
package sample

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const Resolution = 480

const defaultVelocity = 80

type timedMessage struct {
	tick  uint32
	isOff bool
	msg   []byte
}

func channelFor(voice int) uint8 {
	ch := uint8(voice % 15)
	if ch >= 9 {
		// skip the drum channel
		ch++
	}
	return ch
}

// Create writes measures from..to (inclusive, 1-based) of the score.
func Create(s *model.Score, from, to int) (*smf.SMF, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("invalid measure range %d-%d", from, to)
	}
	var slots []model.Slot
	for _, slot := range s.Timeline() {
		if slot.Measure >= from && slot.Measure <= to {
			slots = append(slots, slot)
		}
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("no chords in measures %d-%d", from, to)
	}

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(Resolution)

	tempo := 120.0
	if s.MidiInfo != nil && s.MidiInfo.TempoBPM > 0 {
		tempo = s.MidiInfo.TempoBPM
	}
	time := s.Time
	if time.Beats <= 0 || time.BeatType <= 0 {
		time = model.DefaultTimeSignature()
	}

	var meta smf.Track
	if s.Title != "" {
		meta.Add(0, smf.MetaTrackSequenceName(s.Title))
	}
	meta.Add(0, smf.MetaMeter(uint8(time.Beats), uint8(time.BeatType)))
	meta.Add(0, smf.MetaTempo(tempo))
	meta.Close(0)
	if err := res.Add(meta); err != nil {
		return nil, err
	}

	origin := float64(from-1) * time.QuarterLength()
	toTicks := func(beats float64) uint32 {
		return uint32(math.Round((beats - origin) * Resolution))
	}

	for v := 0; v < s.Voices; v++ {
		var msgs []timedMessage
		ch := channelFor(v)
		var current *model.Pitch
		var end float64
		flush := func() {
			if current != nil {
				msgs = append(msgs, timedMessage{tick: toTicks(end), isOff: true, msg: midi.NoteOff(ch, uint8(current.Height()))})
				current = nil
			}
		}
		for _, slot := range slots {
			p, ok := slot.Chord.Voice(v)
			if !ok {
				flush()
				continue
			}
			// a repeated pitch is held over
			if current != nil && *current == p && end == slot.Chord.Onset {
				end = slot.Chord.Onset + slot.Chord.Duration
				continue
			}
			flush()
			pitch := p
			current = &pitch
			end = slot.Chord.Onset + slot.Chord.Duration
			msgs = append(msgs, timedMessage{tick: toTicks(slot.Chord.Onset), msg: midi.NoteOn(ch, uint8(p.Height()), defaultVelocity)})
		}
		flush()

		sort.SliceStable(msgs, func(i, j int) bool {
			if msgs[i].tick != msgs[j].tick {
				return msgs[i].tick < msgs[j].tick
			}
			return msgs[i].isOff && !msgs[j].isOff
		})

		var track smf.Track
		if v < len(s.VoiceNames) && s.VoiceNames[v] != "" {
			track.Add(0, smf.MetaTrackSequenceName(s.VoiceNames[v]))
		}
		var last uint32
		for _, m := range msgs {
			track.Add(m.tick-util.Min(last, m.tick), m.msg)
			last = m.tick
		}
		track.Close(0)
		if err := res.Add(track); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Bytes encodes the whole score as a MIDI file.
func Bytes(s *model.Score) ([]byte, error) {
	last := 1
	for _, m := range s.Measures {
		if m.Index > last {
			last = m.Index
		}
	}
	mf, err := Create(s, 1, last)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := mf.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
