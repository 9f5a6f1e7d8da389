package model

import "fmt"

type Mode uint8

const (
	Major Mode = iota
	Minor
)

func (m Mode) String() string {
	if m == Minor {
		return "minor"
	}
	return "major"
}

type Key struct {
	Tonic PitchClass `json:"tonic"`
	Mode  Mode       `json:"mode"`
}

func (k Key) String() string {
	return fmt.Sprintf("%v %v", k.Tonic, k.Mode)
}

// LeadingTone is the pitch class a semitone below the tonic, in both modes.
func (k Key) LeadingTone() PitchClass {
	return PitchClass((int(k.Tonic) + 11) % 12)
}

type TimeSignature struct {
	Beats    int `json:"beats"`
	BeatType int `json:"beat_type"`
}

func DefaultTimeSignature() TimeSignature {
	return TimeSignature{Beats: 4, BeatType: 4}
}

// QuarterLength is the length of one measure in quarter notes.
func (t TimeSignature) QuarterLength() float64 {
	if t.Beats <= 0 || t.BeatType <= 0 {
		return 4
	}
	return float64(t.Beats) * 4 / float64(t.BeatType)
}

func (t TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", t.Beats, t.BeatType)
}

// Chord holds one pitch per voice at a single onset. Index 0 is the highest
// voice (soprano), the last index the lowest (bass). Onset and Duration are
// in quarter notes from the start of the piece.
type Chord struct {
	Onset    float64 `json:"onset"`
	Duration float64 `json:"duration"`
	Pitches  []Pitch `json:"pitches"`
}

// Voice returns the sounding pitch of voice i, false for a rest or a missing voice.
func (c Chord) Voice(i int) (Pitch, bool) {
	if i < 0 || i >= len(c.Pitches) || c.Pitches[i].Rest {
		return Pitch{}, false
	}
	return c.Pitches[i], true
}

func (c Chord) Sounding() int {
	var n int
	for _, p := range c.Pitches {
		if !p.Rest {
			n++
		}
	}
	return n
}

// Heights returns the MIDI numbers of the sounding pitches.
func (c Chord) Heights() []uint8 {
	res := make([]uint8, 0, len(c.Pitches))
	for _, p := range c.Pitches {
		if !p.Rest {
			res = append(res, uint8(p.Height()))
		}
	}
	return res
}

type Measure struct {
	Index  int     `json:"index"`
	Chords []Chord `json:"chords"`
}

type MidiInfo struct {
	LengthSeconds float64  `json:"length"`
	TempoBPM      float64  `json:"tempo"`
	Instruments   []string `json:"instrument_names"`
}

const (
	KeySourceDeclared = "declared"
	KeySourceDetected = "detected"
)

// Score is the loaded piece. It is never modified once an adapter returns it.
type Score struct {
	Title      string        `json:"title,omitempty"`
	Voices     int           `json:"voices"`
	VoiceNames []string      `json:"voice_names,omitempty"`
	Key        *Key          `json:"key,omitempty"`
	KeySource  string        `json:"key_source,omitempty"`
	Time       TimeSignature `json:"time"`
	Measures   []Measure     `json:"measures"`
	MidiInfo   *MidiInfo     `json:"midi_info,omitempty"`
}

// Slot is a chord together with the index of the measure it starts in and
// its position in the whole piece.
type Slot struct {
	Index   int
	Measure int
	Chord   Chord
}

func (s *Score) Timeline() []Slot {
	var res []Slot
	for _, m := range s.Measures {
		for _, c := range m.Chords {
			res = append(res, Slot{Index: len(res), Measure: m.Index, Chord: c})
		}
	}
	return res
}

func (s *Score) HasMeasure(index int) bool {
	for _, m := range s.Measures {
		if m.Index == index {
			return true
		}
	}
	return false
}

func (s *Score) NumChords() int {
	var n int
	for _, m := range s.Measures {
		n += len(m.Chords)
	}
	return n
}
