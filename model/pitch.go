package model

import (
	"fmt"
	"strconv"
	"strings"
)

type PitchClass uint8

var pitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var stepClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

func (pc PitchClass) String() string {
	return pitchClassNames[int(pc)%12]
}

// ParsePitchClass accepts a letter followed by any number of '#' or 'b'.
func ParsePitchClass(s string) (PitchClass, error) {
	if s == "" {
		return 0, fmt.Errorf("empty pitch class")
	}
	step, ok := stepClasses[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("invalid pitch class %q", s)
	}
	for _, r := range s[1:] {
		switch r {
		case '#':
			step++
		case 'b':
			step--
		default:
			return 0, fmt.Errorf("invalid pitch class %q", s)
		}
	}
	return PitchClass((step%12 + 12) % 12), nil
}

// Pitch is one voice's sounding note. A Pitch with Rest set marks a silent voice.
type Pitch struct {
	Class  PitchClass `json:"class"`
	Octave int        `json:"octave"`
	Rest   bool       `json:"rest,omitempty"`
}

// Height is the MIDI note number, 60 being middle C (C4).
func (p Pitch) Height() int {
	return (p.Octave+1)*12 + int(p.Class)
}

func (p Pitch) String() string {
	if p.Rest {
		return "r"
	}
	return fmt.Sprintf("%v%d", p.Class, p.Octave)
}

// PitchFromHeight inverts Height for any height, including those below C-1.
func PitchFromHeight(height int) Pitch {
	octave := height / 12
	class := height % 12
	if class < 0 {
		class += 12
		octave--
	}
	return Pitch{Class: PitchClass(class), Octave: octave - 1}
}

func RestPitch() Pitch {
	return Pitch{Rest: true}
}

// ParsePitch reads scientific pitch notation ("C4", "F#3", "Bb2") or "r" for a rest.
// Accidentals belong to the written octave, so "Cb4" sounds as B3.
func ParsePitch(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	if s == "r" || s == "R" {
		return RestPitch(), nil
	}
	i := len(s)
	for i > 0 && (s[i-1] >= '0' && s[i-1] <= '9' || s[i-1] == '-') {
		i--
	}
	if i == 0 || i == len(s) {
		return Pitch{}, fmt.Errorf("invalid pitch %q", s)
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid octave in pitch %q: %w", s, err)
	}
	name := s[:i]
	step, ok := stepClasses[strings.ToUpper(name[:1])[0]]
	if !ok {
		return Pitch{}, fmt.Errorf("invalid pitch %q", s)
	}
	for _, r := range name[1:] {
		switch r {
		case '#':
			step++
		case 'b':
			step--
		default:
			return Pitch{}, fmt.Errorf("invalid pitch %q", s)
		}
	}
	return PitchFromHeight((octave+1)*12 + step), nil
}

func MustParsePitch(s string) Pitch {
	p, err := ParsePitch(s)
	if err != nil {
		panic(err)
	}
	return p
}
