// Package scoretest builds small scores for tests.
package scoretest

import (
	"strings"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/tonal"
)

// Chord parses pitches written top voice first, e.g. "C5 G4 E4 C3". "r"
// is a rest.
func Chord(pitches string) model.Chord {
	var c model.Chord
	for _, f := range strings.Fields(pitches) {
		c.Pitches = append(c.Pitches, model.MustParsePitch(f))
	}
	return c
}

// New builds a 4/4 score in key with one measure per argument. Each
// measure lists its chords, one quarter note each, separated by "|".
//
//	New("C major", "C5 G4 E4 C3 | D5 G4 F4 B2", "C5 G4 E4 C3")
func New(key string, measures ...string) *model.Score {
	s := &model.Score{
		Title: "test",
		Time:  model.DefaultTimeSignature(),
	}
	if key != "" {
		k, err := tonal.ParseKey(key)
		if err != nil {
			panic(err)
		}
		s.Key = &k
		s.KeySource = model.KeySourceDeclared
	}

	var onset float64
	for i, m := range measures {
		measure := model.Measure{Index: i + 1}
		for _, text := range strings.Split(m, "|") {
			if strings.TrimSpace(text) == "" {
				continue
			}
			c := Chord(text)
			c.Onset = onset
			c.Duration = 1
			onset++
			if len(c.Pitches) > s.Voices {
				s.Voices = len(c.Pitches)
			}
			measure.Chords = append(measure.Chords, c)
		}
		s.Measures = append(s.Measures, measure)
		onset = float64(i+1) * s.Time.QuarterLength()
	}
	return s
}
