package rules

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
)

// HarmonicRhythm flags long stretches of one repeated chord and bursts of
// quick chord changes, once per stretch.
var HarmonicRhythm = Check{
	Name:           "harmonic-rhythm",
	Description:    "static harmony and too many rapid chord changes",
	DefaultEnabled: true,
	Score: func(in *Input) []model.HarmonyError {
		var res []model.HarmonyError
		var same, rapid int
		for i := 1; i < len(in.Timeline); i++ {
			prev, next := in.Timeline[i-1], in.Timeline[i]

			if chord.CreateChordKey(prev.Chord.Heights()) == chord.CreateChordKey(next.Chord.Heights()) {
				same++
				if same == in.Config.StaticHarmonyLimit+1 {
					res = append(res, model.HarmonyError{
						Type:        model.HarmonicRhythm,
						Measure:     next.Measure,
						Severity:    model.Low,
						Description: fmt.Sprintf("Static harmony for too long (%d repetitions)", same),
					})
				}
			} else {
				same = 0
			}

			if next.Chord.Onset-prev.Chord.Onset < in.Config.RapidChangeBeats {
				rapid++
				if rapid == in.Config.RapidChangeLimit+1 {
					res = append(res, model.HarmonyError{
						Type:        model.HarmonicRhythm,
						Measure:     next.Measure,
						Severity:    model.Low,
						Description: fmt.Sprintf("Too many rapid chord changes (%d in succession)", rapid),
					})
				}
			} else {
				rapid = 0
			}
		}
		return res
	},
}
