package rules

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/model"
)

var MelodicLeaps = Check{
	Name:           "leaps",
	Description:    "melodic leaps larger than an octave",
	DefaultEnabled: true,
	Transition: func(in *Input, prev, next model.Slot) []model.HarmonyError {
		var res []model.HarmonyError
		for v := 0; v < in.Score.Voices; v++ {
			from, ok1 := prev.Chord.Voice(v)
			to, ok2 := next.Chord.Voice(v)
			if !ok1 || !ok2 {
				continue
			}
			limit := in.Config.LeapLimit
			if v < len(in.Roles) && in.Roles[v] == Bass {
				limit = in.Config.BassLeapLimit
			}
			size := abs(to.Height() - from.Height())
			if size <= limit {
				continue
			}
			res = append(res, model.HarmonyError{
				Type:     model.LargeLeap,
				Measure:  next.Measure,
				Severity: model.Medium,
				Description: fmt.Sprintf("Large melodic leap of %d semitones in %s (%v to %v)",
					size, in.VoiceName(v), from, to),
				Voice1: model.VoiceRef(v),
			})
		}
		return res
	},
}

// MelodicIntervals also catches the augmented second between the lowered
// sixth and the raised seventh of a minor key.
var MelodicIntervals = Check{
	Name:           "melodic-interval",
	Description:    "melodic tritones, major sevenths and augmented seconds",
	DefaultEnabled: true,
	Transition: func(in *Input, prev, next model.Slot) []model.HarmonyError {
		var res []model.HarmonyError
		for v := 0; v < in.Score.Voices; v++ {
			from, ok1 := prev.Chord.Voice(v)
			to, ok2 := next.Chord.Voice(v)
			if !ok1 || !ok2 {
				continue
			}
			var name string
			severity := model.Medium
			switch size := abs(to.Height() - from.Height()); {
			case size == 6:
				name = "tritone"
			case size == 11:
				name = "major seventh"
			case size == 3 && augmentedSecond(in.Key, from, to):
				name = "augmented second"
				severity = model.High
			default:
				continue
			}
			res = append(res, model.HarmonyError{
				Type:     model.MelodicInterval,
				Measure:  next.Measure,
				Severity: severity,
				Description: fmt.Sprintf("Difficult melodic interval (%s) in %s (%v to %v)",
					name, in.VoiceName(v), from, to),
				Voice1: model.VoiceRef(v),
			})
		}
		return res
	},
}

// augmentedSecond reports whether a step of three semitones joins the sixth
// and the leading tone of a minor key.
func augmentedSecond(key model.Key, from, to model.Pitch) bool {
	if key.Mode != model.Minor {
		return false
	}
	a := (int(from.Class) - int(key.Tonic) + 12) % 12
	b := (int(to.Class) - int(key.Tonic) + 12) % 12
	return a == 8 && b == 11 || a == 11 && b == 8
}

// ConsecutiveLeaps follows each voice through the piece, measuring from note
// to note across rests. Held or repeated notes neither count as a leap nor
// break a run.
var ConsecutiveLeaps = Check{
	Name:           "consecutive-leaps",
	Description:    "runs of leaps in one voice",
	DefaultEnabled: true,
	Score: func(in *Input) []model.HarmonyError {
		var res []model.HarmonyError
		for v := 0; v < in.Score.Voices; v++ {
			var run int
			var last *model.Pitch
			for _, slot := range in.Timeline {
				p, ok := slot.Chord.Voice(v)
				if !ok {
					continue
				}
				if last != nil {
					size := abs(p.Height() - last.Height())
					switch {
					case size == 0:
					case size > in.Config.LeapSize:
						run++
					default:
						run = 0
					}
					if size > 0 && run > in.Config.MaxConsecutiveLeaps {
						res = append(res, model.HarmonyError{
							Type:        model.ConsecutiveLeaps,
							Measure:     slot.Measure,
							Severity:    model.Medium,
							Description: fmt.Sprintf("Too many consecutive leaps (%d) in %s", run, in.VoiceName(v)),
							Voice1:      model.VoiceRef(v),
						})
					}
				}
				pitch := p
				last = &pitch
			}
		}
		return res
	},
}
