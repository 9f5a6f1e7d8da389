package rules

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/tonal"
)

func (in *Input) function(c model.Chord) (tonal.Function, chord.Info, bool) {
	info := chord.Analyze(c)
	fn, ok := in.Classifier.Classify(in.Key, info)
	return fn, info, ok
}

var WeakProgressions = Check{
	Name:           "progression",
	Description:    "chord successions considered weak, such as V-IV",
	DefaultEnabled: true,
	Transition: func(in *Input, prev, next model.Slot) []model.HarmonyError {
		from, _, ok1 := in.function(prev.Chord)
		to, _, ok2 := in.function(next.Chord)
		if !ok1 || !ok2 {
			return nil
		}
		for _, weak := range in.Config.WeakProgressions {
			if weak.From != from.Degree || weak.To != to.Degree {
				continue
			}
			return []model.HarmonyError{{
				Type:        model.WeakProgression,
				Measure:     next.Measure,
				Severity:    model.Medium,
				Description: fmt.Sprintf("%s-%s progression (retrograde)", from.Label(), to.Label()),
			}}
		}
		return nil
	},
}

func isDominant(fn tonal.Function) bool {
	switch fn.Degree {
	case 5:
		return fn.Quality == chord.QualityMajor || fn.Quality == chord.QualityDominantSeventh
	case 7:
		return fn.Quality == chord.QualityDiminished || fn.Quality == chord.QualityDiminishedSeventh ||
			fn.Quality == chord.QualityHalfDiminishedSeventh
	}
	return false
}

// Cadences accepts an authentic (V or vii° to I) or plagal (IV to I) close
// ending on a root-position tonic.
var Cadences = Check{
	Name:           "cadence",
	Description:    "the final two chords must form an authentic or plagal cadence",
	DefaultEnabled: true,
	Score: func(in *Input) []model.HarmonyError {
		n := len(in.Timeline)
		if n < 2 {
			return nil
		}
		penultimate, final := in.Timeline[n-2], in.Timeline[n-1]
		from, fromInfo, ok1 := in.function(penultimate.Chord)
		to, toInfo, ok2 := in.function(final.Chord)

		finding := model.HarmonyError{
			Type:     model.Cadence,
			Measure:  final.Measure,
			Severity: model.High,
		}
		if !ok1 || !ok2 || to.Degree != 1 || !(isDominant(from) || from.Degree == 4) {
			finding.Description = fmt.Sprintf("Non-standard final cadence (%s-%s)",
				describe(from, fromInfo, ok1), describe(to, toInfo, ok2))
			return []model.HarmonyError{finding}
		}
		if !toInfo.RootPosition() {
			finding.Description = fmt.Sprintf("Final chord not in root position (%s)", to.Label())
			return []model.HarmonyError{finding}
		}
		return nil
	},
}

func describe(fn tonal.Function, info chord.Info, ok bool) string {
	if ok {
		return fn.Label()
	}
	if info.Known {
		return fmt.Sprintf("%v %v", info.Root, info.Quality)
	}
	return "?"
}

// RootMotions is off unless enabled in the configuration.
var RootMotions = Check{
	Name:        "root-motion",
	Description: "chord roots moving by a fifth",
	Transition: func(in *Input, prev, next model.Slot) []model.HarmonyError {
		from := chord.Analyze(prev.Chord)
		to := chord.Analyze(next.Chord)
		if !from.Known || !to.Known {
			return nil
		}
		step := (int(to.Root) - int(from.Root) + 12) % 12
		if step != 5 && step != 7 {
			return nil
		}
		return []model.HarmonyError{{
			Type:        model.RootMotion,
			Measure:     next.Measure,
			Severity:    model.Low,
			Description: fmt.Sprintf("Root motion by a fifth (%v to %v)", from.Root, to.Root),
		}}
	},
}
