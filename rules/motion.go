package rules

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/model"
)

// intervalClass is the harmonic interval between two pitches reduced to
// within an octave, 0 for unisons and octaves.
func intervalClass(a, b model.Pitch) int {
	return abs(a.Height()-b.Height()) % 12
}

func perfectName(class int) string {
	if class == 7 {
		return "fifth"
	}
	return "octave"
}

func isPerfect(class int) bool {
	return class == 0 || class == 7
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type voicePair struct {
	i, j             int
	prevI, prevJ     model.Pitch
	nextI, nextJ     model.Pitch
	motionI, motionJ int
}

// similarMotion reports whether both voices move, in the same direction.
func (p voicePair) similarMotion() bool {
	return p.motionI*p.motionJ > 0
}

func pairAt(prev, next model.Chord, i, j int) (voicePair, bool) {
	pi, ok1 := prev.Voice(i)
	pj, ok2 := prev.Voice(j)
	ni, ok3 := next.Voice(i)
	nj, ok4 := next.Voice(j)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return voicePair{}, false
	}
	return voicePair{
		i: i, j: j,
		prevI: pi, prevJ: pj,
		nextI: ni, nextJ: nj,
		motionI: ni.Height() - pi.Height(),
		motionJ: nj.Height() - pj.Height(),
	}, true
}

var ParallelMotion = Check{
	Name:           "parallel",
	Description:    "parallel fifths and octaves between any two voices",
	DefaultEnabled: true,
	Transition: func(in *Input, prev, next model.Slot) []model.HarmonyError {
		var res []model.HarmonyError
		for i := 0; i < in.Score.Voices-1; i++ {
			for j := i + 1; j < in.Score.Voices; j++ {
				p, ok := pairAt(prev.Chord, next.Chord, i, j)
				if !ok || !p.similarMotion() {
					continue
				}
				before, after := intervalClass(p.prevI, p.prevJ), intervalClass(p.nextI, p.nextJ)
				if !isPerfect(before) || before != after {
					continue
				}
				typ := model.ParallelOctaves
				if after == 7 {
					typ = model.ParallelFifths
				}
				res = append(res, model.HarmonyError{
					Type:     typ,
					Measure:  next.Measure,
					Severity: model.High,
					Description: fmt.Sprintf("Parallel %ss between %s and %s (%v-%v to %v-%v)",
						perfectName(after), in.VoiceName(i), in.VoiceName(j), p.prevI, p.prevJ, p.nextI, p.nextJ),
					Voice1: model.VoiceRef(i),
					Voice2: model.VoiceRef(j),
				})
			}
		}
		return res
	},
}

var HiddenPerfects = Check{
	Name:           "hidden",
	Description:    "similar motion of the outer voices into a perfect fifth or octave",
	DefaultEnabled: true,
	Transition: func(in *Input, prev, next model.Slot) []model.HarmonyError {
		top, bottom := 0, in.Score.Voices-1
		p, ok := pairAt(prev.Chord, next.Chord, top, bottom)
		if !ok || !p.similarMotion() {
			return nil
		}
		before, after := intervalClass(p.prevI, p.prevJ), intervalClass(p.nextI, p.nextJ)
		// same perfect interval on both sides is parallel motion
		if !isPerfect(after) || before == after {
			return nil
		}
		if in.Config.HiddenLeapOnly && abs(p.motionI) <= 2 {
			return nil
		}
		return []model.HarmonyError{{
			Type:     model.HiddenPerfect,
			Measure:  next.Measure,
			Severity: model.Medium,
			Description: fmt.Sprintf("Hidden %s between outer voices (%v-%v)",
				perfectName(after), p.nextI, p.nextJ),
			Voice1: model.VoiceRef(top),
			Voice2: model.VoiceRef(bottom),
		}}
	},
}
