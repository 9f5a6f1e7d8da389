package rules

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
)

var VoiceCrossing = Check{
	Name:           "crossing",
	Description:    "a voice sounding below one that is written beneath it",
	DefaultEnabled: true,
	Chord: func(in *Input, slot model.Slot) []model.HarmonyError {
		var res []model.HarmonyError
		for i := 0; i < in.Score.Voices-1; i++ {
			upper, ok := slot.Chord.Voice(i)
			if !ok {
				continue
			}
			for j := i + 1; j < in.Score.Voices; j++ {
				lower, ok := slot.Chord.Voice(j)
				if !ok || upper.Height() >= lower.Height() {
					continue
				}
				res = append(res, model.HarmonyError{
					Type:     model.VoiceCrossing,
					Measure:  slot.Measure,
					Severity: model.Medium,
					Description: fmt.Sprintf("%s (%v) crosses below %s (%v)",
						capitalize(in.VoiceName(i)), upper, in.VoiceName(j), lower),
					Voice1: model.VoiceRef(i),
					Voice2: model.VoiceRef(j),
				})
			}
		}
		return res
	},
}

// Spacing looks at adjacent upper voices only; the gap above the bass may
// exceed an octave.
var Spacing = Check{
	Name:           "spacing",
	Description:    "more than an octave between adjacent upper voices",
	DefaultEnabled: true,
	Chord: func(in *Input, slot model.Slot) []model.HarmonyError {
		var res []model.HarmonyError
		for i := 0; i+1 < in.Score.Voices-1; i++ {
			upper, ok1 := slot.Chord.Voice(i)
			lower, ok2 := slot.Chord.Voice(i + 1)
			if !ok1 || !ok2 {
				continue
			}
			gap := upper.Height() - lower.Height()
			if gap <= in.Config.SpacingLimit {
				continue
			}
			res = append(res, model.HarmonyError{
				Type:     model.VoiceSpacing,
				Measure:  slot.Measure,
				Severity: model.Low,
				Description: fmt.Sprintf("Excessive spacing of %d semitones between %s and %s",
					gap, in.VoiceName(i), in.VoiceName(i+1)),
				Voice1: model.VoiceRef(i),
				Voice2: model.VoiceRef(i + 1),
			})
		}
		return res
	},
}

var OuterSpacing = Check{
	Name:           "outer-spacing",
	Description:    "more than two octaves between soprano and bass",
	DefaultEnabled: true,
	Chord: func(in *Input, slot model.Slot) []model.HarmonyError {
		bass := in.Score.Voices - 1
		upper, ok1 := slot.Chord.Voice(0)
		lower, ok2 := slot.Chord.Voice(bass)
		if bass < 1 || !ok1 || !ok2 {
			return nil
		}
		gap := upper.Height() - lower.Height()
		if gap <= in.Config.OuterSpacingLimit {
			return nil
		}
		return []model.HarmonyError{{
			Type:        model.VoiceSpacing,
			Measure:     slot.Measure,
			Severity:    model.Low,
			Description: fmt.Sprintf("Total voice spacing of %d semitones exceeds two octaves", gap),
			Voice1:      model.VoiceRef(0),
			Voice2:      model.VoiceRef(bass),
		}}
	},
}

// VoiceRanges reports a note once, where it starts.
var VoiceRanges = Check{
	Name:           "range",
	Description:    "notes outside the traditional range of their voice",
	DefaultEnabled: true,
	Chord: func(in *Input, slot model.Slot) []model.HarmonyError {
		var res []model.HarmonyError
		for i := 0; i < in.Score.Voices; i++ {
			p, ok := slot.Chord.Voice(i)
			if !ok || i >= len(in.Roles) {
				continue
			}
			r, ok := in.Config.Ranges[in.Roles[i]]
			if !ok {
				continue
			}
			if slot.Index > 0 {
				if prev, ok := in.Timeline[slot.Index-1].Chord.Voice(i); ok && prev == p {
					continue
				}
			}
			var where string
			switch {
			case p.Height() < r.Low:
				where = "below"
			case p.Height() > r.High:
				where = "above"
			default:
				continue
			}
			res = append(res, model.HarmonyError{
				Type:     model.VoiceRange,
				Measure:  slot.Measure,
				Severity: model.Low,
				Description: fmt.Sprintf("%s voice %s traditional range (%v, range %v-%v)",
					capitalize(in.VoiceName(i)), where, p, model.PitchFromHeight(r.Low), model.PitchFromHeight(r.High)),
				Voice1: model.VoiceRef(i),
			})
		}
		return res
	},
}

var LeadingToneDoubling = Check{
	Name:           "leading-tone",
	Description:    "the leading tone in more than one voice",
	DefaultEnabled: true,
	Chord: func(in *Input, slot model.Slot) []model.HarmonyError {
		leading := in.Key.LeadingTone()
		var count int
		for _, p := range slot.Chord.Pitches {
			if !p.Rest && p.Class == leading {
				count++
			}
		}
		if count < 2 {
			return nil
		}
		return []model.HarmonyError{{
			Type:        model.DoubledLeadingTone,
			Measure:     slot.Measure,
			Severity:    model.High,
			Description: fmt.Sprintf("Leading tone (%v) appears in %d voices", leading, count),
		}}
	},
}

// ChordPositions is off unless enabled in the configuration.
var ChordPositions = Check{
	Name:        "chord-position",
	Description: "chords not in root position",
	Chord: func(in *Input, slot model.Slot) []model.HarmonyError {
		info := chord.Analyze(slot.Chord)
		if !info.Known || info.Inversion == 0 {
			return nil
		}
		label := fmt.Sprintf("%v %v", info.Root, info.Quality)
		if fn, ok := in.Classifier.Classify(in.Key, info); ok {
			label = fn.Label()
		}
		return []model.HarmonyError{{
			Type:        model.ChordPosition,
			Measure:     slot.Measure,
			Severity:    model.Low,
			Description: fmt.Sprintf("Non-root position chord: %s", label),
		}}
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
