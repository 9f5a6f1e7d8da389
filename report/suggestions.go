package report

import "github.com/jsphweid/harmonycheck/model"

var suggestions = map[model.ErrorType]string{
	model.ParallelFifths:     "Use contrary or oblique motion between the voices",
	model.ParallelOctaves:    "Use contrary or oblique motion between the voices",
	model.HiddenPerfect:      "Approach the perfect interval by contrary motion or by step in the soprano",
	model.VoiceCrossing:      "Keep each voice below the one written above it",
	model.VoiceSpacing:       "Keep adjacent upper voices within an octave and the outer voices within two",
	model.LargeLeap:          "Consider using stepwise motion or smaller intervals",
	model.ConsecutiveLeaps:   "Follow a leap with stepwise motion in the opposite direction",
	model.MelodicInterval:    "Avoid melodic tritones and sevenths; fill the interval with steps",
	model.WeakProgression:    "Consider using stronger chord progressions like V-I",
	model.Cadence:            "End the phrase with an authentic cadence (V-I) on a root-position tonic",
	model.VoiceRange:         "Move the line back into the voice's comfortable range",
	model.DoubledLeadingTone: "Double the root or fifth instead of the leading tone",
	model.HarmonicRhythm:     "Even out the rate of chord change",
	model.ChordPosition:      "Check that the inversion is intended",
	model.RootMotion:         "Vary the root motion with steps and thirds",
}

// Suggestion returns a correction hint for an error type.
func Suggestion(t model.ErrorType) string {
	if s, ok := suggestions[t]; ok {
		return s
	}
	return "Review and revise this section"
}
