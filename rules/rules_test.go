package rules

import (
	"testing"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/scoretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(c Check, s *model.Score) Result {
	return Run(c, NewInput(s, DefaultConfig(), nil))
}

func runWith(c Check, s *model.Score, cfg Config) Result {
	return Run(c, NewInput(s, cfg, nil))
}

func assertVoices(t *testing.T, f model.HarmonyError, v1, v2 int) {
	t.Helper()
	a, b := f.Voices()
	assert.Equal(t, v1, a)
	assert.Equal(t, v2, b)
}

// I IV V I, voiced without any errors
var cleanCadence = []string{
	"C5 G4 E4 C3",
	"C5 A4 F4 F3",
	"B4 G4 D4 G3",
	"C5 G4 E4 C3",
}

func TestCleanProgressionHasNoFindings(t *testing.T) {
	s := scoretest.New("C major", cleanCadence...)
	for _, c := range Default().Enabled(DefaultConfig()) {
		t.Run(c.Name, func(t *testing.T) {
			res := run(c, s)
			assert.Empty(t, res.Findings)
			assert.Empty(t, res.Skipped)
		})
	}
}

func TestParallelFifthsBetweenOuterVoices(t *testing.T) {
	s := scoretest.New("C major", "G4 E4 C4 C3", "A4 F4 A3 D3")
	res := run(ParallelMotion, s)

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert := assert.New(t)
	assert.Equal(model.ParallelFifths, f.Type)
	assert.Equal(model.High, f.Severity)
	assert.Equal(2, f.Measure)
	assertVoices(t, f, 0, 3)
	assert.Contains(f.Description, "soprano and bass")
}

func TestParallelOctaves(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 E4 C3 | D5 F4 F4 D3")
	res := run(ParallelMotion, s)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.ParallelOctaves, res.Findings[0].Type)
	assert.Equal(t, 1, res.Findings[0].Measure)
	assertVoices(t, res.Findings[0], 0, 3)
}

func TestParallelIgnoresContraryMotionAndRests(t *testing.T) {
	assert := assert.New(t)

	// fifth to fifth, bass moving against the soprano
	s := scoretest.New("C major", "G4 E4 C4 C3", "A4 F4 C4 D2")
	assert.Empty(run(ParallelMotion, s).Findings)

	s = scoretest.New("C major", "G4 E4 C4 C3", "A4 F4 A3 r")
	assert.Empty(run(ParallelMotion, s).Findings)
}

func TestSingleChordHasNoMotionFindings(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 E4 C3")
	assert := assert.New(t)
	assert.Empty(run(ParallelMotion, s).Findings)
	assert.Empty(run(MelodicLeaps, s).Findings)
	assert.Empty(run(HiddenPerfects, s).Findings)
	assert.Empty(run(Cadences, s).Findings)
}

func TestVoiceCrossing(t *testing.T) {
	s := scoretest.New("C major", "E4 G4 C4 C3")
	res := run(VoiceCrossing, s)

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, model.VoiceCrossing, f.Type)
	assert.Equal(t, model.Medium, f.Severity)
	assertVoices(t, f, 0, 1)
}

func TestSpacingSkipsTheBass(t *testing.T) {
	assert := assert.New(t)

	res := run(Spacing, scoretest.New("C major", "E6 C5 E4 C3"))
	require.Len(t, res.Findings, 1)
	assert.Equal(model.VoiceSpacing, res.Findings[0].Type)
	assert.Equal(model.Low, res.Findings[0].Severity)
	assertVoices(t, res.Findings[0], 0, 1)

	res = run(Spacing, scoretest.New("C major", "C5 G4 E4 C2"))
	assert.Empty(res.Findings)
}

func TestLargeLeap(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 E4 C3", "E6 G4 E4 C3")
	res := run(MelodicLeaps, s)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.LargeLeap, res.Findings[0].Type)
	assert.Equal(t, model.Medium, res.Findings[0].Severity)
	assertVoices(t, res.Findings[0], 0, -1)

	cfg := DefaultConfig()
	cfg.LeapLimit = 16
	assert.Empty(t, runWith(MelodicLeaps, s, cfg).Findings)
}

func TestBassLeapLimit(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 E4 C4", "C5 G4 E4 C2")
	assert.Len(t, run(MelodicLeaps, s).Findings, 1)

	cfg := DefaultConfig()
	cfg.BassLeapLimit = 24
	assert.Empty(t, runWith(MelodicLeaps, s, cfg).Findings)
}

func TestVoiceRangeReportsHeldNotesOnce(t *testing.T) {
	s := scoretest.New("C major", "A5 G4 E4 C3 | A5 G4 E4 C3")
	res := run(VoiceRanges, s)

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, model.VoiceRange, f.Type)
	assert.Equal(t, model.Low, f.Severity)
	assert.Contains(t, f.Description, "above")
	assertVoices(t, f, 0, -1)
}

func TestHiddenOctave(t *testing.T) {
	s := scoretest.New("C major", "E5 G4 C4 C3", "G5 B4 D4 G3")
	res := run(HiddenPerfects, s)

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, model.HiddenPerfect, f.Type)
	assert.Equal(t, model.Medium, f.Severity)
	assert.Equal(t, 2, f.Measure)
	assertVoices(t, f, 0, 3)
	assert.Empty(t, run(ParallelMotion, s).Findings)
}

func TestHiddenLeapOnly(t *testing.T) {
	s := scoretest.New("C major", "B4 G4 D4 G3", "C5 G4 E4 C4")
	assert.Len(t, run(HiddenPerfects, s).Findings, 1)

	cfg := DefaultConfig()
	cfg.HiddenLeapOnly = true
	assert.Empty(t, runWith(HiddenPerfects, s, cfg).Findings)
}

func TestWeakProgression(t *testing.T) {
	s := scoretest.New("C major", "B4 G4 D4 G3", "C5 A4 F4 F3")
	res := run(WeakProgressions, s)

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, model.WeakProgression, f.Type)
	assert.Equal(t, model.Medium, f.Severity)
	assert.Equal(t, "V-IV progression (retrograde)", f.Description)

	cfg := DefaultConfig()
	cfg.WeakProgressions = []Progression{{From: 1, To: 5}}
	assert.Empty(t, runWith(WeakProgressions, s, cfg).Findings)
}

func TestCadences(t *testing.T) {
	cases := []struct {
		name        string
		chords      []string
		description string
	}{
		{"authentic", []string{"B4 G4 D4 G3", "C5 G4 E4 C3"}, ""},
		{"plagal", []string{"C5 A4 F4 F3", "C5 G4 E4 C3"}, ""},
		{"leading tone", []string{"B4 F4 D4 B2", "C5 E4 E4 C3"}, ""},
		{"half", []string{"C5 G4 E4 C3", "B4 G4 D4 G3"}, "Non-standard final cadence (I-V)"},
		{"inverted tonic", []string{"B4 G4 D4 G3", "C5 G4 C4 E3"}, "Final chord not in root position (I6)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(Cadences, scoretest.New("C major", tc.chords...))
			if tc.description == "" {
				assert.Empty(t, res.Findings)
				return
			}
			require.Len(t, res.Findings, 1)
			assert.Equal(t, model.Cadence, res.Findings[0].Type)
			assert.Equal(t, model.High, res.Findings[0].Severity)
			assert.Equal(t, 2, res.Findings[0].Measure)
			assert.Equal(t, tc.description, res.Findings[0].Description)
		})
	}
}

func TestMinorKeyCadence(t *testing.T) {
	s := scoretest.New("A minor", "B4 G#4 E4 E3", "C5 A4 E4 A2")
	assert.Empty(t, run(Cadences, s).Findings)
}

func TestDoubledLeadingTone(t *testing.T) {
	res := run(LeadingToneDoubling, scoretest.New("C major", "B4 G4 D4 B2"))
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.DoubledLeadingTone, res.Findings[0].Type)
	assert.Equal(t, model.High, res.Findings[0].Severity)
}

func TestConsecutiveLeaps(t *testing.T) {
	s := scoretest.New("C major", "C5 C3", "G5 C3", "C5 C3", "G5 C3")
	res := run(ConsecutiveLeaps, s)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.ConsecutiveLeaps, res.Findings[0].Type)
	assert.Equal(t, 4, res.Findings[0].Measure)
	assertVoices(t, res.Findings[0], 0, -1)
}

func TestConsecutiveLeapsCountAcrossRests(t *testing.T) {
	s := scoretest.New("C major", "C5 C3", "G5 C3", "r C3", "C5 C3", "G5 C3")
	res := run(ConsecutiveLeaps, s)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, 5, res.Findings[0].Measure)
	assert.Contains(t, res.Findings[0].Description, "(3)")
}

func TestMelodicTritone(t *testing.T) {
	res := run(MelodicIntervals, scoretest.New("C major", "F4 C3", "B4 C3"))
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.MelodicInterval, res.Findings[0].Type)
	assert.Contains(t, res.Findings[0].Description, "tritone")
}

func TestAugmentedSecondInMinor(t *testing.T) {
	s := scoretest.New("A minor", "F5 A3", "G#5 A3", "F5 A3")
	res := run(MelodicIntervals, s)

	require.Len(t, res.Findings, 2)
	for _, f := range res.Findings {
		assert.Equal(t, model.MelodicInterval, f.Type)
		assert.Equal(t, model.High, f.Severity)
		assert.Contains(t, f.Description, "augmented second")
		assertVoices(t, f, 0, -1)
	}

	// the same pitches are a minor third in a major key
	assert.Empty(t, run(MelodicIntervals, scoretest.New("F major", "F5 A3", "G#5 A3")).Findings)
	// a minor third elsewhere in a minor key
	assert.Empty(t, run(MelodicIntervals, scoretest.New("A minor", "A4 A3", "C5 A3")).Findings)
}

func TestOuterSpacing(t *testing.T) {
	res := run(OuterSpacing, scoretest.New("C major", "E5 G4 E4 C3", "C5 G4 E4 C3"))
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.VoiceSpacing, res.Findings[0].Type)
	assert.Equal(t, model.Low, res.Findings[0].Severity)
	assert.Equal(t, 1, res.Findings[0].Measure)
	assertVoices(t, res.Findings[0], 0, 3)

	cfg := DefaultConfig()
	cfg.OuterSpacingLimit = 28
	assert.Empty(t, runWith(OuterSpacing, scoretest.New("C major", "E5 G4 E4 C3"), cfg).Findings)
}

func TestRootMotionIsOptIn(t *testing.T) {
	var names []string
	for _, c := range Default().Enabled(DefaultConfig()) {
		names = append(names, c.Name)
	}
	assert.NotContains(t, names, RootMotions.Name)

	res := run(RootMotions, scoretest.New("C major", cleanCadence...))
	require.Len(t, res.Findings, 2)
	assert.Equal(t, model.RootMotion, res.Findings[0].Type)
	assert.Equal(t, "Root motion by a fifth (C to F)", res.Findings[0].Description)
	assert.Equal(t, 2, res.Findings[0].Measure)
	assert.Equal(t, "Root motion by a fifth (G to C)", res.Findings[1].Description)
	assert.Equal(t, 4, res.Findings[1].Measure)
}

func TestStaticHarmony(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 E4 C3 | C5 G4 E4 C3 | C5 G4 E4 C3 | C5 G4 E4 C3", "C5 G4 E4 C3 | C5 G4 E4 C3")
	res := run(HarmonicRhythm, s)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.HarmonicRhythm, res.Findings[0].Type)
	assert.Equal(t, 2, res.Findings[0].Measure)
	assert.Contains(t, res.Findings[0].Description, "Static harmony")
}

func TestRapidChanges(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 E4 C3 | D5 G4 F4 B2 | C5 G4 E4 C3 | D5 G4 F4 B2 | C5 G4 E4 C3")
	for i := range s.Measures[0].Chords {
		s.Measures[0].Chords[i].Onset = float64(i) / 2
	}
	res := run(HarmonicRhythm, s)

	require.Len(t, res.Findings, 1)
	assert.Contains(t, res.Findings[0].Description, "rapid chord changes")
}

func TestChordPositionIsOptIn(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 C4 E3")
	var names []string
	for _, c := range Default().Enabled(DefaultConfig()) {
		names = append(names, c.Name)
	}
	assert.NotContains(t, names, ChordPositions.Name)

	res := run(ChordPositions, s)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "Non-root position chord: I6", res.Findings[0].Description)
}

func TestRunSkipsIncompleteChords(t *testing.T) {
	s := scoretest.New("C major", "C5 G4 E4 C3", "C5 G4", "C5 G4 E4 C3")

	res := run(VoiceCrossing, s)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Measure)
	assert.Equal(t, "crossing", res.Skipped[0].Check)

	res = run(ParallelMotion, s)
	assert.Len(t, res.Skipped, 2)
	for _, skip := range res.Skipped {
		assert.NotEqual(t, 1, skip.Measure)
	}
}

func TestRunContainsPanics(t *testing.T) {
	c := Check{
		Name: "flaky",
		Chord: func(in *Input, slot model.Slot) []model.HarmonyError {
			if slot.Measure == 2 {
				panic("boom")
			}
			return []model.HarmonyError{{Type: model.VoiceSpacing, Measure: slot.Measure}}
		},
	}
	s := scoretest.New("C major", "C5 G4 E4 C3", "C5 G4 E4 C3", "C5 G4 E4 C3")
	res := run(c, s)

	assert := assert.New(t)
	assert.Len(res.Findings, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(2, res.Skipped[0].Measure)
	assert.Contains(res.Skipped[0].Reason, "boom")
}

func TestWholeScorePanicSkipsMeasureZero(t *testing.T) {
	c := Check{
		Name:  "broken",
		Score: func(in *Input) []model.HarmonyError { panic("nope") },
	}
	res := run(c, scoretest.New("C major", "C5 G4 E4 C3"))
	assert.Empty(t, res.Findings)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 0, res.Skipped[0].Measure)
}

func TestRegistry(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry(VoiceCrossing)
	assert.Error(r.Register(VoiceCrossing))
	assert.Error(r.Register(Check{Name: "empty"}))
	assert.Error(r.Register(Check{Chord: VoiceCrossing.Chord}))
	assert.NoError(r.Register(Spacing))
	assert.Equal([]string{"crossing", "spacing"}, r.Names())

	cfg := DefaultConfig()
	cfg.Checks = map[string]bool{"crossing": false}
	enabled := r.Enabled(cfg)
	require.Len(t, enabled, 1)
	assert.Equal("spacing", enabled[0].Name)

	assert.Len(Default().Checks(), 15)
	cfg.Checks = map[string]bool{"chord-position": true}
	assert.Len(Default().Enabled(cfg), 14)
}

func TestRoles(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]Role{Soprano, Alto, Tenor, Bass}, Roles(4))
	assert.Equal([]Role{Soprano, Bass}, Roles(2))
	assert.Equal([]Role{Soprano, Alto, Tenor, "", Bass}, Roles(5))
	assert.Equal([]Role{Soprano}, Roles(1))
}
