// Package rules holds the harmony and voice-leading checks and the runner
// that applies them to a score.
//
// A check is a set of pure hooks over a read-only score: per chord, per pair
// of consecutive chords, or once over the whole piece. The runner walks the
// timeline, skips chords that lack voices and contains any failure to the
// measure where it happened.
package rules

import (
	"fmt"
	"log"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/tonal"
)

type Input struct {
	Score      *model.Score
	Key        model.Key
	Classifier tonal.Classifier
	Config     Config
	Timeline   []model.Slot
	Roles      []Role
}

// NewInput prepares a validated score for the checks.
func NewInput(s *model.Score, cfg Config, classifier tonal.Classifier) *Input {
	in := &Input{
		Score:      s,
		Classifier: classifier,
		Config:     cfg,
		Timeline:   s.Timeline(),
		Roles:      Roles(s.Voices),
	}
	if s.Key != nil {
		in.Key = *s.Key
	}
	if in.Classifier == nil {
		in.Classifier = tonal.Diatonic{}
	}
	return in
}

// Complete reports whether a chord carries a pitch or rest for every voice.
func (in *Input) Complete(c model.Chord) bool {
	return len(c.Pitches) >= in.Score.Voices
}

func (in *Input) VoiceName(i int) string {
	if i >= 0 && i < len(in.Roles) && in.Roles[i] != "" {
		return string(in.Roles[i])
	}
	return fmt.Sprintf("voice %d", i+1)
}

type Check struct {
	Name           string
	Description    string
	DefaultEnabled bool

	Chord      func(in *Input, slot model.Slot) []model.HarmonyError
	Transition func(in *Input, prev, next model.Slot) []model.HarmonyError
	Score      func(in *Input) []model.HarmonyError
}

type Result struct {
	Check    string
	Findings []model.HarmonyError
	Skipped  []model.Skip
}

func (r *Result) skip(check string, measure int, reason string) {
	if n := len(r.Skipped); n > 0 && r.Skipped[n-1].Measure == measure && r.Skipped[n-1].Reason == reason {
		return
	}
	log.Printf("check %v skipped measure %v: %v", check, measure, reason)
	r.Skipped = append(r.Skipped, model.Skip{Check: check, Measure: measure, Reason: reason})
}

// Run applies one check to the whole score.
func Run(c Check, in *Input) Result {
	res := Result{Check: c.Name}

	if c.Chord != nil {
		for _, slot := range in.Timeline {
			if !in.Complete(slot.Chord) {
				res.skip(c.Name, slot.Measure, incompleteReason(in, slot.Chord))
				continue
			}
			res.Findings = append(res.Findings, guard(c.Name, slot.Measure, &res, func() []model.HarmonyError {
				return c.Chord(in, slot)
			})...)
		}
	}

	if c.Transition != nil {
		for i := 1; i < len(in.Timeline); i++ {
			prev, next := in.Timeline[i-1], in.Timeline[i]
			if !in.Complete(prev.Chord) || !in.Complete(next.Chord) {
				bad := next.Chord
				if !in.Complete(prev.Chord) {
					bad = prev.Chord
				}
				res.skip(c.Name, next.Measure, incompleteReason(in, bad))
				continue
			}
			res.Findings = append(res.Findings, guard(c.Name, next.Measure, &res, func() []model.HarmonyError {
				return c.Transition(in, prev, next)
			})...)
		}
	}

	if c.Score != nil {
		res.Findings = append(res.Findings, guard(c.Name, 0, &res, func() []model.HarmonyError {
			return c.Score(in)
		})...)
	}

	return res
}

func incompleteReason(in *Input, c model.Chord) string {
	return fmt.Sprintf("chord has %d of %d voices", len(c.Pitches), in.Score.Voices)
}

func guard(check string, measure int, res *Result, fn func() []model.HarmonyError) (found []model.HarmonyError) {
	defer func() {
		if r := recover(); r != nil {
			res.skip(check, measure, fmt.Sprintf("check failed: %v", r))
			found = nil
		}
	}()
	return fn()
}

type Registry struct {
	checks []Check
}

func NewRegistry(checks ...Check) *Registry {
	r := &Registry{}
	for _, c := range checks {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(c Check) error {
	if c.Name == "" {
		return fmt.Errorf("check has no name")
	}
	if c.Chord == nil && c.Transition == nil && c.Score == nil {
		return fmt.Errorf("check %q has no hooks", c.Name)
	}
	for _, existing := range r.checks {
		if existing.Name == c.Name {
			return fmt.Errorf("check %q already registered", c.Name)
		}
	}
	r.checks = append(r.checks, c)
	return nil
}

func (r *Registry) Checks() []Check {
	return append([]Check(nil), r.checks...)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.checks))
	for _, c := range r.checks {
		names = append(names, c.Name)
	}
	return names
}

// Enabled returns the checks switched on by cfg, in registration order.
func (r *Registry) Enabled(cfg Config) []Check {
	var res []Check
	for _, c := range r.checks {
		on := c.DefaultEnabled
		if v, ok := cfg.Checks[c.Name]; ok {
			on = v
		}
		if on {
			res = append(res, c)
		}
	}
	return res
}

// Default registers every built-in check.
func Default() *Registry {
	return NewRegistry(
		ParallelMotion,
		VoiceCrossing,
		Spacing,
		OuterSpacing,
		MelodicLeaps,
		WeakProgressions,
		Cadences,
		VoiceRanges,
		HiddenPerfects,
		ConsecutiveLeaps,
		MelodicIntervals,
		LeadingToneDoubling,
		HarmonicRhythm,
		ChordPositions,
		RootMotions,
	)
}
