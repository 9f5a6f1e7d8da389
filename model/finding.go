package model

import "fmt"

type Severity uint8

const (
	Low Severity = iota
	Medium
	High
)

var Severities = []Severity{High, Medium, Low}

func (s Severity) String() string {
	switch s {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	}
	return Low, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	parsed, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type ErrorType string

const (
	ParallelFifths     ErrorType = "Parallel Fifths"
	ParallelOctaves    ErrorType = "Parallel Octaves"
	VoiceCrossing      ErrorType = "Voice Crossing"
	VoiceSpacing       ErrorType = "Voice Spacing"
	LargeLeap          ErrorType = "Large Leap"
	ConsecutiveLeaps   ErrorType = "Consecutive Leaps"
	MelodicInterval    ErrorType = "Melodic Interval"
	WeakProgression    ErrorType = "Weak Progression"
	Cadence            ErrorType = "Cadence"
	VoiceRange         ErrorType = "Voice Range"
	HiddenPerfect      ErrorType = "Hidden Perfect Interval"
	DoubledLeadingTone ErrorType = "Doubled Leading Tone"
	HarmonicRhythm     ErrorType = "Harmonic Rhythm"
	ChordPosition      ErrorType = "Chord Position"
	RootMotion         ErrorType = "Root Motion"
)

// HarmonyError is a single finding. Voice indices are 0-based, soprano first.
type HarmonyError struct {
	Type        ErrorType `json:"type"`
	Measure     int       `json:"measure"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Voice1      *int      `json:"voice1,omitempty"`
	Voice2      *int      `json:"voice2,omitempty"`
}

func (e HarmonyError) String() string {
	return fmt.Sprintf("m.%d %v (%v): %v", e.Measure, e.Type, e.Severity, e.Description)
}

// Voices returns the referenced voice indices, -1 where absent.
func (e HarmonyError) Voices() (int, int) {
	v1, v2 := -1, -1
	if e.Voice1 != nil {
		v1 = *e.Voice1
	}
	if e.Voice2 != nil {
		v2 = *e.Voice2
	}
	return v1, v2
}

func VoiceRef(i int) *int {
	return &i
}

// Skip records a part of the score a check could not examine.
// Measure 0 means the whole check was abandoned.
type Skip struct {
	Check   string `json:"check"`
	Measure int    `json:"measure"`
	Reason  string `json:"reason"`
}
