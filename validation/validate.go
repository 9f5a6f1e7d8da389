package validation

import (
	"fmt"
	"log"

	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/tonal"
)

const MinVoices = 2

// Validate returns nil when every structural precondition for analysis
// holds, and an *InvalidScoreError listing each failed one otherwise.
func Validate(s *model.Score) error {
	if s == nil {
		return &InvalidScoreError{Reasons: []string{"no score loaded"}}
	}

	var reasons []string
	if len(s.Measures) == 0 {
		reasons = append(reasons, "score contains no measures")
	} else if s.NumChords() == 0 {
		reasons = append(reasons, "score contains no notes")
	}

	if s.Voices < MinVoices {
		reasons = append(reasons, fmt.Sprintf("score must contain at least %d voices, found %d", MinVoices, s.Voices))
	} else if s.NumChords() > 0 && !hasSimultaneousVoices(s) {
		reasons = append(reasons, fmt.Sprintf("no chord has %d or more voices sounding together", MinVoices))
	}

	if !tonal.Valid(s.Key) {
		reasons = append(reasons, "key could not be resolved")
	}

	if len(reasons) > 0 {
		err := &InvalidScoreError{Reasons: reasons}
		log.Printf("rejecting score %q: %v", s.Title, err)
		return err
	}
	return nil
}

func IsValid(s *model.Score) bool {
	return Validate(s) == nil
}

func hasSimultaneousVoices(s *model.Score) bool {
	for _, m := range s.Measures {
		for _, c := range m.Chords {
			if c.Sounding() >= MinVoices {
				return true
			}
		}
	}
	return false
}
