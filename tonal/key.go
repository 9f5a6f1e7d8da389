// Package tonal relates chords to a key: key naming and parsing, key
// estimation from pitch content, and classification of chords by harmonic
// function.
package tonal

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jsphweid/harmonycheck/model"
)

// ParseKey accepts "C major", "a minor", "F#m", "Bb", "eb" and similar
// spellings. Without an explicit mode a lowercase tonic means minor.
func ParseKey(s string) (model.Key, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 || len(fields) > 2 {
		return model.Key{}, fmt.Errorf("invalid key %q", s)
	}

	name := fields[0]
	mode := model.Major
	explicit := false
	if len(fields) == 2 {
		switch strings.ToLower(fields[1]) {
		case "major", "maj":
			mode = model.Major
		case "minor", "min":
			mode = model.Minor
		default:
			return model.Key{}, fmt.Errorf("invalid mode in key %q", s)
		}
		explicit = true
	} else if len(name) > 1 && strings.HasSuffix(name, "m") {
		name = strings.TrimSuffix(name, "m")
		mode = model.Minor
		explicit = true
	}

	tonic, err := model.ParsePitchClass(name)
	if err != nil {
		return model.Key{}, fmt.Errorf("invalid key %q: %w", s, err)
	}
	if !explicit && unicode.IsLower(rune(name[0])) {
		mode = model.Minor
	}
	return model.Key{Tonic: tonic, Mode: mode}, nil
}

// KeyFromFifths converts a key signature (sharps positive, flats negative)
// and mode into a key.
func KeyFromFifths(fifths int, mode model.Mode) model.Key {
	tonic := ((fifths*7)%12 + 12) % 12
	if mode == model.Minor {
		tonic = (tonic + 9) % 12
	}
	return model.Key{Tonic: model.PitchClass(tonic), Mode: mode}
}

// Valid reports whether the key can be used for analysis.
func Valid(k *model.Key) bool {
	return k != nil && k.Tonic < 12 && (k.Mode == model.Major || k.Mode == model.Minor)
}
