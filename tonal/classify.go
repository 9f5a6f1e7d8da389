package tonal

import (
	"fmt"
	"strings"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
)

// Function is the role of a chord in a key, e.g. V7 in first inversion.
type Function struct {
	Degree    int           `json:"degree"`
	Numeral   string        `json:"numeral"`
	Quality   chord.Quality `json:"quality"`
	Inversion int           `json:"inversion"`
}

// Label renders the numeral with its figured-bass inversion, e.g. "V65", "ii6".
func (f Function) Label() string {
	if f.Inversion == 0 {
		return f.Numeral
	}
	if f.Quality.IsSeventh() {
		figures := []string{"", "65", "43", "42"}
		return strings.TrimSuffix(f.Numeral, "7") + figures[f.Inversion%4]
	}
	figures := []string{"", "6", "64"}
	return f.Numeral + figures[f.Inversion%3]
}

// Classifier assigns a harmonic function to an analyzed chord. Alternate
// tonal systems can be plugged into the analyzer by implementing it.
type Classifier interface {
	Classify(key model.Key, info chord.Info) (Function, bool)
}

type degreeQuality struct {
	offset  int
	quality chord.Quality
}

// Diatonic recognizes the triads and seventh chords built on the major scale,
// and on the natural, harmonic and melodic minor scales.
type Diatonic struct{}

var majorDegrees = map[int]int{0: 1, 2: 2, 4: 3, 5: 4, 7: 5, 9: 6, 11: 7}

var minorDegrees = map[int]int{0: 1, 2: 2, 3: 3, 5: 4, 7: 5, 8: 6, 9: 6, 10: 7, 11: 7}

var diatonicMajor = map[degreeQuality]bool{
	{0, chord.QualityMajor}: true, {0, chord.QualityMajorSeventh}: true,
	{2, chord.QualityMinor}: true, {2, chord.QualityMinorSeventh}: true,
	{4, chord.QualityMinor}: true, {4, chord.QualityMinorSeventh}: true,
	{5, chord.QualityMajor}: true, {5, chord.QualityMajorSeventh}: true,
	{7, chord.QualityMajor}: true, {7, chord.QualityDominantSeventh}: true,
	{9, chord.QualityMinor}: true, {9, chord.QualityMinorSeventh}: true,
	{11, chord.QualityDiminished}: true, {11, chord.QualityHalfDiminishedSeventh}: true,
}

var diatonicMinor = map[degreeQuality]bool{
	{0, chord.QualityMinor}: true, {0, chord.QualityMinorSeventh}: true,
	{2, chord.QualityDiminished}: true, {2, chord.QualityHalfDiminishedSeventh}: true,
	{2, chord.QualityMinor}: true,
	{3, chord.QualityMajor}: true, {3, chord.QualityAugmented}: true, {3, chord.QualityMajorSeventh}: true,
	{5, chord.QualityMinor}: true, {5, chord.QualityMinorSeventh}: true, {5, chord.QualityMajor}: true,
	{7, chord.QualityMajor}: true, {7, chord.QualityDominantSeventh}: true, {7, chord.QualityMinor}: true,
	{8, chord.QualityMajor}: true, {8, chord.QualityMajorSeventh}: true,
	{10, chord.QualityMajor}: true, {10, chord.QualityDominantSeventh}: true,
	{11, chord.QualityDiminished}: true, {11, chord.QualityDiminishedSeventh}: true,
	{11, chord.QualityHalfDiminishedSeventh}: true,
}

func (Diatonic) Classify(key model.Key, info chord.Info) (Function, bool) {
	if !info.Known {
		return Function{}, false
	}
	offset := (int(info.Root) - int(key.Tonic) + 12) % 12
	degrees, allowed := majorDegrees, diatonicMajor
	if key.Mode == model.Minor {
		degrees, allowed = minorDegrees, diatonicMinor
	}
	degree, ok := degrees[offset]
	if !ok || !allowed[degreeQuality{offset, info.Quality}] {
		return Function{}, false
	}
	return Function{
		Degree:    degree,
		Numeral:   Numeral(degree, info.Quality),
		Quality:   info.Quality,
		Inversion: info.Inversion,
	}, true
}

var numerals = []string{"I", "II", "III", "IV", "V", "VI", "VII"}

// Numeral spells a scale degree with the case and symbol of its quality.
func Numeral(degree int, quality chord.Quality) string {
	if degree < 1 || degree > 7 {
		return "?"
	}
	n := numerals[degree-1]
	switch quality {
	case chord.QualityMajor:
		return n
	case chord.QualityMinor:
		return strings.ToLower(n)
	case chord.QualityDiminished:
		return strings.ToLower(n) + "°"
	case chord.QualityAugmented:
		return n + "+"
	case chord.QualityDominantSeventh:
		return n + "7"
	case chord.QualityMajorSeventh:
		return n + "maj7"
	case chord.QualityMinorSeventh:
		return strings.ToLower(n) + "7"
	case chord.QualityHalfDiminishedSeventh:
		return strings.ToLower(n) + "ø7"
	case chord.QualityDiminishedSeventh:
		return strings.ToLower(n) + "°7"
	}
	return n
}

// ParseDegree reads the scale degree of a numeral regardless of case and
// quality symbols: "V", "v", "V7", "vii°" and "viio" all parse.
func ParseDegree(numeral string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(numeral))
	end := 0
	for end < len(s) && (s[end] == 'I' || s[end] == 'V') {
		end++
	}
	for i, n := range numerals {
		if s[:end] == n {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("invalid roman numeral %q", numeral)
}
