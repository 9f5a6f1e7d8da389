package chord

import (
	"sort"

	"github.com/jsphweid/harmonycheck/model"
)

type Quality string

const (
	QualityUnknown               Quality = "unknown"
	QualityMajor                 Quality = "major"
	QualityMinor                 Quality = "minor"
	QualityDiminished            Quality = "diminished"
	QualityAugmented             Quality = "augmented"
	QualityDominantSeventh       Quality = "dominant seventh"
	QualityMajorSeventh          Quality = "major seventh"
	QualityMinorSeventh          Quality = "minor seventh"
	QualityHalfDiminishedSeventh Quality = "half-diminished seventh"
	QualityDiminishedSeventh     Quality = "diminished seventh"
)

func (q Quality) IsSeventh() bool {
	switch q {
	case QualityDominantSeventh, QualityMajorSeventh, QualityMinorSeventh,
		QualityHalfDiminishedSeventh, QualityDiminishedSeventh:
		return true
	}
	return false
}

type template struct {
	quality Quality
	// semitones above the root, ordered root, third, fifth, seventh
	tones []int
	// tones that may be left out without changing the quality
	optional []int
}

// sevenths come first so that a complete seventh chord is never read as a triad
var templates = []template{
	{QualityDominantSeventh, []int{0, 4, 7, 10}, []int{7}},
	{QualityMajorSeventh, []int{0, 4, 7, 11}, []int{7}},
	{QualityMinorSeventh, []int{0, 3, 7, 10}, []int{7}},
	{QualityHalfDiminishedSeventh, []int{0, 3, 6, 10}, nil},
	{QualityDiminishedSeventh, []int{0, 3, 6, 9}, nil},
	{QualityMajor, []int{0, 4, 7}, []int{7}},
	{QualityMinor, []int{0, 3, 7}, []int{7}},
	{QualityDiminished, []int{0, 3, 6}, nil},
	{QualityAugmented, []int{0, 4, 8}, nil},
}

// Info describes a chord independently of any key.
type Info struct {
	Root      model.PitchClass
	Bass      model.PitchClass
	Quality   Quality
	Inversion int
	Known     bool
}

// RootPosition reports whether the root is in the bass.
func (i Info) RootPosition() bool {
	return i.Known && i.Inversion == 0
}

type candidate struct {
	root      model.PitchClass
	tmpl      template
	inversion int
	missing   int
}

// Analyze finds the root, quality and inversion of a chord by matching its
// pitch-class set against triad and seventh templates. The fifth may be
// omitted. Sets that match no template come back with Known false.
func Analyze(c model.Chord) Info {
	var info Info
	heights := c.Heights()
	if len(heights) == 0 {
		info.Quality = QualityUnknown
		return info
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })
	info.Bass = model.PitchClass(heights[0] % 12)

	var classes []int
	seen := make(map[int]bool)
	for _, h := range heights {
		pc := int(h % 12)
		if !seen[pc] {
			seen[pc] = true
			classes = append(classes, pc)
		}
	}

	var best *candidate
	for _, root := range classes {
		for _, tmpl := range templates {
			cand, ok := match(seen, root, tmpl, int(info.Bass))
			if !ok {
				continue
			}
			if best == nil || better(cand, *best, info.Bass) {
				c := cand
				best = &c
			}
		}
	}

	if best == nil {
		info.Root = info.Bass
		info.Quality = QualityUnknown
		return info
	}
	info.Root = best.root
	info.Quality = best.tmpl.quality
	info.Inversion = best.inversion
	info.Known = true
	return info
}

func match(set map[int]bool, root int, tmpl template, bass int) (candidate, bool) {
	cand := candidate{root: model.PitchClass(root), tmpl: tmpl, inversion: -1}
	chordTones := make(map[int]bool)
	for idx, interval := range tmpl.tones {
		pc := (root + interval) % 12
		chordTones[pc] = true
		if !set[pc] {
			if !contains(tmpl.optional, interval) {
				return cand, false
			}
			cand.missing++
			continue
		}
		if pc == bass {
			cand.inversion = idx
		}
	}
	for pc := range set {
		if !chordTones[pc] {
			return cand, false
		}
	}
	return cand, cand.inversion >= 0
}

func better(a, b candidate, bass model.PitchClass) bool {
	if a.missing != b.missing {
		return a.missing < b.missing
	}
	if (a.root == bass) != (b.root == bass) {
		return a.root == bass
	}
	return false
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
