package tonal

import (
	"math"

	"github.com/jsphweid/harmonycheck/model"
)

// Krumhansl-Kessler probe-tone profiles, tonic first.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// Profile sums the sounding time of every pitch class in the score.
func Profile(s *model.Score) []float64 {
	profile := make([]float64, 12)
	for _, m := range s.Measures {
		for _, c := range m.Chords {
			weight := c.Duration
			if weight <= 0 {
				weight = 1
			}
			for _, p := range c.Pitches {
				if !p.Rest {
					profile[int(p.Class)%12] += weight
				}
			}
		}
	}
	return profile
}

// EstimateKey picks the major or minor key whose profile correlates best
// with the pitch content of the score. It returns false when nothing sounds.
func EstimateKey(s *model.Score) (*model.Key, bool) {
	profile := Profile(s)
	var total float64
	for _, v := range profile {
		total += v
	}
	if total == 0 {
		return nil, false
	}

	best := math.Inf(-1)
	var key model.Key
	for _, mode := range []model.Mode{model.Major, model.Minor} {
		template := majorProfile
		if mode == model.Minor {
			template = minorProfile
		}
		for tonic := 0; tonic < 12; tonic++ {
			r := correlation(profile, rotate(template, tonic))
			if r > best {
				best = r
				key = model.Key{Tonic: model.PitchClass(tonic), Mode: mode}
			}
		}
	}
	return &key, true
}

// rotate moves the tonic of a template to pitch class shift.
func rotate(template []float64, shift int) []float64 {
	res := make([]float64, len(template))
	for i := range template {
		res[(i+shift)%len(template)] = template[i]
	}
	return res
}

func correlation(a, b []float64) float64 {
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(len(a))
	meanB /= float64(len(b))

	var num, denA, denB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		num += da * db
		denA += da * da
		denB += db * db
	}
	if denA == 0 || denB == 0 {
		return 0
	}
	return num / math.Sqrt(denA*denB)
}
