package rules

type Role string

const (
	Soprano Role = "soprano"
	Alto    Role = "alto"
	Tenor   Role = "tenor"
	Bass    Role = "bass"
)

// Roles names the voices of an n-voice texture: the top voice is the
// soprano, the lowest the bass, and the inner voices alto then tenor.
// Inner voices beyond those two have no role.
func Roles(n int) []Role {
	roles := make([]Role, n)
	if n == 0 {
		return roles
	}
	roles[0] = Soprano
	if n == 1 {
		return roles
	}
	roles[n-1] = Bass
	inner := []Role{Alto, Tenor}
	for i := 1; i < n-1 && i-1 < len(inner); i++ {
		roles[i] = inner[i-1]
	}
	return roles
}

// Range is an inclusive span of MIDI note numbers.
type Range struct {
	Low  int
	High int
}

type Progression struct {
	From int
	To   int
}

type Config struct {
	Ranges map[Role]Range

	SpacingLimit int
	// OuterSpacingLimit bounds the distance between soprano and bass.
	OuterSpacingLimit int

	LeapLimit     int
	BassLeapLimit int

	LeapSize            int
	MaxConsecutiveLeaps int

	// WeakProgressions lists scale-degree successions to flag.
	WeakProgressions []Progression

	HiddenLeapOnly bool

	StaticHarmonyLimit int
	RapidChangeLimit   int
	RapidChangeBeats   float64

	// Checks turns individual checks on or off by name, overriding their default.
	Checks map[string]bool
}

func DefaultRanges() map[Role]Range {
	return map[Role]Range{
		Soprano: {Low: 60, High: 79}, // C4-G5
		Alto:    {Low: 55, High: 74}, // G3-D5
		Tenor:   {Low: 48, High: 67}, // C3-G4
		Bass:    {Low: 40, High: 60}, // E2-C4
	}
}

func DefaultConfig() Config {
	return Config{
		Ranges:              DefaultRanges(),
		SpacingLimit:        12,
		OuterSpacingLimit:   24,
		LeapLimit:           12,
		BassLeapLimit:       12,
		LeapSize:            4,
		MaxConsecutiveLeaps: 2,
		WeakProgressions:    []Progression{{From: 5, To: 4}},
		StaticHarmonyLimit:  4,
		RapidChangeLimit:    3,
		RapidChangeBeats:    1,
	}
}
