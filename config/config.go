// Package config reads rule-set files. A rule set overrides voice ranges,
// check limits and which checks run; anything left out keeps its default.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jsphweid/harmonycheck/rules"
	"github.com/jsphweid/harmonycheck/tonal"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// File is the YAML rule-set file.
//
//	ranges:
//	  soprano: {low: 60, high: 81}
//	limits:
//	  leap: 9
//	weak_progressions: ["V-IV", "ii-I"]
//	checks:
//	  chord-position: true
type File struct {
	Ranges           map[string]Range `yaml:"ranges" validate:"omitempty,dive,keys,oneof=soprano alto tenor bass,endkeys"`
	Limits           Limits           `yaml:"limits"`
	HiddenLeapOnly   bool             `yaml:"hidden_leap_only"`
	WeakProgressions []string         `yaml:"weak_progressions" validate:"omitempty,dive,contains=-"`
	Checks           map[string]bool  `yaml:"checks"`
	CommonIssues     *int             `yaml:"common_issues" validate:"omitempty,min=1,max=20"`
}

type Range struct {
	Low  int `yaml:"low" validate:"min=0,max=127"`
	High int `yaml:"high" validate:"min=0,max=127,gtefield=Low"`
}

type Limits struct {
	Spacing             *int     `yaml:"spacing" validate:"omitempty,min=1,max=48"`
	OuterSpacing        *int     `yaml:"outer_spacing" validate:"omitempty,min=1,max=60"`
	Leap                *int     `yaml:"leap" validate:"omitempty,min=1,max=48"`
	BassLeap            *int     `yaml:"bass_leap" validate:"omitempty,min=1,max=48"`
	LeapSize            *int     `yaml:"leap_size" validate:"omitempty,min=1,max=24"`
	MaxConsecutiveLeaps *int     `yaml:"max_consecutive_leaps" validate:"omitempty,min=1"`
	StaticHarmony       *int     `yaml:"static_harmony" validate:"omitempty,min=1"`
	RapidChanges        *int     `yaml:"rapid_changes" validate:"omitempty,min=1"`
	RapidChangeBeats    *float64 `yaml:"rapid_change_beats" validate:"omitempty,gt=0"`
}

// Load reads a rule-set file. An empty path or a missing file gives a nil
// *File, which stands for the defaults.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal rule set: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}

// RuleConfig applies the file on top of rules.DefaultConfig. known lists
// the check names the file may switch. Safe to call on a nil *File.
func (f *File) RuleConfig(known []string) (rules.Config, error) {
	cfg := rules.DefaultConfig()
	if f == nil {
		return cfg, nil
	}

	for name, r := range f.Ranges {
		cfg.Ranges[rules.Role(name)] = rules.Range{Low: r.Low, High: r.High}
	}

	set(&cfg.SpacingLimit, f.Limits.Spacing)
	set(&cfg.OuterSpacingLimit, f.Limits.OuterSpacing)
	set(&cfg.LeapLimit, f.Limits.Leap)
	set(&cfg.BassLeapLimit, f.Limits.BassLeap)
	set(&cfg.LeapSize, f.Limits.LeapSize)
	set(&cfg.MaxConsecutiveLeaps, f.Limits.MaxConsecutiveLeaps)
	set(&cfg.StaticHarmonyLimit, f.Limits.StaticHarmony)
	set(&cfg.RapidChangeLimit, f.Limits.RapidChanges)
	set(&cfg.RapidChangeBeats, f.Limits.RapidChangeBeats)
	cfg.HiddenLeapOnly = f.HiddenLeapOnly

	if f.WeakProgressions != nil {
		cfg.WeakProgressions = nil
		for _, p := range f.WeakProgressions {
			prog, err := parseProgression(p)
			if err != nil {
				return cfg, err
			}
			cfg.WeakProgressions = append(cfg.WeakProgressions, prog)
		}
	}

	if len(f.Checks) > 0 {
		cfg.Checks = make(map[string]bool)
		for name, on := range f.Checks {
			if !slices.Contains(known, name) {
				return cfg, fmt.Errorf("unknown check %q", name)
			}
			cfg.Checks[name] = on
		}
	}
	return cfg, nil
}

// CommonIssuesOr returns the configured number of common issues, or n.
func (f *File) CommonIssuesOr(n int) int {
	if f == nil || f.CommonIssues == nil {
		return n
	}
	return *f.CommonIssues
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// parseProgression reads "V-IV" as a move from degree 5 to degree 4.
func parseProgression(s string) (rules.Progression, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return rules.Progression{}, fmt.Errorf("invalid progression %q", s)
	}
	f, err := tonal.ParseDegree(from)
	if err != nil {
		return rules.Progression{}, fmt.Errorf("invalid progression %q: %w", s, err)
	}
	t, err := tonal.ParseDegree(to)
	if err != nil {
		return rules.Progression{}, fmt.Errorf("invalid progression %q: %w", s, err)
	}
	return rules.Progression{From: f, To: t}, nil
}
