package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/harmonycheck/rules"
	"github.com/stretchr/testify/assert"
)

var known = rules.Default().Names()

const ruleSet = `
ranges:
  soprano: {low: 62, high: 81}
limits:
  leap: 9
  outer_spacing: 28
  rapid_change_beats: 0.5
hidden_leap_only: true
weak_progressions: ["V-IV", "ii-I"]
checks:
  chord-position: true
  cadence: false
common_issues: 5
`

func TestParse(t *testing.T) {
	assert := assert.New(t)

	f, err := Parse([]byte(ruleSet))
	assert.NoError(err)

	cfg, err := f.RuleConfig(known)
	assert.NoError(err)

	assert.Equal(rules.Range{Low: 62, High: 81}, cfg.Ranges[rules.Soprano])
	assert.Equal(rules.DefaultRanges()[rules.Bass], cfg.Ranges[rules.Bass])
	assert.Equal(9, cfg.LeapLimit)
	assert.Equal(28, cfg.OuterSpacingLimit)
	assert.Equal(0.5, cfg.RapidChangeBeats)
	assert.Equal(rules.DefaultConfig().SpacingLimit, cfg.SpacingLimit)
	assert.True(cfg.HiddenLeapOnly)
	assert.Equal([]rules.Progression{{From: 5, To: 4}, {From: 2, To: 1}}, cfg.WeakProgressions)
	assert.Equal(map[string]bool{"chord-position": true, "cadence": false}, cfg.Checks)
	assert.Equal(5, f.CommonIssuesOr(3))
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	assert := assert.New(t)

	f, err := Parse([]byte("limits: {}\n"))
	assert.NoError(err)
	cfg, err := f.RuleConfig(known)
	assert.NoError(err)
	assert.Equal(rules.DefaultConfig(), cfg)
	assert.Equal(3, f.CommonIssuesOr(3))
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "ranges: [unclosed"},
		{"unknown role", "ranges:\n  countertenor: {low: 50, high: 70}\n"},
		{"high below low", "ranges:\n  alto: {low: 70, high: 60}\n"},
		{"pitch out of range", "ranges:\n  bass: {low: 30, high: 200}\n"},
		{"zero leap", "limits:\n  leap: 0\n"},
		{"outer spacing too wide", "limits:\n  outer_spacing: 72\n"},
		{"progression without dash", "weak_progressions: [\"VIV\"]\n"},
		{"too many common issues", "common_issues: 50\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRuleConfigErrors(t *testing.T) {
	assert := assert.New(t)

	f, err := Parse([]byte("checks:\n  no-such-check: true\n"))
	assert.NoError(err)
	_, err = f.RuleConfig(known)
	assert.EqualError(err, `unknown check "no-such-check"`)

	f, err = Parse([]byte("weak_progressions: [\"V-X\"]\n"))
	assert.NoError(err)
	_, err = f.RuleConfig(known)
	assert.ErrorContains(err, `invalid progression "V-X"`)
}

func TestNilFile(t *testing.T) {
	assert := assert.New(t)

	var f *File
	cfg, err := f.RuleConfig(known)
	assert.NoError(err)
	assert.Equal(rules.DefaultConfig(), cfg)
	assert.Equal(3, f.CommonIssuesOr(3))
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	f, err := Load("")
	assert.NoError(err)
	assert.Nil(f)

	dir := t.TempDir()
	f, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.NoError(err)
	assert.Nil(f)

	path := filepath.Join(dir, "rules.yaml")
	assert.NoError(os.WriteFile(path, []byte(ruleSet), 0o644))
	f, err = Load(path)
	assert.NoError(err)
	assert.Equal(9, *f.Limits.Leap)

	bad := filepath.Join(dir, "bad.yaml")
	assert.NoError(os.WriteFile(bad, []byte("limits:\n  leap: 0\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(err, bad)
}
