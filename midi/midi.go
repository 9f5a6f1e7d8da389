// Package midi turns Standard MIDI Files into scores.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

const drumChannel = 9

func ReadMidiFile(data []byte) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = &blank
			e = fmt.Errorf("Error parsing midi file... %v", r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		errText := fmt.Sprintf("Error parsing midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}

	return res, nil
}

type source struct {
	track   int
	channel uint8
}

type note struct {
	key        uint8
	start, end int64
}

type trackMeta struct {
	name       string
	instrument string
	program    int
}

type meterChange struct {
	tick int64
	time model.TimeSignature
}

type parsed struct {
	resolution float64
	time       model.TimeSignature
	meters     []meterChange
	tempo      float64
	endTicks   int64
	notes      map[source][]note
	meta       []trackMeta
}

func parse(s *smf.SMF) (*parsed, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	p := &parsed{
		resolution: float64(ticks.Resolution()),
		time:       model.DefaultTimeSignature(),
		notes:      make(map[source][]note),
		meta:       make([]trackMeta, len(s.Tracks)),
	}

	for i, events := range s.Tracks {
		p.meta[i].program = -1
		open := make(map[source]map[uint8]int64)
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			msg := event.Message
			var channel, key, velocity, num, denom uint8
			var bpm float64
			var text string
			switch {
			case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				src := source{track: i, channel: channel}
				if open[src] == nil {
					open[src] = make(map[uint8]int64)
				}
				if start, ok := open[src][key]; ok {
					p.addNote(src, key, start, absTicks)
				}
				open[src][key] = absTicks
			case msg.GetNoteOn(&channel, &key, &velocity), msg.GetNoteOff(&channel, &key, &velocity):
				src := source{track: i, channel: channel}
				if start, ok := open[src][key]; ok {
					p.addNote(src, key, start, absTicks)
					delete(open[src], key)
				}
			case msg.GetMetaMeter(&num, &denom):
				if num > 0 && denom > 0 {
					p.meters = append(p.meters, meterChange{tick: absTicks, time: model.TimeSignature{Beats: int(num), BeatType: int(denom)}})
				}
			case msg.GetMetaTempo(&bpm):
				if p.tempo == 0 {
					p.tempo = bpm
				}
			case msg.GetMetaTrackName(&text):
				p.meta[i].name = text
			case msg.GetMetaInstrument(&text):
				p.meta[i].instrument = text
			case msg.GetProgramChange(&channel, &key):
				if p.meta[i].program < 0 && channel != drumChannel {
					p.meta[i].program = int(key)
				}
			}
		}
		// close notes left hanging at the end of the track
		for src, keys := range open {
			for key, start := range keys {
				p.addNote(src, key, start, absTicks)
			}
		}
		if absTicks > p.endTicks {
			p.endTicks = absTicks
		}
	}

	sort.SliceStable(p.meters, func(i, j int) bool {
		return p.meters[i].tick < p.meters[j].tick
	})
	if len(p.meters) > 0 {
		p.time = p.meters[0].time
	}
	return p, nil
}

// measureStarts lays out measures from the meter changes, in quarter notes.
// A meter change that falls inside a measure cuts it short there.
func (p *parsed) measureStarts() []float64 {
	time := model.DefaultTimeSignature()
	var starts []float64
	var pos int64
	next := 0
	for len(starts) == 0 || pos < p.endTicks {
		for next < len(p.meters) && p.meters[next].tick <= pos {
			time = p.meters[next].time
			next++
		}
		starts = append(starts, float64(pos)/p.resolution)

		end := pos + int64(math.Round(time.QuarterLength()*p.resolution))
		if next < len(p.meters) && p.meters[next].tick < end {
			end = p.meters[next].tick
		}
		if end <= pos {
			end = pos + 1
		}
		pos = end
	}
	return starts
}

func (p *parsed) addNote(src source, key uint8, start, end int64) {
	if end <= start || src.channel == drumChannel {
		return
	}
	p.notes[src] = append(p.notes[src], note{key: key, start: start, end: end})
}

type voice struct {
	name  string
	notes []note
	mean  float64
}

// voices splits every source into monophonic lines and orders them from the
// highest to the lowest. Notes starting together in one source are dealt to
// its lines from the top down.
func (p *parsed) voices() []voice {
	var sources []source
	for src := range p.notes {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].track != sources[j].track {
			return sources[i].track < sources[j].track
		}
		return sources[i].channel < sources[j].channel
	})

	var res []voice
	for _, src := range sources {
		notes := p.notes[src]
		sort.SliceStable(notes, func(i, j int) bool {
			if notes[i].start != notes[j].start {
				return notes[i].start < notes[j].start
			}
			return notes[i].key > notes[j].key
		})

		var lines []voice
		for i := 0; i < len(notes); {
			j := i
			for j < len(notes) && notes[j].start == notes[i].start {
				j++
			}
			for rank, n := range notes[i:j] {
				for len(lines) <= rank {
					lines = append(lines, voice{name: p.voiceName(src, len(lines))})
				}
				lines[rank].notes = append(lines[rank].notes, n)
			}
			i = j
		}
		res = append(res, lines...)
	}

	for i := range res {
		var sum float64
		for _, n := range res[i].notes {
			sum += float64(n.key)
		}
		res[i].mean = sum / float64(len(res[i].notes))
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].mean > res[j].mean
	})
	return res
}

func (p *parsed) voiceName(src source, line int) string {
	name := p.meta[src.track].name
	if name == "" {
		name = fmt.Sprintf("Track %d", src.track+1)
	}
	if line > 0 {
		name = fmt.Sprintf("%s (%d)", name, line+1)
	}
	return name
}

// ToScore converts a parsed MIDI file. The key is left unset; the loader
// estimates it.
func ToScore(s *smf.SMF) (*model.Score, error) {
	p, err := parse(s)
	if err != nil {
		return nil, err
	}

	voices := p.voices()
	var events []chord.NoteEvent
	var names []string
	for v, line := range voices {
		names = append(names, line.name)
		for _, n := range line.notes {
			events = append(events, chord.NoteEvent{
				Voice:    v,
				Note:     n.key,
				Onset:    float64(n.start) / p.resolution,
				Duration: float64(n.end-n.start) / p.resolution,
			})
		}
	}

	score := &model.Score{
		Voices:     len(voices),
		VoiceNames: names,
		Time:       p.time,
		Measures:   chord.Build(events, len(voices), p.measureStarts(), nil),
		MidiInfo:   p.info(s),
	}
	if len(p.meta) > 0 {
		score.Title = p.meta[0].name
	}
	return score, nil
}

func (p *parsed) info(s *smf.SMF) *model.MidiInfo {
	tempo := p.tempo
	if tempo == 0 {
		tempo = 120
	}
	info := &model.MidiInfo{
		LengthSeconds: math.Round(float64(s.TimeAt(p.endTicks))/1e4) / 100,
		TempoBPM:      math.Round(tempo*100) / 100,
		Instruments:   []string{},
	}
	seen := make(map[string]bool)
	for i, m := range p.meta {
		if !p.hasNotes(i) {
			continue
		}
		name := m.instrument
		if name == "" && m.program >= 0 {
			name = fmt.Sprintf("Program %d", m.program)
		}
		if name == "" {
			name = m.name
		}
		if name != "" && !seen[name] {
			seen[name] = true
			info.Instruments = append(info.Instruments, name)
		}
	}
	return info
}

func (p *parsed) hasNotes(track int) bool {
	for src, notes := range p.notes {
		if src.track == track && len(notes) > 0 {
			return true
		}
	}
	return false
}

// Load reads a MIDI file from memory and returns its score.
func Load(data []byte) (*model.Score, error) {
	s, err := ReadMidiFile(data)
	if err != nil {
		return nil, err
	}
	return ToScore(s)
}
