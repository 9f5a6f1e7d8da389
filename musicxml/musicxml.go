// Package musicxml turns partwise MusicXML documents into scores.
package musicxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/tonal"
)

type document struct {
	XMLName       xml.Name   `xml:"score-partwise"`
	WorkTitle     string     `xml:"work>work-title"`
	MovementTitle string     `xml:"movement-title"`
	PartList      []partInfo `xml:"part-list>score-part"`
	Parts         []part     `xml:"part"`
}

type partInfo struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type part struct {
	ID       string    `xml:"id,attr"`
	Measures []measure `xml:"measure"`
}

type measure struct {
	Number   string    `xml:"number,attr"`
	Implicit string    `xml:"implicit,attr"`
	Elements []element `xml:",any"`
}

// element is any child of <measure>. Only the fields of <attributes>,
// <note>, <backup> and <forward> are read.
type element struct {
	XMLName xml.Name

	Divisions int      `xml:"divisions"`
	Key       *keySig  `xml:"key"`
	Time      *timeSig `xml:"time"`

	Pitch    *pitch    `xml:"pitch"`
	Rest     *struct{} `xml:"rest"`
	Chord    *struct{} `xml:"chord"`
	Grace    *struct{} `xml:"grace"`
	Duration int       `xml:"duration"`
	Voice    string    `xml:"voice"`
	Ties     []tie     `xml:"tie"`
}

type keySig struct {
	Fifths int    `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type timeSig struct {
	Beats    string `xml:"beats"`
	BeatType int    `xml:"beat-type"`
}

type pitch struct {
	Step   string  `xml:"step"`
	Alter  float64 `xml:"alter"`
	Octave int     `xml:"octave"`
}

type tie struct {
	Type string `xml:"type,attr"`
}

var steps = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

func (p pitch) height() (int, error) {
	step, ok := steps[strings.ToUpper(strings.TrimSpace(p.Step))]
	if !ok {
		return 0, fmt.Errorf("invalid step %q", p.Step)
	}
	h := (p.Octave+1)*12 + step + int(math.Round(p.Alter))
	if h < 0 || h > 127 {
		return 0, fmt.Errorf("pitch %s%d out of range", p.Step, p.Octave)
	}
	return h, nil
}

func (e element) tied(kind string) bool {
	for _, t := range e.Ties {
		if t.Type == kind {
			return true
		}
	}
	return false
}

type source struct {
	part  int
	voice string
}

type note struct {
	height   int
	onset    float64
	duration float64
}

type builder struct {
	notes   map[source][]*note
	key     *model.Key
	time    *model.TimeSignature
	starts  []float64
	numbers []int
	// implicitFirst marks an opening measure written as implicit, a pickup
	implicitFirst bool
	sources       []source
}

// Load parses a partwise MusicXML document. A declared key signature is
// kept on the score; otherwise the key is left unset.
func Load(data []byte) (*model.Score, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing musicxml: %w", err)
	}
	return toScore(&doc)
}

func toScore(doc *document) (*model.Score, error) {
	if len(doc.Parts) == 0 {
		return nil, errors.New("musicxml document has no parts")
	}

	b := &builder{notes: make(map[source][]*note)}
	for i, p := range doc.Parts {
		if err := b.readPart(i, p); err != nil {
			return nil, fmt.Errorf("part %s: %w", p.ID, err)
		}
	}

	names := make(map[string]string)
	for _, info := range doc.PartList {
		names[info.ID] = strings.TrimSpace(info.Name)
	}

	var events []chord.NoteEvent
	var voiceNames []string
	for _, src := range b.orderedSources() {
		lines := splitLines(b.notes[src])
		for rank, line := range lines {
			voiceNames = append(voiceNames, lineName(names[doc.Parts[src.part].ID], src, rank, len(lines)))
			v := len(voiceNames) - 1
			for _, n := range line {
				events = append(events, chord.NoteEvent{
					Voice:    v,
					Note:     uint8(n.height),
					Onset:    n.onset,
					Duration: n.duration,
				})
			}
		}
	}

	score := &model.Score{
		Title:      strings.TrimSpace(doc.WorkTitle),
		Voices:     len(voiceNames),
		VoiceNames: voiceNames,
		Time:       model.DefaultTimeSignature(),
		Measures:   chord.Build(events, len(voiceNames), b.starts, b.measureNumbers()),
	}
	if score.Title == "" {
		score.Title = strings.TrimSpace(doc.MovementTitle)
	}
	if b.time != nil {
		score.Time = *b.time
	}
	if b.key != nil {
		score.Key = b.key
		score.KeySource = model.KeySourceDeclared
	}
	return score, nil
}

func (b *builder) readPart(index int, p part) error {
	divisions := 1.0
	var start float64
	for mi, m := range p.Measures {
		pos, end, last := start, start, start
		for _, e := range m.Elements {
			switch e.XMLName.Local {
			case "attributes":
				if e.Divisions > 0 {
					divisions = float64(e.Divisions)
				}
				b.attributes(e)
			case "backup":
				pos -= float64(e.Duration) / divisions
			case "forward":
				pos += float64(e.Duration) / divisions
			case "note":
				if e.Grace != nil {
					continue
				}
				dur := float64(e.Duration) / divisions
				onset := pos
				if e.Chord != nil {
					onset = last
				} else {
					pos += dur
				}
				last = onset
				if e.Rest != nil || e.Pitch == nil {
					break
				}
				h, err := e.Pitch.height()
				if err != nil {
					return fmt.Errorf("measure %s: %w", m.Number, err)
				}
				b.addNote(source{part: index, voice: e.Voice}, h, round(onset), round(dur), e.tied("stop"))
			}
			if pos > end {
				end = pos
			}
		}

		length := end - start
		if length <= 0 {
			length = b.measureLength()
		}
		if mi >= len(b.starts) {
			b.starts = append(b.starts, round(start))
			b.numbers = append(b.numbers, writtenNumber(m))
			if mi == 0 && strings.EqualFold(m.Implicit, "yes") {
				b.implicitFirst = true
			}
		}
		start += length
	}
	return nil
}

// writtenNumber reads the number of a measure, or -1 when it has none that
// counts: a non-numeric number or an implicit measure numbered 0.
func writtenNumber(m measure) int {
	digits := strings.TrimSpace(m.Number)
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(digits[:end])
	if err != nil || n < 1 {
		return -1
	}
	return n
}

// measureNumbers resolves the numbers of the measures as written. A pickup
// belongs to the first full measure; a measure without a number continues the
// one before it.
func (b *builder) measureNumbers() []int {
	res := make([]int, len(b.numbers))
	pickup := len(b.numbers) > 1 && (b.numbers[0] < 1 || b.implicitFirst)
	last := 0
	for i, n := range b.numbers {
		if i == 0 && pickup {
			continue
		}
		switch {
		case n >= 1:
			res[i] = n
		case last >= 1:
			res[i] = last
		default:
			res[i] = 1
		}
		last = res[i]
	}
	if pickup {
		res[0] = res[1]
	}
	return res
}

func (b *builder) attributes(e element) {
	if e.Key != nil && b.key == nil {
		mode := model.Major
		if strings.EqualFold(strings.TrimSpace(e.Key.Mode), "minor") {
			mode = model.Minor
		}
		k := tonal.KeyFromFifths(e.Key.Fifths, mode)
		b.key = &k
	}
	if e.Time != nil && b.time == nil {
		beats, err := strconv.Atoi(strings.TrimSpace(e.Time.Beats))
		if err == nil && beats > 0 && e.Time.BeatType > 0 {
			b.time = &model.TimeSignature{Beats: beats, BeatType: e.Time.BeatType}
		}
	}
}

func (b *builder) measureLength() float64 {
	if b.time != nil {
		return b.time.QuarterLength()
	}
	return model.DefaultTimeSignature().QuarterLength()
}

// addNote records a note. The continuation of a tie extends the note it is
// tied from instead.
func (b *builder) addNote(src source, height int, onset, duration float64, tiedFrom bool) {
	if duration <= 0 {
		return
	}
	if _, ok := b.notes[src]; !ok {
		b.sources = append(b.sources, src)
	}
	if tiedFrom {
		notes := b.notes[src]
		for i := len(notes) - 1; i >= 0; i-- {
			n := notes[i]
			if n.height == height && round(n.onset+n.duration) == onset {
				n.duration = round(n.duration + duration)
				return
			}
		}
	}
	b.notes[src] = append(b.notes[src], &note{height: height, onset: onset, duration: duration})
}

// orderedSources lists the voices part by part, each part's voices in
// ascending voice number.
func (b *builder) orderedSources() []source {
	res := append([]source(nil), b.sources...)
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].part != res[j].part {
			return res[i].part < res[j].part
		}
		vi, erri := strconv.Atoi(res[i].voice)
		vj, errj := strconv.Atoi(res[j].voice)
		if erri == nil && errj == nil {
			return vi < vj
		}
		return res[i].voice < res[j].voice
	})
	return res
}

// splitLines deals notes that start together in one voice to separate
// lines, highest first.
func splitLines(notes []*note) [][]*note {
	sorted := append([]*note(nil), notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].onset != sorted[j].onset {
			return sorted[i].onset < sorted[j].onset
		}
		return sorted[i].height > sorted[j].height
	})

	var lines [][]*note
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].onset == sorted[i].onset {
			j++
		}
		for rank, n := range sorted[i:j] {
			for len(lines) <= rank {
				lines = append(lines, nil)
			}
			lines[rank] = append(lines[rank], n)
		}
		i = j
	}
	return lines
}

func lineName(partName string, src source, rank, lines int) string {
	name := partName
	if name == "" {
		name = fmt.Sprintf("Part %d", src.part+1)
	}
	if src.voice != "" && src.voice != "1" {
		name = fmt.Sprintf("%s voice %s", name, src.voice)
	}
	if lines > 1 {
		name = fmt.Sprintf("%s (%d)", name, rank+1)
	}
	return name
}

// round keeps onsets computed from different divisions comparable.
func round(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
