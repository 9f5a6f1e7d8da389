package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/harmonycheck/model"
)

// CreateChordKey identifies a chord by its sorted pitches, e.g. "48-55-64-72".
func CreateChordKey(notes []uint8) string {
	sorted := append([]uint8(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

// NoteEvent is a note of a single voice, timed in quarter notes.
type NoteEvent struct {
	Voice    int
	Note     uint8
	Onset    float64
	Duration float64
}

type reducedEvent struct {
	Offset    float64
	IsNoteOff bool
	Voice     int
	Note      uint8
}

// Build groups the notes of every voice into chords. A new chord starts at
// every onset and samples what each voice is sounding at that moment; a voice
// that is silent gets a rest. starts holds the onset of each measure, in
// order. numbers gives each measure's number as written; nil numbers the
// measures from 1. A number not above the one before it joins the previous
// measure.
func Build(events []NoteEvent, voices int, starts []float64, numbers []int) []model.Measure {
	if len(starts) == 0 {
		starts = []float64{0}
	}

	var reducedEvents []reducedEvent
	var end float64
	for _, evt := range events {
		if evt.Voice < 0 || evt.Voice >= voices || evt.Duration <= 0 {
			continue
		}
		reducedEvents = append(reducedEvents,
			reducedEvent{Offset: evt.Onset, Voice: evt.Voice, Note: evt.Note},
			reducedEvent{Offset: evt.Onset + evt.Duration, IsNoteOff: true, Voice: evt.Voice, Note: evt.Note},
		)
		if evt.Onset+evt.Duration > end {
			end = evt.Onset + evt.Duration
		}
	}

	// prioritize smaller offset values then note off
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].Offset != reducedEvents[j].Offset {
			return reducedEvents[i].Offset < reducedEvents[j].Offset
		}
		return reducedEvents[i].IsNoteOff && !reducedEvents[j].IsNoteOff
	})

	var chords []model.Chord
	pressed := make([]int, voices)
	for i := range pressed {
		pressed[i] = -1
	}
	started := false
	for i, evt := range reducedEvents {
		if evt.IsNoteOff {
			if pressed[evt.Voice] == int(evt.Note) {
				pressed[evt.Voice] = -1
			}
		} else {
			pressed[evt.Voice] = int(evt.Note)
			started = true
		}
		// only emit once all events sharing this offset are applied
		if i+1 < len(reducedEvents) && reducedEvents[i+1].Offset == evt.Offset {
			continue
		}
		if started {
			chords = append(chords, getChord(pressed, evt.Offset))
		}
		started = false
	}

	for i := range chords {
		if i+1 < len(chords) {
			chords[i].Duration = chords[i+1].Onset - chords[i].Onset
		} else {
			chords[i].Duration = end - chords[i].Onset
		}
	}

	// slot maps each entry of starts to its measure
	var measures []model.Measure
	slot := make([]int, len(starts))
	for i := range starts {
		number := i + 1
		if i < len(numbers) {
			number = numbers[i]
		}
		if n := len(measures); n > 0 && number <= measures[n-1].Index {
			slot[i] = n - 1
			continue
		}
		measures = append(measures, model.Measure{Index: number})
		slot[i] = len(measures) - 1
	}
	for _, c := range chords {
		idx := sort.Search(len(starts), func(i int) bool { return starts[i] > c.Onset }) - 1
		if idx < 0 {
			idx = 0
		}
		measures[slot[idx]].Chords = append(measures[slot[idx]].Chords, c)
	}
	return measures
}

func getChord(pressed []int, offset float64) model.Chord {
	c := model.Chord{Onset: offset, Pitches: make([]model.Pitch, len(pressed))}
	for voice, note := range pressed {
		if note < 0 {
			c.Pitches[voice] = model.RestPitch()
		} else {
			c.Pitches[voice] = model.PitchFromHeight(note)
		}
	}
	return c
}
