// Package score loads score files of any supported format into the model.
package score

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/harmonycheck/midi"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/musicxml"
	"github.com/jsphweid/harmonycheck/tonal"
)

type Format string

const (
	FormatMIDI     Format = "midi"
	FormatMusicXML Format = "musicxml"
)

// FormatOf picks the format from the file extension.
func FormatOf(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mid", ".midi":
		return FormatMIDI, true
	case ".musicxml", ".xml":
		return FormatMusicXML, true
	}
	return "", false
}

func Load(path string) (*model.Score, error) {
	if _, ok := FormatOf(path); !ok {
		return nil, &InputError{Path: path, Message: "unsupported file type"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Message: "could not read file", Cause: err}
	}
	return LoadBytes(path, data)
}

// LoadBytes parses an in-memory score. name is only used for its extension
// and as the fallback title.
func LoadBytes(name string, data []byte) (*model.Score, error) {
	format, ok := FormatOf(name)
	if !ok {
		return nil, &InputError{Path: name, Message: "unsupported file type"}
	}
	if len(data) == 0 {
		return nil, &InputError{Path: name, Message: "file is empty"}
	}

	var s *model.Score
	var err error
	switch format {
	case FormatMIDI:
		s, err = midi.Load(data)
	case FormatMusicXML:
		s, err = musicxml.Load(data)
	}
	if err != nil {
		return nil, &InputError{Path: name, Message: "could not parse " + string(format), Cause: err}
	}

	if s.Title == "" {
		base := filepath.Base(name)
		s.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	resolveKey(s)
	return s, nil
}

// resolveKey estimates the key when the file declares none. A score without
// any sounding pitch keeps a nil key and fails validation later.
func resolveKey(s *model.Score) {
	if s.Key != nil {
		if s.KeySource == "" {
			s.KeySource = model.KeySourceDeclared
		}
		return
	}
	key, ok := tonal.EstimateKey(s)
	if !ok {
		log.Printf("could not estimate key of %q", s.Title)
		return
	}
	s.Key = key
	s.KeySource = model.KeySourceDetected
}
