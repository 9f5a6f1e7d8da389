package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/score"
	"github.com/jsphweid/harmonycheck/tonal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Prints the chords of a score",
	Long:  `Prints every measure of a score with its chords, pitches and Roman numerals.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := score.Load(args[0])
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), s, tonal.Diatonic{})
		return nil
	},
}

func inspect(w io.Writer, s *model.Score, classifier tonal.Classifier) {
	fmt.Fprintf(w, "title: %v\n", s.Title)
	if s.Key != nil {
		fmt.Fprintf(w, "key: %v (%v)\n", s.Key, s.KeySource)
	} else {
		fmt.Fprintf(w, "key: unknown\n")
	}
	fmt.Fprintf(w, "time: %v\n", s.Time)
	fmt.Fprintf(w, "voices: %v\n", strings.Join(s.VoiceNames, ", "))

	for _, m := range s.Measures {
		fmt.Fprintf(w, "measure %d\n", m.Index)
		for _, c := range m.Chords {
			pitches := make([]string, len(c.Pitches))
			for i, p := range c.Pitches {
				pitches[i] = p.String()
			}
			fmt.Fprintf(w, "  %6.2f  %-24s %s\n", c.Onset, strings.Join(pitches, " "), describeChord(s, c, classifier))
		}
	}
}

func describeChord(s *model.Score, c model.Chord, classifier tonal.Classifier) string {
	info := chord.Analyze(c)
	if !info.Known {
		return "?"
	}
	desc := fmt.Sprintf("%v %v", info.Root, info.Quality)
	if s.Key != nil {
		if fn, ok := classifier.Classify(*s.Key, info); ok {
			desc += " " + fn.Label()
		}
	}
	return desc
}
