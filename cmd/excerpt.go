package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jsphweid/harmonycheck/sample"
	"github.com/jsphweid/harmonycheck/score"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(excerptCmd)
}

var excerptCmd = &cobra.Command{
	Use:   "excerpt [file] [from] [to] [out.mid]",
	Short: "Writes a range of measures as a MIDI file",
	Long:  `Writes measures from..to (inclusive) of a score as a MIDI file, one track per voice.`,
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid measure %q: %w", args[1], err)
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid measure %q: %w", args[2], err)
		}
		return excerpt(args[0], from, to, args[3])
	},
}

func excerpt(path string, from, to int, out string) error {
	s, err := score.Load(path)
	if err != nil {
		return err
	}
	smf, err := sample.Create(s, from, to)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", out, err)
	}
	defer f.Close()
	if _, err := smf.WriteTo(f); err != nil {
		return fmt.Errorf("could not write %s: %w", out, err)
	}
	fmt.Printf("Wrote measures %d-%d of %s to %s\n", from, to, path, out)
	return nil
}
