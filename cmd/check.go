package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jsphweid/harmonycheck/analyzer"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/report"
	"github.com/spf13/cobra"
)

var (
	checkFormat      string
	checkNoColor     bool
	checkSuggestions bool
	checkParallel    bool
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text or json")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colored output")
	checkCmd.Flags().BoolVar(&checkSuggestions, "suggestions", false, "print a correction hint under each error")
	checkCmd.Flags().BoolVar(&checkParallel, "parallel", false, "run the checks of each score concurrently")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Analyzes score files",
	Long:  `Analyzes each score file and prints its report. Exits with status 1 when any file could not be analyzed.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkFormat != "text" && checkFormat != "json" {
			return fmt.Errorf("unknown format %q", checkFormat)
		}
		a, err := newAnalyzer(analyzer.WithParallel(checkParallel))
		if err != nil {
			return err
		}

		results := a.AnalyzeBatch(cmd.Context(), args)
		if checkFormat == "json" {
			err = writeJSONResults(cmd.OutOrStdout(), results)
		} else {
			err = writeTextResults(cmd.OutOrStdout(), results, report.TextOptions{
				Color:       !checkNoColor,
				Suggestions: checkSuggestions,
			})
		}
		if err != nil {
			return err
		}

		if failed := countFailed(results); failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}

func writeJSONResults(w io.Writer, results []model.BatchResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func writeTextResults(w io.Writer, results []model.BatchResult, opts report.TextOptions) error {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if res.Failed() {
			fmt.Fprintf(w, "%s: %s error: %s\n", res.Filename, res.Failure.Kind, res.Failure.Message)
			continue
		}
		if err := report.WriteText(w, res.Report, opts); err != nil {
			return err
		}
	}
	return nil
}

func countFailed(results []model.BatchResult) int {
	var n int
	for _, res := range results {
		if res.Failed() {
			n++
		}
	}
	return n
}
