package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jsphweid/harmonycheck/analyzer"
	"github.com/jsphweid/harmonycheck/constants"
	"github.com/jsphweid/harmonycheck/file"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [dir] [max]",
	Short: "Summarizes the errors of every score in a directory",
	Long:  `Analyzes every score file under dir (default $SCORE_PATH) and prints totals across files. max limits the number of files.`,
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := constants.GetScoreDir()
		if len(args) > 0 {
			dir = args[0]
		}
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid max %q: %w", args[1], err)
			}
			maxNum = n
		}

		paths, err := util.GatherAllScorePaths(dir, maxNum)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", dir, err)
		}
		a, err := newAnalyzer(analyzer.WithParallel(true))
		if err != nil {
			return err
		}

		fileNumMap := file.CreateFileNumMap(paths)
		results := a.AnalyzeBatch(cmd.Context(), file.OrderedPaths(fileNumMap))
		printSummary(cmd.OutOrStdout(), fileNumMap, results)
		return nil
	},
}

type batchSummary struct {
	numFiles    int
	failures    map[string]int
	errorCounts []int
	bySeverity  map[model.Severity]int
	byType      map[model.ErrorType]int
	partial     int
}

func summarize(results []model.BatchResult) batchSummary {
	sum := batchSummary{
		numFiles:   len(results),
		failures:   make(map[string]int),
		bySeverity: make(map[model.Severity]int),
		byType:     make(map[model.ErrorType]int),
	}
	for _, res := range results {
		if res.Failed() {
			sum.failures[res.Failure.Kind]++
			continue
		}
		sum.errorCounts = append(sum.errorCounts, res.Report.TotalErrors)
		for sev, n := range res.Report.Statistics.BySeverity {
			sum.bySeverity[sev] += n
		}
		for t, n := range res.Report.Statistics.ByType {
			sum.byType[t] += n
		}
		if res.Report.Partial {
			sum.partial++
		}
	}
	return sum
}

func printSummary(w io.Writer, fileNumMap model.FileNumToScorePath, results []model.BatchResult) {
	for _, num := range util.GetSortedKeys(fileNumMap) {
		res := results[num]
		if res.Failed() {
			fmt.Fprintf(w, "%4d %s: %s error: %s\n", num, res.Filename, res.Failure.Kind, res.Failure.Message)
		} else {
			fmt.Fprintf(w, "%4d %s: %d errors\n", num, res.Filename, res.Report.TotalErrors)
		}
	}

	sum := summarize(results)
	fmt.Fprintf(w, "\nfiles: %v\n", sum.numFiles)
	fmt.Fprintf(w, "analyzed: %v (partial: %v)\n", len(sum.errorCounts), sum.partial)
	for _, kind := range util.GetSortedKeys(sum.failures) {
		fmt.Fprintf(w, "failed (%s): %v\n", kind, sum.failures[kind])
	}
	fmt.Fprintf(w, "total errors: %v\n", util.Sum(sum.errorCounts))
	for _, sev := range model.Severities {
		fmt.Fprintf(w, "  %s: %v\n", sev, sum.bySeverity[sev])
	}
	for _, t := range util.GetSortedKeys(sum.byType) {
		fmt.Fprintf(w, "  %s: %v\n", t, sum.byType[t])
	}
}
