package cmd

import (
	"fmt"

	"github.com/jsphweid/harmonycheck/analyzer"
	"github.com/jsphweid/harmonycheck/config"
	"github.com/jsphweid/harmonycheck/constants"
	"github.com/jsphweid/harmonycheck/report"
	"github.com/jsphweid/harmonycheck/rules"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "harmonycheck",
	Short: "Checks scores for four-part harmony errors",
	Long: `Checks MIDI and MusicXML scores for classical four-part harmony and
voice-leading errors: parallel fifths and octaves, voice crossing, spacing,
leaps, weak progressions, cadences and more.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "rule set YAML file (default $HARMONY_CONFIG)")
}

func Execute() {
	_ = godotenv.Load()
	cobra.CheckErr(rootCmd.Execute())
}

// newAnalyzer builds an analyzer from the rule set file, if there is one.
func newAnalyzer(opts ...analyzer.Option) (*analyzer.Analyzer, error) {
	path := configPath
	if path == "" {
		path = constants.GetRuleConfigPath()
	}
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	registry := rules.Default()
	cfg, err := f.RuleConfig(registry.Names())
	if err != nil {
		return nil, fmt.Errorf("rule set %s: %w", path, err)
	}
	base := []analyzer.Option{
		analyzer.WithRegistry(registry),
		analyzer.WithConfig(cfg),
		analyzer.WithCommonIssues(f.CommonIssuesOr(report.DefaultCommonIssues)),
	}
	return analyzer.New(append(base, opts...)...), nil
}
