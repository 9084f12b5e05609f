package main

import (
	"encoding/json"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/quality-cli/internal/policy"
	"github.com/sells-group/quality-cli/internal/quality"
	"github.com/sells-group/quality-cli/internal/server"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a dataset against a governance policy",
	Long: `Score every policy field of a CSV or XLSX dataset on a 0-100 scale.

Each field is penalized for nulls, type mismatches, duplicates, outliers,
skew, temporal anomalies, excessive cardinality, and security
non-compliance. The report is written as JSON.

Examples:
  # Score a CSV and print the report
  score --dataset customers.csv --policy policy.yaml

  # Write the report to a file
  score --dataset customers.xlsx --policy policy.yaml --output report.json`,
	RunE: runScoreCmd,
}

func init() {
	f := scoreCmd.Flags()
	f.String("dataset", "", "dataset file (.csv or .xlsx)")
	f.String("policy", "", "policy YAML file")
	f.String("output", "", "report output path (default: stdout)")
	_ = scoreCmd.MarkFlagRequired("dataset")
	_ = scoreCmd.MarkFlagRequired("policy")

	rootCmd.AddCommand(scoreCmd)
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	datasetPath, _ := cmd.Flags().GetString("dataset")
	policyPath, _ := cmd.Flags().GetString("policy")
	output, _ := cmd.Flags().GetString("output")

	log := zap.L().With(zap.String("command", "score"))

	pol, err := policy.Load(policyPath)
	if err != nil {
		return err
	}
	ds, err := server.LoadDataset(datasetPath)
	if err != nil {
		return err
	}
	log.Info("dataset loaded",
		zap.String("path", datasetPath),
		zap.String("rows", humanize.Comma(int64(ds.Rows()))),
		zap.Int("columns", len(ds.Columns())))

	report := quality.BuildReport(pol, ds)
	log.Info("scoring complete",
		zap.Float64("global_score", report.GlobalScore),
		zap.Int("fields", report.TotalFields))

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrap(err, "score: create output")
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(report), "score: write report")
}
