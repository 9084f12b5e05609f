package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/policy"
	"github.com/sells-group/quality-cli/internal/remediate"
	"github.com/sells-group/quality-cli/internal/server"
	"github.com/sells-group/quality-cli/internal/store"
)

var remediateCmd = &cobra.Command{
	Use:   "remediate",
	Short: "Iteratively remediate low-quality columns",
	Long: `Run the score, evaluate, accept loop over a dataset until every field
clears the quality threshold or improvement stalls.

Each epoch targets the fields scoring below the threshold, evaluates the
competing techniques per category (imputation, normalization, outlier,
bias), and keeps only the changes that improve the field's score. The
remediated dataset, iteration history, and knowledge base are written out,
and the run is recorded in the history database.

Examples:
  # Remediate with defaults
  remediate --dataset customers.csv --policy policy.yaml --output cleaned.csv

  # Limit to two epochs on selected fields
  remediate --dataset customers.csv --policy policy.yaml \
    --output cleaned.csv --max-epochs 2 --include age,income`,
	RunE: runRemediate,
}

func init() {
	f := remediateCmd.Flags()
	f.String("dataset", "", "dataset file (.csv or .xlsx)")
	f.String("policy", "", "policy YAML file")
	f.String("output", "", "remediated dataset output path (CSV)")
	f.Int("max-epochs", 0, "maximum remediation epochs (default from config)")
	f.Float64("threshold", 0, "minimum score improvement to accept a change (default from config)")
	f.String("include", "", "comma-separated fields to remediate (default: all)")
	f.String("exclude", "", "comma-separated fields to skip")
	f.Int("workers", 0, "concurrent column workers (default from config)")
	_ = remediateCmd.MarkFlagRequired("dataset")
	_ = remediateCmd.MarkFlagRequired("policy")
	_ = remediateCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(remediateCmd)
}

func runRemediate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	datasetPath, _ := cmd.Flags().GetString("dataset")
	policyPath, _ := cmd.Flags().GetString("policy")
	output, _ := cmd.Flags().GetString("output")
	maxEpochs, _ := cmd.Flags().GetInt("max-epochs")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	include, _ := cmd.Flags().GetString("include")
	exclude, _ := cmd.Flags().GetString("exclude")
	workers, _ := cmd.Flags().GetInt("workers")

	log := zap.L().With(zap.String("command", "remediate"))

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

	runCfg := remediate.Config{
		MaxEpochs:            maxEpochs,
		ImprovementThreshold: threshold,
		KnowledgeFile:        cfg.Remediate.KnowledgeFile,
		HistoryFile:          cfg.Remediate.HistoryFile,
		IncludeFields:        splitFields(include),
		ExcludeFields:        splitFields(exclude),
		LowScoreThreshold:    cfg.Quality.LowScoreThreshold,
		Workers:              workers,
	}
	if runCfg.MaxEpochs == 0 {
		runCfg.MaxEpochs = cfg.Remediate.MaxEpochs
	}
	if runCfg.ImprovementThreshold == 0 {
		runCfg.ImprovementThreshold = cfg.Remediate.ImprovementThreshold
	}
	if runCfg.Workers == 0 {
		runCfg.Workers = cfg.Remediate.Workers
	}
	if len(runCfg.IncludeFields) == 0 {
		runCfg.IncludeFields = cfg.Remediate.IncludeFields
	}
	if len(runCfg.ExcludeFields) == 0 {
		runCfg.ExcludeFields = cfg.Remediate.ExcludeFields
	}

	engine := remediate.New(pol, ds, runCfg)
	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	log.Info("remediation complete",
		zap.Int("epochs", result.EpochsRun),
		zap.Float64("initial_score", result.InitialScore),
		zap.Float64("final_score", result.FinalScore),
		zap.Bool("converged", result.Converged))

	if err := dataset.WriteCSV(result.Dataset, output); err != nil {
		return err
	}
	log.Info("remediated dataset written", zap.String("path", output))

	if err := saveRunHistory(cmd, datasetPath, policyPath, result); err != nil {
		// History is an audit convenience; the remediated data is already
		// on disk, so failing here only warrants a warning.
		log.Warn("run history not saved", zap.Error(err))
	}
	return nil
}

func saveRunHistory(cmd *cobra.Command, datasetPath, policyPath string, result *remediate.Result) error {
	ctx := cmd.Context()

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	return st.SaveRun(ctx, &store.Run{
		Dataset:      datasetPath,
		Policy:       policyPath,
		Epochs:       result.EpochsRun,
		InitialScore: result.InitialScore,
		FinalScore:   result.FinalScore,
		Converged:    result.Converged,
		IterationLog: result.Log,
	})
}

func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
