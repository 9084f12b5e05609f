package remediate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/policy"
	"github.com/sells-group/quality-cli/internal/quality"
)

// Config tunes a remediation run.
type Config struct {
	MaxEpochs            int
	ImprovementThreshold float64
	KnowledgeFile        string
	HistoryFile          string
	IncludeFields        []string
	ExcludeFields        []string
	LowScoreThreshold    float64
	Workers              int
}

const (
	DefaultMaxEpochs            = 5
	DefaultImprovementThreshold = 0.5
	DefaultKnowledgeFile        = "remediation_knowledge.json"
	DefaultHistoryFile          = "iteration_history.json"
	DefaultLowScoreThreshold    = 90.0
	DefaultWorkers              = 4
)

func (c Config) withDefaults() Config {
	if c.MaxEpochs <= 0 {
		c.MaxEpochs = DefaultMaxEpochs
	}
	if c.ImprovementThreshold <= 0 {
		c.ImprovementThreshold = DefaultImprovementThreshold
	}
	if c.KnowledgeFile == "" {
		c.KnowledgeFile = DefaultKnowledgeFile
	}
	if c.HistoryFile == "" {
		c.HistoryFile = DefaultHistoryFile
	}
	if c.LowScoreThreshold <= 0 {
		c.LowScoreThreshold = DefaultLowScoreThreshold
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// HistoryEntry is one snapshot in the iteration log: the initial report, then
// one per completed epoch.
type HistoryEntry struct {
	Epoch  string          `json:"epoch"`
	Report *quality.Report `json:"report"`
}

// Result is the outcome of a full remediation run. The dataset is the
// engine's own working copy; the caller's input is never mutated.
type Result struct {
	Dataset      *dataset.Dataset
	Log          []HistoryEntry
	Knowledge    Knowledge
	EpochsRun    int
	InitialScore float64
	FinalScore   float64
	Converged    bool
}

// Engine drives the score, evaluate, accept, repeat loop over a dataset.
type Engine struct {
	pol  *policy.Policy
	ds   *dataset.Dataset
	cfg  Config
	reg  *Registry
	eval *Evaluator
}

// New builds an engine over the default technique catalogue.
func New(pol *policy.Policy, ds *dataset.Dataset, cfg Config) *Engine {
	reg := DefaultRegistry()
	return &Engine{
		pol:  pol,
		ds:   ds,
		cfg:  cfg.withDefaults(),
		reg:  reg,
		eval: NewEvaluator(reg),
	}
}

// RegisterRemediationRule adds a custom variant to the engine's catalogue.
func (e *Engine) RegisterRemediationRule(group TypeGroup, category Category, v Variant) error {
	return e.reg.Register(group, category, v)
}

// RegisterMandatoryRule adds a custom always-applied rule. It must be
// idempotent.
func (e *Engine) RegisterMandatoryRule(group TypeGroup, v Variant) error {
	return e.reg.RegisterMandatory(group, v)
}

type acceptedChange struct {
	category  Category
	technique string
}

type columnResult struct {
	field    string
	values   []dataset.Value
	accepted []acceptedChange
}

// Run executes the remediation loop until convergence, epoch exhaustion, or
// context cancellation.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	working := e.ds.Clone()
	kb := LoadKnowledge(e.cfg.KnowledgeFile)

	initial := quality.BuildReport(e.pol, working)
	log := []HistoryEntry{{Epoch: "Initial", Report: initial}}
	zap.L().Info("remediate: initial report",
		zap.Float64("global_score", initial.GlobalScore),
		zap.Int("fields", initial.TotalFields))

	e.applyMandatory(working, kb)
	prev := quality.BuildReport(e.pol, working)

	epochsRun := 0
	converged := false

	for epoch := 1; epoch <= e.cfg.MaxEpochs; epoch++ {
		// Partial progress is still persisted when a run is cut short.
		if err := ctx.Err(); err != nil {
			e.persist(log, kb)
			return nil, eris.Wrap(err, "remediate: run cancelled")
		}

		targets := e.targets(working, prev)
		if len(targets) == 0 {
			converged = true
			zap.L().Info("remediate: all fields above threshold, converged",
				zap.Int("epoch", epoch-1))
			break
		}

		results := make([]*columnResult, len(targets))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.Workers)
		for ti, name := range targets {
			ti := ti
			field, _ := e.pol.Field(name)
			values, _ := working.Column(name)
			fr, _ := prev.Field(name)
			g.Go(func() error {
				res, err := e.remediateColumn(gctx, field, values, fr.Score)
				if err != nil {
					return err
				}
				results[ti] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			e.persist(log, kb)
			return nil, eris.Wrap(err, "remediate: epoch aborted")
		}

		// Single-writer merge, column order.
		for _, res := range results {
			if res == nil || len(res.accepted) == 0 {
				continue
			}
			if err := working.SetColumn(res.field, res.values); err != nil {
				zap.L().Warn("remediate: merge failed",
					zap.String("field", res.field),
					zap.Error(err))
				continue
			}
			for _, acc := range res.accepted {
				kb.Append(res.field, acc.category, acc.technique)
			}
		}

		report := quality.BuildReport(e.pol, working)
		log = append(log, HistoryEntry{
			Epoch:  fmt.Sprintf("Iteration_%d", epoch),
			Report: report,
		})
		epochsRun = epoch

		improvement := report.GlobalScore - prev.GlobalScore
		zap.L().Info("remediate: epoch complete",
			zap.Int("epoch", epoch),
			zap.Float64("global_score", report.GlobalScore),
			zap.Float64("improvement", improvement))
		prev = report

		if improvement < e.cfg.ImprovementThreshold {
			converged = true
			break
		}
	}

	e.persist(log, kb)

	return &Result{
		Dataset:      working,
		Log:          log,
		Knowledge:    kb,
		EpochsRun:    epochsRun,
		InitialScore: initial.GlobalScore,
		FinalScore:   prev.GlobalScore,
		Converged:    converged,
	}, nil
}

// applyMandatory runs the always-on rules once, before the first epoch.
// Failures skip the rule, never the run.
func (e *Engine) applyMandatory(working *dataset.Dataset, kb Knowledge) {
	for _, field := range e.pol.Fields {
		if !e.inScope(field.FieldName) {
			continue
		}
		values, ok := working.Column(field.FieldName)
		if !ok {
			continue
		}
		group, ok := GroupFor(dataset.Infer(values))
		if !ok {
			continue
		}
		for _, rule := range e.reg.Mandatory(group) {
			out, desc, err := rule.Apply(values)
			if err != nil {
				zap.L().Warn("remediate: mandatory rule failed, skipping",
					zap.String("field", field.FieldName),
					zap.String("rule", rule.Name),
					zap.Error(err))
				continue
			}
			values = out
			if err := working.SetColumn(field.FieldName, values); err != nil {
				zap.L().Warn("remediate: mandatory write failed",
					zap.String("field", field.FieldName),
					zap.Error(err))
				continue
			}
			kb.Append(field.FieldName, CategoryMandatory, rule.Name)
			zap.L().Debug("remediate: mandatory rule applied",
				zap.String("field", field.FieldName),
				zap.String("rule", rule.Name),
				zap.String("detail", desc))
		}
	}
}

// targets returns the in-scope fields still scoring below the threshold, in
// policy order.
func (e *Engine) targets(working *dataset.Dataset, prev *quality.Report) []string {
	var out []string
	for _, field := range e.pol.Fields {
		if !e.inScope(field.FieldName) {
			continue
		}
		if !working.Has(field.FieldName) {
			continue
		}
		fr, ok := prev.Field(field.FieldName)
		if !ok || fr.Missing {
			continue
		}
		if fr.Score < e.cfg.LowScoreThreshold {
			out = append(out, field.FieldName)
		}
	}
	return out
}

func (e *Engine) inScope(name string) bool {
	if len(e.cfg.IncludeFields) > 0 {
		found := false
		for _, f := range e.cfg.IncludeFields {
			if f == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, f := range e.cfg.ExcludeFields {
		if f == name {
			return false
		}
	}
	return true
}

// remediateColumn evaluates the four categories in order against one
// column's working copy. Each accepted change feeds the next category, but
// acceptance is always judged against the column's start-of-epoch score.
func (e *Engine) remediateColumn(ctx context.Context, field policy.Field, values []dataset.Value, baseline float64) (*columnResult, error) {
	current := dataset.CloneValues(values)
	res := &columnResult{field: field.FieldName, values: current}

	for _, category := range EvalCategories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		group, ok := GroupFor(dataset.Infer(current))
		if !ok {
			break
		}

		cands, err := e.eval.Evaluate(current, group, category)
		if err != nil {
			return nil, err
		}
		best := SelectBest(cands, group, category)
		if best == nil {
			continue
		}

		_, newScore := quality.ScoreField(field, best.Values)
		if newScore-baseline <= e.cfg.ImprovementThreshold {
			zap.L().Debug("remediate: candidate rejected",
				zap.String("field", field.FieldName),
				zap.String("category", string(category)),
				zap.String("technique", best.Name),
				zap.Float64("score", newScore),
				zap.Float64("baseline", baseline))
			continue
		}

		current = best.Values
		res.values = current
		res.accepted = append(res.accepted, acceptedChange{category, best.Name})
		zap.L().Info("remediate: candidate accepted",
			zap.String("field", field.FieldName),
			zap.String("category", string(category)),
			zap.String("technique", best.Name),
			zap.Float64("score", newScore),
			zap.Float64("baseline", baseline))
	}
	return res, nil
}

// persist writes the iteration log and knowledge base. Persistence failures
// are logged, not fatal: the in-memory result is already complete.
func (e *Engine) persist(log []HistoryEntry, kb Knowledge) {
	if data, err := json.MarshalIndent(log, "", "  "); err != nil {
		zap.L().Warn("remediate: marshal iteration history failed", zap.Error(err))
	} else if err := os.WriteFile(e.cfg.HistoryFile, data, 0o644); err != nil {
		zap.L().Warn("remediate: write iteration history failed",
			zap.String("path", e.cfg.HistoryFile),
			zap.Error(err))
	}

	if err := kb.Save(e.cfg.KnowledgeFile); err != nil {
		zap.L().Warn("remediate: save knowledge base failed",
			zap.String("path", e.cfg.KnowledgeFile),
			zap.Error(err))
	}
}
