package quality

import (
	"go.uber.org/zap"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/policy"
)

// FieldReport is the scored view of one policy field for one pass.
type FieldReport struct {
	FieldName string  `json:"field_name"`
	Missing   bool    `json:"missing,omitempty"`
	Metrics   Metrics `json:"metrics"`
	Score     float64 `json:"quality_score"`
}

// Report is a full-dataset quality report: one entry per policy field, in
// policy order, plus the unweighted global average. Reports are views over
// a dataset snapshot and are recomputed after every mutation.
type Report struct {
	Fields      []FieldReport `json:"fields"`
	GlobalScore float64       `json:"global_score"`
	TotalFields int           `json:"total_fields"`
}

// Field returns the report entry for the named field.
func (r *Report) Field(name string) (FieldReport, bool) {
	for _, f := range r.Fields {
		if f.FieldName == name {
			return f, true
		}
	}
	return FieldReport{}, false
}

// BuildReport scores every policy field against the dataset. Fields absent
// from the dataset are flagged missing and excluded from the global average.
func BuildReport(pol *policy.Policy, ds *dataset.Dataset) *Report {
	rep := &Report{TotalFields: len(pol.Fields)}

	var sum float64
	var scored int
	for _, field := range pol.Fields {
		values, ok := ds.Column(field.FieldName)
		if !ok {
			zap.L().Warn("quality: policy field missing from dataset",
				zap.String("field", field.FieldName))
			rep.Fields = append(rep.Fields, FieldReport{
				FieldName: field.FieldName,
				Missing:   true,
			})
			continue
		}

		metrics, score := ScoreField(field, values)
		rep.Fields = append(rep.Fields, FieldReport{
			FieldName: field.FieldName,
			Metrics:   metrics,
			Score:     score,
		})
		sum += score
		scored++
	}

	if scored > 0 {
		rep.GlobalScore = sum / float64(scored)
	}
	return rep
}
