package remediate

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/quality-cli/internal/dataset"
)

// TypeGroup buckets the five declared field types into the four groups
// variants are registered under.
type TypeGroup string

const (
	GroupNumeric  TypeGroup = "numeric"
	GroupDatetime TypeGroup = "datetime"
	GroupBoolean  TypeGroup = "boolean"
	GroupString   TypeGroup = "string"
)

// Category is the remediation concern a variant addresses. Variants carry
// their category explicitly; nothing is ever inferred from variant names.
type Category string

const (
	CategoryMandatory     Category = "mandatory"
	CategoryImputation    Category = "imputation"
	CategoryNormalization Category = "normalization"
	CategoryOutlier       Category = "outlier"
	CategoryBias          Category = "bias"
)

// EvalCategories is the fixed evaluation order within an epoch. Later
// categories see the column state left by earlier accepted changes.
var EvalCategories = []Category{
	CategoryImputation,
	CategoryNormalization,
	CategoryOutlier,
	CategoryBias,
}

// Objective distinguishes how a normalization variant's output is judged.
type Objective string

const (
	// ObjectiveUnitInterval scores the fraction of values outside [0,1].
	ObjectiveUnitInterval Objective = "unit_interval"
	// ObjectiveStandardMoments scores |mean-0| + |std-1|.
	ObjectiveStandardMoments Objective = "standard_moments"
)

// ApplyFunc transforms a column copy and describes what it did. It must be
// total: internal failures surface as an error return, never a panic, and
// must leave the input untouched.
type ApplyFunc func(values []dataset.Value) ([]dataset.Value, string, error)

// Variant is a named, immutable remediation technique.
type Variant struct {
	Name      string
	Apply     ApplyFunc
	Objective Objective // normalization variants only
}

type registryKey struct {
	group    TypeGroup
	category Category
}

// Registry holds technique variants keyed by (type group, category), plus
// the distinguished always-applied mandatory rules per group. Registration
// order is selection tie-break order.
type Registry struct {
	variants  map[registryKey][]Variant
	mandatory map[TypeGroup][]Variant
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		variants:  make(map[registryKey][]Variant),
		mandatory: make(map[TypeGroup][]Variant),
	}
}

// Register adds a variant under the given group and category.
func (r *Registry) Register(group TypeGroup, category Category, v Variant) error {
	if !validGroup(group) {
		return eris.Errorf("registry: unknown type group %q", group)
	}
	if !validEvalCategory(category) {
		return eris.Errorf("registry: unknown category %q", category)
	}
	if v.Name == "" || v.Apply == nil {
		return eris.New("registry: variant needs a name and an apply function")
	}
	key := registryKey{group, category}
	r.variants[key] = append(r.variants[key], v)
	return nil
}

// RegisterMandatory adds an always-applied rule for the group. Mandatory
// rules must be idempotent.
func (r *Registry) RegisterMandatory(group TypeGroup, v Variant) error {
	if !validGroup(group) {
		return eris.Errorf("registry: unknown type group %q", group)
	}
	if v.Name == "" || v.Apply == nil {
		return eris.New("registry: variant needs a name and an apply function")
	}
	r.mandatory[group] = append(r.mandatory[group], v)
	return nil
}

// Variants returns the registered variants for a group and category, in
// registration order.
func (r *Registry) Variants(group TypeGroup, category Category) []Variant {
	return r.variants[registryKey{group, category}]
}

// Mandatory returns the always-applied rules for a group.
func (r *Registry) Mandatory(group TypeGroup) []Variant {
	return r.mandatory[group]
}

// DefaultRegistry returns a registry populated with the default technique
// catalogue.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Numeric.
	must(r.Register(GroupNumeric, CategoryImputation, Variant{Name: "impute_median", Apply: imputeMedian}))
	must(r.Register(GroupNumeric, CategoryOutlier, Variant{Name: "winsorize_iqr", Apply: winsorizeIQR}))
	must(r.Register(GroupNumeric, CategoryNormalization, Variant{Name: "normalize_minmax", Apply: normalizeMinMax, Objective: ObjectiveUnitInterval}))
	must(r.Register(GroupNumeric, CategoryNormalization, Variant{Name: "normalize_zscore", Apply: normalizeZScore, Objective: ObjectiveStandardMoments}))
	must(r.Register(GroupNumeric, CategoryBias, Variant{Name: "reduce_skew_log", Apply: reduceSkewLog}))
	must(r.Register(GroupNumeric, CategoryBias, Variant{Name: "reduce_skew_boxcox", Apply: reduceSkewBoxCox}))
	must(r.Register(GroupNumeric, CategoryBias, Variant{Name: "reduce_skew_yeojohnson", Apply: reduceSkewYeoJohnson}))
	must(r.Register(GroupNumeric, CategoryBias, Variant{Name: "quantile_normal", Apply: quantileNormal}))

	// Datetime.
	must(r.Register(GroupDatetime, CategoryImputation, Variant{Name: "impute_default_epoch", Apply: imputeDefaultEpoch}))
	must(r.Register(GroupDatetime, CategoryImputation, Variant{Name: "impute_mode_date", Apply: imputeModeDate}))
	must(r.Register(GroupDatetime, CategoryBias, Variant{Name: "reduce_temporal_skew", Apply: reduceTemporalSkew}))
	must(r.Register(GroupDatetime, CategoryBias, Variant{Name: "cyclical_canonicalize", Apply: cyclicalCanonicalize}))

	// Boolean.
	must(r.Register(GroupBoolean, CategoryImputation, Variant{Name: "impute_false", Apply: imputeBoolean(false)}))
	must(r.Register(GroupBoolean, CategoryImputation, Variant{Name: "impute_true", Apply: imputeBoolean(true)}))

	// String.
	must(r.Register(GroupString, CategoryBias, Variant{Name: "bias_noop", Apply: noopString}))
	must(r.Register(GroupString, CategoryBias, Variant{Name: "group_rare_categories", Apply: groupRareCategories}))
	must(r.Register(GroupString, CategoryBias, Variant{Name: "merge_similar_categories", Apply: mergeSimilarCategories}))

	// Mandatory rules.
	must(r.RegisterMandatory(GroupString, Variant{Name: "impute_empty_string", Apply: imputeEmptyString}))
	must(r.RegisterMandatory(GroupString, Variant{Name: "normalize_text", Apply: normalizeText}))

	return r
}

// GroupFor maps an inferred column kind onto its variant type group.
func GroupFor(kind dataset.Kind) (TypeGroup, bool) {
	switch kind {
	case dataset.KindInteger, dataset.KindFloat:
		return GroupNumeric, true
	case dataset.KindDatetime:
		return GroupDatetime, true
	case dataset.KindBoolean:
		return GroupBoolean, true
	case dataset.KindString:
		return GroupString, true
	default:
		return "", false
	}
}

func validGroup(g TypeGroup) bool {
	switch g {
	case GroupNumeric, GroupDatetime, GroupBoolean, GroupString:
		return true
	}
	return false
}

func validEvalCategory(c Category) bool {
	for _, ec := range EvalCategories {
		if c == ec {
			return true
		}
	}
	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
