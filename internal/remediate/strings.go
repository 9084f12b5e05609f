package remediate

import (
	"fmt"
	"sort"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/quality"
)

func noopString(values []dataset.Value) ([]dataset.Value, string, error) {
	return dataset.CloneValues(values), "column left unchanged", nil
}

// stringPositions extracts the non-null string renderings of a column along
// with their row positions.
func stringPositions(values []dataset.Value) (idx []int, ss []string) {
	for i, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		idx = append(idx, i)
		ss = append(ss, dataset.AsString(v))
	}
	return idx, ss
}

// groupRareCategories folds categories whose relative frequency falls below
// the 25th percentile of the frequency distribution into a shared "Other"
// bucket.
func groupRareCategories(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, ss := stringPositions(values)
	if len(ss) == 0 {
		return nil, "", eris.New("group_rare_categories: no string values")
	}

	counts := make(map[string]int)
	for _, s := range ss {
		counts[s]++
	}
	if len(counts) < 2 {
		return dataset.CloneValues(values), "single category, column unchanged", nil
	}

	freqs := make([]float64, 0, len(counts))
	total := float64(len(ss))
	for _, c := range counts {
		freqs = append(freqs, float64(c)/total)
	}
	cutoff := quality.Quantile(0.25, freqs)

	rare := make(map[string]bool)
	for cat, c := range counts {
		if float64(c)/total < cutoff {
			rare[cat] = true
		}
	}
	if len(rare) == 0 {
		return dataset.CloneValues(values), "no rare categories found", nil
	}

	out := dataset.CloneValues(values)
	grouped := 0
	for k, i := range idx {
		if rare[ss[k]] {
			out[i] = "Other"
			grouped++
		}
	}
	return out, fmt.Sprintf("grouped %d values across %d rare categories into Other", grouped, len(rare)), nil
}

// mergeSimilarCategories collapses near-duplicate category labels. Pairwise
// similarity above the 75th percentile of all pairwise similarities merges
// the later category into the earlier one (first-seen order).
func mergeSimilarCategories(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, ss := stringPositions(values)
	if len(ss) == 0 {
		return nil, "", eris.New("merge_similar_categories: no string values")
	}

	seen := make(map[string]bool)
	var cats []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			cats = append(cats, s)
		}
	}
	if len(cats) < 3 {
		return dataset.CloneValues(values), "too few categories to merge", nil
	}

	var sims []float64
	for a := 0; a < len(cats); a++ {
		for b := a + 1; b < len(cats); b++ {
			sims = append(sims, levenshtein.Similarity(cats[a], cats[b], nil))
		}
	}
	sort.Float64s(sims)
	threshold := quality.Quantile(0.75, sims)
	if threshold >= 1 {
		return dataset.CloneValues(values), "no distinct similar categories", nil
	}

	canon := make(map[string]string, len(cats))
	for _, c := range cats {
		canon[c] = c
	}
	merged := 0
	for a := 0; a < len(cats); a++ {
		if canon[cats[a]] != cats[a] {
			continue
		}
		for b := a + 1; b < len(cats); b++ {
			if canon[cats[b]] != cats[b] {
				continue
			}
			if levenshtein.Similarity(cats[a], cats[b], nil) > threshold {
				canon[cats[b]] = cats[a]
				merged++
			}
		}
	}
	if merged == 0 {
		return dataset.CloneValues(values), "no categories exceeded the similarity threshold", nil
	}

	out := dataset.CloneValues(values)
	for k, i := range idx {
		if c := canon[ss[k]]; c != ss[k] {
			out[i] = c
		}
	}
	return out, fmt.Sprintf("merged %d similar categories", merged), nil
}
