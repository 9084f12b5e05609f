package remediate

import (
	"fmt"

	"github.com/sells-group/quality-cli/internal/dataset"
)

// imputeBoolean builds an imputation variant that fills nulls with the given
// constant.
func imputeBoolean(fill bool) ApplyFunc {
	return func(values []dataset.Value) ([]dataset.Value, string, error) {
		out := dataset.CloneValues(values)
		filled := 0
		for i, v := range out {
			if dataset.IsNull(v) {
				out[i] = fill
				filled++
			}
		}
		return out, fmt.Sprintf("imputed %d nulls with %t", filled, fill), nil
	}
}
