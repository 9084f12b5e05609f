package remediate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/quality-cli/internal/dataset"
)

func imputeEmptyString(values []dataset.Value) ([]dataset.Value, string, error) {
	out := dataset.CloneValues(values)
	filled := 0
	for i, v := range out {
		if dataset.IsNull(v) {
			out[i] = ""
			filled++
		}
	}
	return out, fmt.Sprintf("imputed %d nulls with empty string", filled), nil
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText canonicalizes free text: lowercase, accents stripped,
// punctuation and symbols dropped, whitespace collapsed. Idempotent, so it is
// safe to re-apply every epoch.
func normalizeText(values []dataset.Value) ([]dataset.Value, string, error) {
	out := dataset.CloneValues(values)
	changed := 0
	for i, v := range out {
		if dataset.IsNull(v) {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		n := canonicalText(s)
		if n != s {
			out[i] = n
			changed++
		}
	}
	return out, fmt.Sprintf("normalized %d text values", changed), nil
}

func canonicalText(s string) string {
	s = strings.ToLower(s)
	if t, _, err := transform.String(deaccent, s); err == nil {
		s = t
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// dropped
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
