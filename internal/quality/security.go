package quality

import (
	"encoding/base64"
	"strings"

	"github.com/sells-group/quality-cli/internal/dataset"
	"github.com/sells-group/quality-cli/internal/policy"
)

const maskSuffix = "***"

// securityCompliance evaluates the field's declared security requirement
// against the observed values. Returns nil when the requirement is not
// checkable (no non-null values); fields with no requirement are compliant.
func securityCompliance(field policy.Field, values []dataset.Value) *bool {
	switch field.Security {
	case policy.SecurityEncrypted:
		// Encryption at rest is only observable on string payloads.
		if field.Type != policy.TypeString {
			return boolPtr(true)
		}
		checked := false
		for _, v := range values {
			if dataset.IsNull(v) {
				continue
			}
			checked = true
			if !isBase64(dataset.AsString(v)) {
				return boolPtr(false)
			}
		}
		if !checked {
			return nil
		}
		return boolPtr(true)

	case policy.SecurityMasked:
		checked := false
		for _, v := range values {
			if dataset.IsNull(v) {
				continue
			}
			checked = true
			s := dataset.AsString(v)
			if len(s) > 3 && !strings.HasSuffix(s, maskSuffix) {
				return boolPtr(false)
			}
		}
		if !checked {
			return nil
		}
		return boolPtr(true)

	default:
		return boolPtr(true)
	}
}

// isBase64 reports whether s looks like a standard base64 payload: length a
// multiple of four and strictly decodable. The empty string decodes to an
// empty payload, so imputed cells stay compliant.
func isBase64(s string) bool {
	if len(s)%4 != 0 {
		return false
	}
	_, err := base64.StdEncoding.Strict().DecodeString(s)
	return err == nil
}

func boolPtr(b bool) *bool { return &b }
