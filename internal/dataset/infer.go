package dataset

// Kind is the runtime type inferred for a column by coercibility probing.
type Kind string

const (
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindBoolean  Kind = "boolean"
	KindDatetime Kind = "datetime"
	KindString   Kind = "string"
	KindUnknown  Kind = "unknown"
)

// Infer probes the non-null values of a column and returns the narrowest
// kind every value coerces to, in the order integer, float, boolean,
// datetime, string. A column with no non-null values is unknown.
func Infer(values []Value) Kind {
	probed := false
	isInt, isFloat, isBool, isTime := true, true, true, true

	for _, v := range values {
		if IsNull(v) {
			continue
		}
		probed = true

		if isInt {
			if _, ok := AsInt(v); !ok {
				isInt = false
			}
		}
		if isFloat {
			if _, ok := AsFloat(v); !ok {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := AsBool(v); !ok {
				isBool = false
			}
		}
		if isTime {
			// Numbers are always epoch-coercible; only native timestamps
			// and parseable strings count as datetime evidence.
			switch v.(type) {
			case int64, float64, int:
				isTime = false
			default:
				if _, ok := AsTime(v); !ok {
					isTime = false
				}
			}
		}
		if !isInt && !isFloat && !isBool && !isTime {
			return KindString
		}
	}

	if !probed {
		return KindUnknown
	}
	switch {
	case isInt:
		return KindInteger
	case isFloat:
		return KindFloat
	case isBool:
		return KindBoolean
	case isTime:
		return KindDatetime
	default:
		return KindString
	}
}
