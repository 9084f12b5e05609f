package remediate

import (
	"fmt"
	"math"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/quality-cli/internal/dataset"
)

var defaultEpoch = time.Unix(0, 0).UTC()

// timePositions extracts the coercible timestamps of a column along with
// their row positions.
func timePositions(values []dataset.Value) (idx []int, ts []time.Time) {
	for i, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		if t, ok := dataset.AsTime(v); ok {
			idx = append(idx, i)
			ts = append(ts, t)
		}
	}
	return idx, ts
}

func writeBackTimes(values []dataset.Value, idx []int, ts []time.Time) []dataset.Value {
	out := dataset.CloneValues(values)
	for k, i := range idx {
		out[i] = ts[k]
	}
	return out
}

func imputeDefaultEpoch(values []dataset.Value) ([]dataset.Value, string, error) {
	out := dataset.CloneValues(values)
	filled := 0
	for i, v := range out {
		if dataset.IsNull(v) {
			out[i] = defaultEpoch
			filled++
		}
	}
	return out, fmt.Sprintf("imputed %d nulls with default epoch date", filled), nil
}

// imputeModeDate fills nulls and epoch placeholders with the most common
// real date. Columns with no real dates keep the epoch default.
func imputeModeDate(values []dataset.Value) ([]dataset.Value, string, error) {
	_, ts := timePositions(values)

	counts := make(map[time.Time]int)
	var mode time.Time
	for _, t := range ts {
		if t.Equal(defaultEpoch) {
			continue
		}
		counts[t]++
		if counts[t] > counts[mode] || (counts[t] == counts[mode] && (mode.IsZero() || t.Before(mode))) {
			mode = t
		}
	}
	if mode.IsZero() {
		mode = defaultEpoch
	}

	out := dataset.CloneValues(values)
	filled := 0
	for i, v := range out {
		if dataset.IsNull(v) {
			out[i] = mode
			filled++
			continue
		}
		if t, ok := dataset.AsTime(v); ok && t.Equal(defaultEpoch) {
			out[i] = mode
			filled++
		}
	}
	return out, fmt.Sprintf("imputed %d nulls and defaults with modal date %s", filled, mode.Format("2006-01-02")), nil
}

// reduceTemporalSkew log-transforms each timestamp's offset from the
// earliest one and rescales back into the original range, compressing long
// tails in the gap distribution.
func reduceTemporalSkew(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, ts := timePositions(values)
	if len(ts) < 2 {
		return nil, "", eris.New("reduce_temporal_skew: too few timestamps")
	}

	min, max := ts[0], ts[0]
	for _, t := range ts {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	totalRange := max.Sub(min).Seconds()
	if totalRange == 0 {
		return nil, "", eris.New("reduce_temporal_skew: zero time range")
	}

	logs := make([]float64, len(ts))
	logMin, logMax := math.Inf(1), math.Inf(-1)
	for k, t := range ts {
		d := t.Sub(min).Seconds()
		if d == 0 {
			d = 1
		}
		logs[k] = math.Log(d)
		logMin = math.Min(logMin, logs[k])
		logMax = math.Max(logMax, logs[k])
	}
	logSpan := logMax - logMin
	if logSpan == 0 {
		return nil, "", eris.New("reduce_temporal_skew: degenerate log range")
	}

	out := make([]time.Time, len(ts))
	for k := range ts {
		norm := (logs[k] - logMin) / logSpan
		out[k] = min.Add(time.Duration(norm * totalRange * float64(time.Second)))
	}
	return writeBackTimes(values, idx, out), "logarithmic temporal skew reduction applied", nil
}

// cyclicalCanonicalize removes the dominant cyclic axis: when months vary it
// pins every date to the modal year; when only weekdays vary it maps dates
// onto a single reference week.
func cyclicalCanonicalize(values []dataset.Value) ([]dataset.Value, string, error) {
	idx, ts := timePositions(values)
	if len(ts) == 0 {
		return nil, "", eris.New("cyclical_canonicalize: no timestamps")
	}

	months := make(map[time.Month]struct{})
	weekdays := make(map[time.Weekday]struct{})
	yearCounts := make(map[int]int)
	for _, t := range ts {
		months[t.Month()] = struct{}{}
		weekdays[t.Weekday()] = struct{}{}
		yearCounts[t.Year()]++
	}

	switch {
	case len(months) > 1:
		refYear, refCount := 0, 0
		for y, c := range yearCounts {
			if c > refCount || (c == refCount && y < refYear) {
				refYear, refCount = y, c
			}
		}
		out := make([]time.Time, len(ts))
		for k, t := range ts {
			out[k] = time.Date(refYear, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		}
		return writeBackTimes(values, idx, out),
			fmt.Sprintf("canonicalized dates onto reference year %d", refYear), nil

	case len(weekdays) > 1:
		first := ts[0]
		// Monday-based week containing the first valid date.
		offset := (int(first.Weekday()) + 6) % 7
		refMonday := first.AddDate(0, 0, -offset).Truncate(24 * time.Hour)
		out := make([]time.Time, len(ts))
		for k, t := range ts {
			days := (int(t.Weekday()) + 6) % 7
			out[k] = refMonday.AddDate(0, 0, days)
		}
		return writeBackTimes(values, idx, out),
			fmt.Sprintf("canonicalized dates onto reference week of %s", refMonday.Format("2006-01-02")), nil

	default:
		return dataset.CloneValues(values), "no cyclic variation detected, column unchanged", nil
	}
}
