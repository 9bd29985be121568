package parquet

import "math"

// Statistics accumulates per-column min/max/null_count/distinct_count
// across the pages of one column chunk (spec §4.5), using the
// comparator the column's Kind/LogicalType selects.
type Statistics struct {
	compare       Comparator
	hasMin        bool
	hasMax        bool
	min           Value
	max           Value
	nullCount     int64
	distinct      map[string]struct{} // nil unless distinct-count tracking is enabled
	trackDistinct bool
}

// NewStatistics returns a fresh accumulator for a column whose ordering
// is given by compare. trackDistinct enables the optional distinct-count
// pass (spec §4.5: "optional distinct count"), which costs an
// insertion-ordered set keyed by the value's encoded bytes.
func NewStatistics(compare Comparator, trackDistinct bool) *Statistics {
	s := &Statistics{compare: compare, trackDistinct: trackDistinct}
	if trackDistinct {
		s.distinct = make(map[string]struct{})
	}
	return s
}

// Observe folds one shredded value into the accumulator. Null values
// (IsNull) only affect NullCount; NaN float/double values are excluded
// from min/max entirely (spec §4.5).
func (s *Statistics) Observe(v Value) {
	if v.IsNull() {
		s.nullCount++
		return
	}
	if isNaN(v) {
		return
	}
	if !s.hasMin || s.compare(v, s.min) < 0 {
		s.min = v
		s.hasMin = true
	}
	if !s.hasMax || s.compare(v, s.max) > 0 {
		s.max = v
		s.hasMax = true
	}
	if s.trackDistinct {
		s.distinct[distinctKey(v)] = struct{}{}
	}
}

func distinctKey(v Value) string {
	switch v.kind {
	case Boolean:
		if v.boolean {
			return "1"
		}
		return "0"
	case Int32:
		return string([]byte{byte(v.int32), byte(v.int32 >> 8), byte(v.int32 >> 16), byte(v.int32 >> 24)})
	case Int64:
		b := make([]byte, 8)
		for i := range b {
			b[i] = byte(v.int64 >> (8 * i))
		}
		return string(b)
	case Int96:
		return string(v.int96[:])
	case Float:
		u := math.Float32bits(v.float32)
		b := make([]byte, 4)
		for i := range b {
			b[i] = byte(u >> (8 * i))
		}
		return string(b)
	case Double:
		u := math.Float64bits(v.float64)
		b := make([]byte, 8)
		for i := range b {
			b[i] = byte(u >> (8 * i))
		}
		return string(b)
	default:
		return string(v.bytes)
	}
}

// Min reports the current minimum and whether any non-null, non-NaN
// value has been observed.
func (s *Statistics) Min() (Value, bool) { return s.min, s.hasMin }

// Max reports the current maximum and whether any non-null, non-NaN
// value has been observed.
func (s *Statistics) Max() (Value, bool) { return s.max, s.hasMax }

func (s *Statistics) NullCount() int64 { return s.nullCount }

// DistinctCount reports the number of distinct non-null values observed
// and whether distinct tracking was enabled.
func (s *Statistics) DistinctCount() (int64, bool) {
	if !s.trackDistinct {
		return 0, false
	}
	return int64(len(s.distinct)), true
}

// Merge folds other's state into s, for multi-page rollup within a
// column chunk (spec §4.5: "min = min(a.min,b.min) ... null_count
// sums").
func (s *Statistics) Merge(other *Statistics) {
	if other.hasMin && (!s.hasMin || s.compare(other.min, s.min) < 0) {
		s.min = other.min
		s.hasMin = true
	}
	if other.hasMax && (!s.hasMax || s.compare(other.max, s.max) > 0) {
		s.max = other.max
		s.hasMax = true
	}
	s.nullCount += other.nullCount
	if s.trackDistinct && other.trackDistinct {
		for k := range other.distinct {
			s.distinct[k] = struct{}{}
		}
	}
}
