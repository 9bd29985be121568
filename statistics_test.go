package parquet

import "testing"

func int64Col() *ColumnDescriptor {
	return &ColumnDescriptor{Node: NewLeaf("v", Optional, Int64, nil)}
}

func TestStatisticsTracksMinMaxAndNullCount(t *testing.T) {
	s := NewStatistics(comparatorFor(int64Col()), false)
	s.Observe(Int64Value(5, 0, 1))
	s.Observe(Int64Value(-3, 0, 1))
	s.Observe(Int64Value(10, 0, 1))
	s.Observe(NullValue(0, 0))

	min, hasMin := s.Min()
	max, hasMax := s.Max()
	if !hasMin || min.Int64() != -3 {
		t.Fatalf("Min() = %v, %v; want -3, true", min.Int64(), hasMin)
	}
	if !hasMax || max.Int64() != 10 {
		t.Fatalf("Max() = %v, %v; want 10, true", max.Int64(), hasMax)
	}
	if s.NullCount() != 1 {
		t.Fatalf("NullCount() = %d, want 1", s.NullCount())
	}
}

func TestStatisticsExcludesNaNFromMinMax(t *testing.T) {
	col := &ColumnDescriptor{Node: NewLeaf("v", Optional, Double, nil)}
	s := NewStatistics(comparatorFor(col), false)
	s.Observe(DoubleValue(1.5, 0, 1))
	s.Observe(DoubleValue(nan(), 0, 1))
	s.Observe(DoubleValue(2.5, 0, 1))

	max, hasMax := s.Max()
	if !hasMax || max.Float64() != 2.5 {
		t.Fatalf("Max() = %v, %v; want 2.5, true (NaN should be excluded)", max.Float64(), hasMax)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestStatisticsDistinctCountOnlyWhenEnabled(t *testing.T) {
	s := NewStatistics(comparatorFor(int64Col()), true)
	s.Observe(Int64Value(1, 0, 1))
	s.Observe(Int64Value(1, 0, 1))
	s.Observe(Int64Value(2, 0, 1))

	dc, ok := s.DistinctCount()
	if !ok || dc != 2 {
		t.Fatalf("DistinctCount() = %d, %v; want 2, true", dc, ok)
	}

	disabled := NewStatistics(comparatorFor(int64Col()), false)
	if _, ok := disabled.DistinctCount(); ok {
		t.Fatal("DistinctCount should report false when tracking is disabled")
	}
}

func TestStatisticsMergeCombinesMinMaxAndNullCount(t *testing.T) {
	col := int64Col()
	a := NewStatistics(comparatorFor(col), false)
	a.Observe(Int64Value(5, 0, 1))
	a.Observe(NullValue(0, 0))

	b := NewStatistics(comparatorFor(col), false)
	b.Observe(Int64Value(-1, 0, 1))
	b.Observe(Int64Value(9, 0, 1))

	a.Merge(b)

	min, _ := a.Min()
	max, _ := a.Max()
	if min.Int64() != -1 {
		t.Errorf("merged Min() = %d, want -1", min.Int64())
	}
	if max.Int64() != 9 {
		t.Errorf("merged Max() = %d, want 9", max.Int64())
	}
	if a.NullCount() != 1 {
		t.Errorf("merged NullCount() = %d, want 1", a.NullCount())
	}
}
