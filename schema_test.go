package parquet

import "testing"

func simpleSchema(t *testing.T) *Schema {
	t.Helper()
	root := NewGroup("message", Required,
		NewLeaf("id", Required, Int64, nil),
		NewLeaf("name", Optional, ByteArray, &LogicalType{UTF8: true}),
		NewGroup("address", Optional,
			NewLeaf("city", Optional, ByteArray, &LogicalType{UTF8: true}),
			NewLeaf("zip", Optional, Int32, nil),
		),
		NewLeaf("tag", Repeated, ByteArray, &LogicalType{UTF8: true}),
	)
	s, err := NewSchema("test", root)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func TestSchemaColumnDerivation(t *testing.T) {
	s := simpleSchema(t)
	if s.NumColumns() != 5 {
		t.Fatalf("NumColumns() = %d, want 5", s.NumColumns())
	}
	want := []struct {
		path     string
		maxRep   int
		maxDef   int
	}{
		{"id", 0, 0},
		{"name", 0, 1},
		{"address.city", 0, 2},
		{"address.zip", 0, 2},
		{"tag", 1, 1},
	}
	for i, w := range want {
		col := s.Column(i)
		if col.PathString() != w.path {
			t.Errorf("column %d path = %q, want %q", i, col.PathString(), w.path)
		}
		if col.MaxRepetitionLevel != w.maxRep {
			t.Errorf("column %d (%s) maxRep = %d, want %d", i, w.path, col.MaxRepetitionLevel, w.maxRep)
		}
		if col.MaxDefinitionLevel != w.maxDef {
			t.Errorf("column %d (%s) maxDef = %d, want %d", i, w.path, col.MaxDefinitionLevel, w.maxDef)
		}
		if col.Index != i {
			t.Errorf("column %d index = %d, want %d", i, col.Index, i)
		}
	}
}

func TestNewSchemaRejectsDuplicateNames(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate child name")
		}
	}()
	NewGroup("message", Required,
		NewLeaf("id", Required, Int64, nil),
		NewLeaf("id", Required, Int32, nil),
	)
}

func TestNewDecimalRejectsInvalidScale(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on scale > precision")
		}
	}()
	NewDecimal("amount", Required, Int64, 0, 4, 10)
}

func TestNewFixedLenByteArrayRejectsZeroLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on zero length")
		}
	}()
	NewFixedLenByteArray("uuid", Required, 0, nil)
}
