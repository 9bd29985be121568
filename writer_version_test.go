package parquet_test

import (
	"bytes"
	"testing"

	"github.com/columnar-go/parquetwrite"
	"github.com/columnar-go/parquetwrite/format"
)

// TestWriterV1PageHeaderConcatenatesLevelsAndValues checks the V1 page
// shape: a plain DataPageHeader with no separate rep/def level byte
// lengths, since V1 concatenates levels and values into one compressed
// blob (spec §4.2).
func TestWriterV1PageHeaderConcatenatesLevelsAndValues(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	wr, err := parquet.NewWriter(&buf, schema, parquet.WithVersion(parquet.V1))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	writeUser(t, wr, 1, "alice", true, 1, true)
	writeUser(t, wr, 2, "bob", true, 2, true)
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.Bytes()
	fmd := decodeFooter(t, out)
	nameChunk := fmd.RowGroups[0].Columns[1]

	ph := firstPageHeader(t, out, nameChunk.MetaData.DataPageOffset)
	if ph.Type != format.DataPage {
		t.Fatalf("page Type = %v, want DataPage (V1)", ph.Type)
	}
	if ph.DataPageHeader == nil {
		t.Fatal("expected DataPageHeader to be populated for a V1 page")
	}
	if ph.DataPageHeaderV2 != nil {
		t.Fatal("did not expect DataPageHeaderV2 on a V1 page")
	}
}

// TestWriterV2PageHeaderExposesExplicitRowAndNullCounts checks the V2
// shape: DataPageHeaderV2 carries num_rows/num_nulls and separate level
// byte lengths, since V2 leaves levels uncompressed (spec §4.2).
func TestWriterV2PageHeaderExposesExplicitRowAndNullCounts(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	wr, err := parquet.NewWriter(&buf, schema) // V2 is the default
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	writeUser(t, wr, 1, "alice", true, 1, true)
	writeUser(t, wr, 2, "", false, 2, true)
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.Bytes()
	fmd := decodeFooter(t, out)
	nameChunk := fmd.RowGroups[0].Columns[1]

	ph := firstPageHeader(t, out, nameChunk.MetaData.DataPageOffset)
	if ph.Type != format.DataPageV2 {
		t.Fatalf("page Type = %v, want DataPageV2", ph.Type)
	}
	if ph.DataPageHeaderV2 == nil {
		t.Fatal("expected DataPageHeaderV2 to be populated for a V2 page")
	}
	if ph.DataPageHeaderV2.NumRows != 2 {
		t.Errorf("NumRows = %d, want 2", ph.DataPageHeaderV2.NumRows)
	}
	if ph.DataPageHeaderV2.NumNulls != 1 {
		t.Errorf("NumNulls = %d, want 1 (one null name)", ph.DataPageHeaderV2.NumNulls)
	}
	if ph.DataPageHeader != nil {
		t.Fatal("did not expect a V1 DataPageHeader on a V2 page")
	}
}

func firstPageHeader(t *testing.T, fileBytes []byte, offset int64) *format.PageHeader {
	t.Helper()
	ph, _, err := format.DecodePageHeader(fileBytes[offset:])
	if err != nil {
		t.Fatalf("DecodePageHeader: %v", err)
	}
	return ph
}
