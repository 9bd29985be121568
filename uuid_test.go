package parquet_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"github.com/columnar-go/parquetwrite"
	"github.com/columnar-go/parquetwrite/format"
)

// TestWriterUUIDColumnRoundTripsThroughTheFooter writes a column built
// with NewUUID and checks the footer records it as a 16-byte
// FIXED_LEN_BYTE_ARRAY with the UUID logical type, matching the way the
// rest of the schema's logical-type leaves are verified.
func TestWriterUUIDColumnRoundTripsThroughTheFooter(t *testing.T) {
	root := parquet.NewGroup("event", parquet.Required,
		parquet.NewUUID("id", parquet.Required),
	)
	schema, err := parquet.NewSchema("event", root)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	var buf bytes.Buffer
	wr, err := parquet.NewWriter(&buf, schema)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for _, id := range ids {
		raw := id // local copy so &raw below is stable per iteration
		if err := wr.WriteRecord([]parquet.RecordEvent{
			parquet.StartMessage(),
			parquet.StartField("id", 0),
			parquet.AddValue(parquet.FixedLenByteArrayValue(raw[:], 0, 0)),
			parquet.EndField(),
			parquet.EndMessage(),
		}); err != nil {
			t.Fatalf("WriteRecord: %v", err)
		}
	}
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	fmd := decodeFooter(t, buf.Bytes())
	if fmd.NumRows != int64(len(ids)) {
		t.Fatalf("NumRows = %d, want %d", fmd.NumRows, len(ids))
	}

	// schemaElements() is pre-order: [0] is the "event" group, [1] is "id".
	idElement := fmd.Schema[1]
	if idElement.Type == nil || *idElement.Type != format.FixedLenByteArray {
		t.Fatalf("id column Type = %v, want FIXED_LEN_BYTE_ARRAY", idElement.Type)
	}
	if idElement.TypeLength == nil || *idElement.TypeLength != 16 {
		t.Fatalf("id column TypeLength = %v, want 16", idElement.TypeLength)
	}
	if idElement.LogicalType == nil || idElement.LogicalType.UUID == nil {
		t.Fatal("expected the id column to carry the UUID logical type")
	}

	idChunk := fmd.RowGroups[0].Columns[0]
	if idChunk.MetaData.Type != format.FixedLenByteArray {
		t.Errorf("column chunk Type = %v, want FIXED_LEN_BYTE_ARRAY", idChunk.MetaData.Type)
	}
}
