package parquet_test

import (
	"bytes"
	"testing"

	"github.com/columnar-go/parquetwrite"
	"github.com/columnar-go/parquetwrite/format"
)

func userSchema(t *testing.T) *parquet.Schema {
	t.Helper()
	root := parquet.NewGroup("user", parquet.Required,
		parquet.NewLeaf("id", parquet.Required, parquet.Int64, nil),
		parquet.NewLeaf("name", parquet.Optional, parquet.ByteArray, &parquet.LogicalType{UTF8: true}),
		parquet.NewLeaf("score", parquet.Optional, parquet.Double, nil),
	)
	s, err := parquet.NewSchema("user", root)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func writeUser(t *testing.T, wr *parquet.Writer, id int64, name string, hasName bool, score float64, hasScore bool) {
	t.Helper()
	events := []parquet.RecordEvent{
		parquet.StartMessage(),
		parquet.StartField("id", 0),
		parquet.AddValue(parquet.Int64Value(id, 0, 0)),
		parquet.EndField(),
	}
	if hasName {
		events = append(events,
			parquet.StartField("name", 1),
			parquet.AddValue(parquet.ByteArrayValue([]byte(name), 0, 0)),
			parquet.EndField(),
		)
	}
	if hasScore {
		events = append(events,
			parquet.StartField("score", 2),
			parquet.AddValue(parquet.DoubleValue(score, 0, 0)),
			parquet.EndField(),
		)
	}
	events = append(events, parquet.EndMessage())
	if err := wr.WriteRecord(events); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
}

func TestWriterEndToEndProducesDecodableFooter(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	wr, err := parquet.NewWriter(&buf, schema,
		parquet.WithCompression(format.Uncompressed),
		parquet.WithDictionaryEncoding(true),
		parquet.WithVerifyChecksums(true),
		parquet.WithBloomFilter("name", 100, 0.01),
	)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	writeUser(t, wr, 1, "alice", true, 9.5, true)
	writeUser(t, wr, 2, "bob", true, 0, false)
	writeUser(t, wr, 3, "", false, 3.25, true)

	if err := wr.Close(map[string]string{"k": "v"}); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.Bytes()
	if len(out) < 12 {
		t.Fatalf("output too small: %d bytes", len(out))
	}
	if string(out[:4]) != "PAR1" {
		t.Fatalf("leading magic = %q, want PAR1", out[:4])
	}
	if string(out[len(out)-4:]) != "PAR1" {
		t.Fatalf("trailing magic = %q, want PAR1", out[len(out)-4:])
	}

	footerLen := int(uint32(out[len(out)-8]) | uint32(out[len(out)-7])<<8 | uint32(out[len(out)-6])<<16 | uint32(out[len(out)-5])<<24)
	footerStart := len(out) - 8 - footerLen
	if footerStart < 4 {
		t.Fatalf("implausible footer length %d", footerLen)
	}
	footerBytes := out[footerStart : footerStart+footerLen]

	fmd, err := format.DecodeFileMetaData(footerBytes)
	if err != nil {
		t.Fatalf("DecodeFileMetaData: %v", err)
	}
	if fmd.NumRows != 3 {
		t.Errorf("NumRows = %d, want 3", fmd.NumRows)
	}
	if len(fmd.Schema) == 0 {
		t.Error("expected a non-empty schema element list")
	}
	if len(fmd.RowGroups) != 1 {
		t.Fatalf("RowGroups = %d, want 1", len(fmd.RowGroups))
	}
	rg := fmd.RowGroups[0]
	if len(rg.Columns) != 3 {
		t.Fatalf("Columns = %d, want 3", len(rg.Columns))
	}
	nameChunk := rg.Columns[1]
	if !nameChunk.MetaData.HasBloomFilterOffset {
		t.Error("expected the name column to carry a bloom filter offset")
	}
	if !nameChunk.HasColumnIndexOffset || !nameChunk.HasOffsetIndexOffset {
		t.Error("expected the name column to carry column/offset index offsets")
	}

	foundKV := false
	for _, kv := range fmd.KeyValueMetadata {
		if kv.Key == "k" && kv.Value == "v" {
			foundKV = true
		}
	}
	if !foundKV {
		t.Error("expected extra key/value metadata to survive into the footer")
	}
}

func TestWriterFlushRotatesRowGroups(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	wr, err := parquet.NewWriter(&buf, schema)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	writeUser(t, wr, 1, "alice", true, 1, true)
	if err := wr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	writeUser(t, wr, 2, "bob", true, 2, true)
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.Bytes()
	footerLen := int(uint32(out[len(out)-8]) | uint32(out[len(out)-7])<<8 | uint32(out[len(out)-6])<<16 | uint32(out[len(out)-5])<<24)
	footerBytes := out[len(out)-8-footerLen : len(out)-8]
	fmd, err := format.DecodeFileMetaData(footerBytes)
	if err != nil {
		t.Fatalf("DecodeFileMetaData: %v", err)
	}
	if len(fmd.RowGroups) != 2 {
		t.Fatalf("RowGroups = %d, want 2 after an explicit Flush", len(fmd.RowGroups))
	}
	if fmd.NumRows != 2 {
		t.Errorf("NumRows = %d, want 2", fmd.NumRows)
	}
}
