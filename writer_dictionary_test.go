package parquet_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/columnar-go/parquetwrite"
	"github.com/columnar-go/parquetwrite/format"
)

// TestWriterDictionaryFallsBackOnceThresholdIsCrossed forces the id
// column's dictionary past its size cap and checks that the column
// chunk ends up carrying both RLE_DICTIONARY pages (written before the
// cap was hit) and the V2 fallback encoding (written after).
func TestWriterDictionaryFallsBackOnceThresholdIsCrossed(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	wr, err := parquet.NewWriter(&buf, schema,
		// Room for exactly 150 distinct int64s (8 bytes each): the first
		// 100-row page (the default V2 page-row-count check) fits inside
		// the cap entirely, and the second page overflows partway through,
		// falling the whole page back to DELTA_BINARY_PACKED.
		parquet.WithDictionarySize(150*8),
	)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	for i := int64(0); i < 300; i++ {
		writeUser(t, wr, i, fmt.Sprintf("name-%d", i), true, float64(i), true)
	}
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	fmd := decodeFooter(t, buf.Bytes())
	if len(fmd.RowGroups) != 1 {
		t.Fatalf("RowGroups = %d, want 1", len(fmd.RowGroups))
	}
	idChunk := fmd.RowGroups[0].Columns[0]

	hasDict := false
	hasFallback := false
	for _, e := range idChunk.MetaData.Encoding {
		switch e {
		case format.RLEDictionary:
			hasDict = true
		case format.DeltaBinaryPacked:
			hasFallback = true
		}
	}
	if !hasDict {
		t.Error("expected RLE_DICTIONARY among the id column's encodings before overflow")
	}
	if !hasFallback {
		t.Error("expected DELTA_BINARY_PACKED among the id column's encodings after dictionary overflow")
	}
	if !idChunk.MetaData.HasDictionaryPageOffset {
		t.Error("expected a dictionary page to have been written despite the later fallback")
	}
	assertDictionaryPagePrecedesDataPage(t, buf.Bytes(), idChunk)
}

// TestWriterNoFallbackWhenDictionaryFitsEntireChunk confirms the
// baseline: a generous dictionary cap never triggers the fallback path.
func TestWriterNoFallbackWhenDictionaryFitsEntireChunk(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	wr, err := parquet.NewWriter(&buf, schema)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for i := int64(0); i < 10; i++ {
		writeUser(t, wr, i, fmt.Sprintf("name-%d", i), true, float64(i), true)
	}
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	fmd := decodeFooter(t, buf.Bytes())
	idChunk := fmd.RowGroups[0].Columns[0]
	for _, e := range idChunk.MetaData.Encoding {
		if e == format.DeltaBinaryPacked {
			t.Error("did not expect a fallback encoding when the dictionary never overflows")
		}
	}
	assertDictionaryPagePrecedesDataPage(t, buf.Bytes(), idChunk)
}

// assertDictionaryPagePrecedesDataPage checks both that the chunk's
// recorded offsets put the dictionary page ahead of the first data page
// and that the bytes at those offsets actually decode as such: the
// dictionary page physically precedes every data page in a column chunk
// (spec §3, §4.6, §6).
func assertDictionaryPagePrecedesDataPage(t *testing.T, out []byte, chunk format.ColumnChunk) {
	t.Helper()
	if !chunk.MetaData.HasDictionaryPageOffset {
		t.Fatal("expected a dictionary page offset to assert ordering against")
	}
	if chunk.MetaData.DictionaryPageOffset >= chunk.MetaData.DataPageOffset {
		t.Fatalf("DictionaryPageOffset (%d) >= DataPageOffset (%d), want dictionary page first",
			chunk.MetaData.DictionaryPageOffset, chunk.MetaData.DataPageOffset)
	}

	dictHeader := firstPageHeader(t, out, chunk.MetaData.DictionaryPageOffset)
	if dictHeader.Type != format.DictionaryPage {
		t.Fatalf("page at DictionaryPageOffset Type = %v, want DictionaryPage", dictHeader.Type)
	}

	dataHeader := firstPageHeader(t, out, chunk.MetaData.DataPageOffset)
	if dataHeader.Type != format.DataPage && dataHeader.Type != format.DataPageV2 {
		t.Fatalf("page at DataPageOffset Type = %v, want DataPage or DataPageV2", dataHeader.Type)
	}
}

// decodeFooter parses the trailer off a plaintext writer's output,
// shared across this file and writer_version_test.go.
func decodeFooter(t *testing.T, out []byte) *format.FileMetaData {
	t.Helper()
	if string(out[len(out)-4:]) != "PAR1" {
		t.Fatalf("trailing magic = %q, want PAR1", out[len(out)-4:])
	}
	footerLen := int(uint32(out[len(out)-8]) | uint32(out[len(out)-7])<<8 | uint32(out[len(out)-6])<<16 | uint32(out[len(out)-5])<<24)
	footerStart := len(out) - 8 - footerLen
	fmd, err := format.DecodeFileMetaData(out[footerStart : footerStart+footerLen])
	if err != nil {
		t.Fatalf("DecodeFileMetaData: %v", err)
	}
	return fmd
}
