package parquet_test

import (
	"bytes"
	"testing"

	"github.com/columnar-go/parquetwrite"
	"github.com/columnar-go/parquetwrite/format"
	"github.com/columnar-go/parquetwrite/pcrypto"
)

func footerKey() []byte { return bytes.Repeat([]byte{0x11}, 16) }

// decryptedFooter splits an encrypted trailer's [cryptoBytes|sealed]
// region by brute-forcing the cryptoBytes/sealed boundary: the region's
// total length is known from the footer-length field, and GCM's tag
// check rejects every split but the true one.
func decryptedFooter(t *testing.T, footerRegion []byte, key []byte, aad []byte) *format.FileMetaData {
	t.Helper()
	const minSealed = 12 + 16 // nonce + tag, zero-length plaintext
	for split := 0; split <= len(footerRegion)-minSealed; split++ {
		plain, err := pcrypto.DecryptGCM(key, aad, footerRegion[split:])
		if err != nil {
			continue
		}
		fmd, err := format.DecodeFileMetaData(plain)
		if err != nil {
			continue
		}
		return fmd
	}
	t.Fatal("could not locate a cryptoMetaData/sealed-footer split that decrypts and decodes")
	return nil
}

func trailerRegion(t *testing.T, out []byte, wantMagic string) []byte {
	t.Helper()
	if string(out[len(out)-4:]) != wantMagic {
		t.Fatalf("trailing magic = %q, want %q", out[len(out)-4:], wantMagic)
	}
	footerLen := int(uint32(out[len(out)-8]) | uint32(out[len(out)-7])<<8 | uint32(out[len(out)-6])<<16 | uint32(out[len(out)-5])<<24)
	start := len(out) - 8 - footerLen
	if start < 4 {
		t.Fatalf("implausible footer length %d", footerLen)
	}
	return out[start : start+footerLen]
}

func TestWriterUniformEncryptionProducesDecryptableFooter(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	enc := &parquet.EncryptionConfig{
		Algorithm: pcrypto.AesGcmV1,
		FooterKey: footerKey(),
	}
	wr, err := parquet.NewWriter(&buf, schema, parquet.WithEncryption(enc))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	writeUser(t, wr, 1, "alice", true, 9.5, true)
	writeUser(t, wr, 2, "bob", true, 1, true)
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.Bytes()
	region := trailerRegion(t, out, "PARE")
	aad := pcrypto.ModuleAAD(enc.AADPrefix, pcrypto.ModuleFooter, 0, -1, -1)
	fmd := decryptedFooter(t, region, enc.FooterKey, aad)
	if fmd.NumRows != 2 {
		t.Errorf("NumRows = %d, want 2", fmd.NumRows)
	}
}

func TestWriterPerColumnEncryptionProducesDecryptableFooter(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	enc := &parquet.EncryptionConfig{
		Algorithm: pcrypto.AesGcmCtrV1,
		FooterKey: footerKey(),
		Columns: []parquet.ColumnEncryptionProperties{
			{ColumnPath: []string{"name"}, Key: bytes.Repeat([]byte{0x22}, 16)},
		},
	}
	wr, err := parquet.NewWriter(&buf, schema, parquet.WithEncryption(enc))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	writeUser(t, wr, 1, "alice", true, 9.5, true)
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.Bytes()
	region := trailerRegion(t, out, "PARE")
	// The footer itself is always sealed with GCM regardless of the page
	// algorithm (pcrypto.ModuleFooter always takes the GCM branch).
	aad := pcrypto.ModuleAAD(enc.AADPrefix, pcrypto.ModuleFooter, 0, -1, -1)
	fmd := decryptedFooter(t, region, enc.FooterKey, aad)
	if fmd.NumRows != 1 {
		t.Errorf("NumRows = %d, want 1", fmd.NumRows)
	}
}

func TestWriterPlaintextFooterOptionSkipsEncryptingTheFooter(t *testing.T) {
	schema := userSchema(t)
	var buf bytes.Buffer

	enc := &parquet.EncryptionConfig{
		Algorithm:       pcrypto.AesGcmV1,
		FooterKey:       footerKey(),
		PlaintextFooter: true,
	}
	wr, err := parquet.NewWriter(&buf, schema, parquet.WithEncryption(enc))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	writeUser(t, wr, 1, "alice", true, 9.5, true)
	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.Bytes()
	// PlaintextFooter writes the ordinary PAR1 trailer even though
	// encryption is configured: the footer bytes decode directly.
	region := trailerRegion(t, out, "PAR1")
	fmd, err := format.DecodeFileMetaData(region)
	if err != nil {
		t.Fatalf("DecodeFileMetaData on plaintext footer: %v", err)
	}
	if fmd.NumRows != 1 {
		t.Errorf("NumRows = %d, want 1", fmd.NumRows)
	}
}
