package parquet

import (
	"bytes"
	"testing"

	"github.com/columnar-go/parquetwrite/pcrypto"
)

func TestKeyForColumnNilConfigIsUnencrypted(t *testing.T) {
	var e *EncryptionConfig
	key, encrypted := e.keyForColumn([]string{"a"})
	if encrypted || key != nil {
		t.Fatalf("keyForColumn on a nil config = %v, %v; want nil, false", key, encrypted)
	}
}

func TestKeyForColumnUniformModeUsesFooterKeyForEveryColumn(t *testing.T) {
	e := &EncryptionConfig{FooterKey: []byte("footer-key")}
	key, encrypted := e.keyForColumn([]string{"any", "path"})
	if !encrypted || !bytes.Equal(key, e.FooterKey) {
		t.Fatalf("keyForColumn in uniform mode = %v, %v; want FooterKey, true", key, encrypted)
	}
}

func TestKeyForColumnPerColumnModeOnlyEncryptsListedColumns(t *testing.T) {
	e := &EncryptionConfig{
		FooterKey: []byte("footer-key"),
		Columns: []ColumnEncryptionProperties{
			{ColumnPath: []string{"user", "ssn"}, Key: []byte("ssn-key")},
		},
	}

	key, encrypted := e.keyForColumn([]string{"user", "ssn"})
	if !encrypted || !bytes.Equal(key, []byte("ssn-key")) {
		t.Fatalf("keyForColumn(user.ssn) = %v, %v; want ssn-key, true", key, encrypted)
	}

	_, encrypted = e.keyForColumn([]string{"user", "name"})
	if encrypted {
		t.Fatal("a column not listed in per-column mode should not be encrypted")
	}
}

func TestPathEqual(t *testing.T) {
	if !pathEqual([]string{"a", "b"}, []string{"a", "b"}) {
		t.Fatal("identical paths should be equal")
	}
	if pathEqual([]string{"a", "b"}, []string{"a", "c"}) {
		t.Fatal("differing path elements should not be equal")
	}
	if pathEqual([]string{"a"}, []string{"a", "b"}) {
		t.Fatal("paths of differing length should not be equal")
	}
}

func TestEncryptModuleUsesGCMForFooterRegardlessOfAlgorithm(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 16)
	e := &EncryptionConfig{Algorithm: pcrypto.AesGcmCtrV1}
	ciphertext, err := e.encryptModule(key, []byte("aad"), []byte("plaintext"), pcrypto.ModuleFooter)
	if err != nil {
		t.Fatalf("encryptModule: %v", err)
	}
	// GCM ciphertext carries an authentication tag, so it is always longer
	// than the plaintext; CTR output is exactly plaintext-length.
	if len(ciphertext) <= len("plaintext") {
		t.Fatalf("expected GCM (tag-expanded) ciphertext for the footer module, got length %d", len(ciphertext))
	}
}

func TestEncryptModuleUsesCTRForPageModulesUnderGcmCtrAlgorithm(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 16)
	e := &EncryptionConfig{Algorithm: pcrypto.AesGcmCtrV1}
	plaintext := []byte("plaintext")
	ciphertext, err := e.encryptModule(key, []byte("aad"), plaintext, pcrypto.ModuleDataPage)
	if err != nil {
		t.Fatalf("encryptModule: %v", err)
	}
	if len(ciphertext) != len(plaintext) {
		t.Fatalf("expected CTR (length-preserving) ciphertext for a data page module, got length %d want %d", len(ciphertext), len(plaintext))
	}
}

func TestEncryptModuleUsesGCMForEveryModuleUnderGcmV1Algorithm(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 16)
	e := &EncryptionConfig{Algorithm: pcrypto.AesGcmV1}
	plaintext := []byte("plaintext")
	ciphertext, err := e.encryptModule(key, []byte("aad"), plaintext, pcrypto.ModuleDataPage)
	if err != nil {
		t.Fatalf("encryptModule: %v", err)
	}
	if len(ciphertext) <= len(plaintext) {
		t.Fatalf("expected GCM (tag-expanded) ciphertext for a data page module under AES_GCM_V1, got length %d", len(ciphertext))
	}
}
