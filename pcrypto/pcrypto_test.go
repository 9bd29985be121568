package pcrypto

import (
	"bytes"
	"testing"
)

func key16() []byte { return bytes.Repeat([]byte{0x42}, 16) }

func TestEncryptDecryptGCMRoundTrip(t *testing.T) {
	key := key16()
	aad := []byte("column metadata aad")
	plaintext := []byte("row group footer bytes")

	sealed, err := EncryptGCM(key, aad, plaintext)
	if err != nil {
		t.Fatalf("EncryptGCM: %v", err)
	}
	// nonce(12) + plaintext + tag(16)
	if len(sealed) != 12+len(plaintext)+16 {
		t.Fatalf("len(sealed) = %d, want %d", len(sealed), 12+len(plaintext)+16)
	}

	got, err := DecryptGCM(key, aad, sealed)
	if err != nil {
		t.Fatalf("DecryptGCM: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("DecryptGCM = %q, want %q", got, plaintext)
	}
}

func TestDecryptGCMRejectsWrongAAD(t *testing.T) {
	key := key16()
	sealed, err := EncryptGCM(key, []byte("aad-a"), []byte("secret"))
	if err != nil {
		t.Fatalf("EncryptGCM: %v", err)
	}
	if _, err := DecryptGCM(key, []byte("aad-b"), sealed); err != ErrTagMismatch {
		t.Fatalf("DecryptGCM with mismatched aad = %v, want ErrTagMismatch", err)
	}
}

func TestDecryptGCMRejectsTamperedCiphertext(t *testing.T) {
	key := key16()
	aad := []byte("aad")
	sealed, err := EncryptGCM(key, aad, []byte("secret"))
	if err != nil {
		t.Fatalf("EncryptGCM: %v", err)
	}
	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xFF
	if _, err := DecryptGCM(key, aad, tampered); err != ErrTagMismatch {
		t.Fatalf("DecryptGCM on tampered ciphertext = %v, want ErrTagMismatch", err)
	}
}

func TestDecryptGCMRejectsShortInput(t *testing.T) {
	if _, err := DecryptGCM(key16(), nil, []byte{1, 2, 3}); err != ErrTagMismatch {
		t.Fatalf("DecryptGCM on undersized input = %v, want ErrTagMismatch", err)
	}
}

func TestEncryptDecryptCTRRoundTrip(t *testing.T) {
	key := key16()
	plaintext := []byte("page bytes without a tag")

	sealed, err := EncryptCTR(key, plaintext)
	if err != nil {
		t.Fatalf("EncryptCTR: %v", err)
	}
	// CTR is length-preserving beyond the 12-byte nonce prefix: no tag.
	if len(sealed) != 12+len(plaintext) {
		t.Fatalf("len(sealed) = %d, want %d", len(sealed), 12+len(plaintext))
	}

	got, err := DecryptCTR(key, sealed)
	if err != nil {
		t.Fatalf("DecryptCTR: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("DecryptCTR = %q, want %q", got, plaintext)
	}
}

func TestDecryptCTRRejectsShortInput(t *testing.T) {
	if _, err := DecryptCTR(key16(), []byte{1, 2, 3}); err != ErrTagMismatch {
		t.Fatalf("DecryptCTR on undersized input = %v, want ErrTagMismatch", err)
	}
}

func TestModuleAADFooterIgnoresOrdinals(t *testing.T) {
	a := ModuleAAD([]byte("prefix"), ModuleFooter, 5, 9, 9)
	b := ModuleAAD([]byte("prefix"), ModuleFooter, 0, -1, -1)
	if !bytes.Equal(a, b) {
		t.Fatalf("ModuleAAD for ModuleFooter should ignore ordinals: %x != %x", a, b)
	}
}

func TestModuleAADDiffersByOrdinal(t *testing.T) {
	a := ModuleAAD(nil, ModuleDataPage, 0, 1, 2)
	b := ModuleAAD(nil, ModuleDataPage, 0, 1, 3)
	if bytes.Equal(a, b) {
		t.Fatal("ModuleAAD should differ when the page ordinal differs")
	}
}

func TestModuleAADOmitsColumnAndPageOrdinalsWhenNegative(t *testing.T) {
	a := ModuleAAD(nil, ModuleColumnMetaData, 2, -1, -1)
	// module byte (1) + row group ordinal (2 bytes) = 3 bytes total
	if len(a) != 3 {
		t.Fatalf("len(ModuleAAD) = %d, want 3 when column/page ordinals are omitted", len(a))
	}
}
