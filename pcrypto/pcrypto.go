// Package pcrypto implements spec §4.8's encryption module: AES-GCM-V1
// (every module authenticated) and AES-GCM-CTR-V1 (footer authenticated
// via GCM, page/header modules counter-mode only), per-module AAD
// derivation, and the KeyRetriever/KmsClientFactory seams for external
// key material.
//
// The nonce-prefixed Seal/Open shape mirrors grafana-pyroscope's
// pkg/frontend/vcs/encryption.go, the only AES-GCM code in the retrieved
// pack: aes.NewCipher, cipher.NewGCM, nonce as the Seal destination
// prefix.
package pcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// Algorithm selects between the two parquet-format encryption schemes.
type Algorithm int8

const (
	AesGcmV1 Algorithm = iota
	AesGcmCtrV1
)

// ModuleType identifies which part of the file an AAD suffix describes
// (spec §4.8).
type ModuleType int8

const (
	ModuleFooter ModuleType = iota
	ModuleColumnMetaData
	ModuleDataPage
	ModuleDictionaryPage
	ModuleDataPageHeader
	ModuleDictionaryPageHeader
	ModuleColumnIndex
	ModuleOffsetIndex
)

// ModuleAAD derives the per-module AAD suffix spec §4.8 describes:
// module type, row-group ordinal, column ordinal, and page ordinal
// (ordinals as big-endian uint16, matching parquet-format's reference
// AAD layout). columnOrdinal/pageOrdinal are -1 when not applicable
// (e.g. ModuleFooter).
func ModuleAAD(aadPrefix []byte, module ModuleType, rowGroupOrdinal, columnOrdinal, pageOrdinal int) []byte {
	suffix := make([]byte, 1, 8)
	suffix[0] = byte(module)
	if module == ModuleFooter {
		return append(append([]byte{}, aadPrefix...), suffix...)
	}
	suffix = appendOrdinal(suffix, rowGroupOrdinal)
	if columnOrdinal >= 0 {
		suffix = appendOrdinal(suffix, columnOrdinal)
	}
	if pageOrdinal >= 0 {
		suffix = appendOrdinal(suffix, pageOrdinal)
	}
	return append(append([]byte{}, aadPrefix...), suffix...)
}

func appendOrdinal(dst []byte, ordinal int) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(ordinal))
	return append(dst, tmp[:]...)
}

// EncryptGCM seals plaintext with AES-GCM, producing
// ⟨12-byte nonce | ciphertext | 16-byte tag⟩ (spec §4.8 layout).
func EncryptGCM(key, aad, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("pcrypto: generating nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, aad), nil
}

// DecryptGCM is the inverse of EncryptGCM, used by tests (spec testable
// property 7: "decrypt(encrypt(pt,...)) = pt"); the write path never
// calls it.
func DecryptGCM(key, aad, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	n := gcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrTagMismatch
	}
	nonce, ciphertext := sealed[:n], sealed[n:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrTagMismatch
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("pcrypto: %w", err)
	}
	return cipher.NewGCM(block)
}

// EncryptCTR applies AES-CTR without authentication, for AES_GCM_CTR_V1
// page/header modules (spec §4.8: "page/header modules use CTR without
// a tag"). Layout: ⟨12-byte nonce | ciphertext⟩; the nonce is followed
// by a 4-byte big-endian counter starting at 1 to form CTR's 16-byte IV.
func EncryptCTR(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("pcrypto: %w", err)
	}
	nonce := make([]byte, 12)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("pcrypto: generating nonce: %w", err)
	}
	iv := append(append([]byte{}, nonce...), 0, 0, 0, 1)
	stream := cipher.NewCTR(block, iv)
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)
	return append(nonce, ciphertext...), nil
}

// DecryptCTR is the inverse of EncryptCTR.
func DecryptCTR(key, sealed []byte) ([]byte, error) {
	if len(sealed) < 12 {
		return nil, ErrTagMismatch
	}
	nonce, ciphertext := sealed[:12], sealed[12:]
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("pcrypto: %w", err)
	}
	iv := append(append([]byte{}, nonce...), 0, 0, 0, 1)
	stream := cipher.NewCTR(block, iv)
	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}
