package parquet

import "github.com/columnar-go/parquetwrite/pcrypto"

// ColumnEncryptionProperties binds a column path to its own key in
// per-column key mode (spec §4.8).
type ColumnEncryptionProperties struct {
	ColumnPath   []string
	Key          []byte
	KeyMetadata  []byte
}

// EncryptionConfig configures the writer's encryption module (spec
// §4.8). Algorithm selects AES_GCM_V1 or AES_GCM_CTR_V1. FooterKey
// encrypts the footer in uniform mode, or unencrypted-column metadata in
// per-column mode; when len(Columns) == 0 every column uses FooterKey
// (uniform mode).
type EncryptionConfig struct {
	Algorithm       pcrypto.Algorithm
	FooterKey       []byte
	FooterKeyMetadata []byte
	Columns         []ColumnEncryptionProperties
	AADPrefix       []byte
	// StoreAADPrefix persists AADPrefix in the footer/crypto-metadata so
	// a reader need not be told it out of band.
	StoreAADPrefix  bool
	PlaintextFooter bool
}

// keyForColumn returns the key and whether the column is encrypted at
// all under this configuration.
func (e *EncryptionConfig) keyForColumn(path []string) (key []byte, encrypted bool) {
	if e == nil {
		return nil, false
	}
	if len(e.Columns) == 0 {
		return e.FooterKey, true
	}
	for _, c := range e.Columns {
		if pathEqual(c.ColumnPath, path) {
			return c.Key, true
		}
	}
	return nil, false
}

func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// encryptModule applies this config's algorithm to one module's
// plaintext, using GCM for the footer (and for every module under
// AES_GCM_V1) and unauthenticated CTR for page/header modules under
// AES_GCM_CTR_V1 (spec §4.8).
func (e *EncryptionConfig) encryptModule(key, aad, plaintext []byte, module pcrypto.ModuleType) ([]byte, error) {
	if e.Algorithm == pcrypto.AesGcmV1 || module == pcrypto.ModuleFooter {
		return pcrypto.EncryptGCM(key, aad, plaintext)
	}
	return pcrypto.EncryptCTR(key, plaintext)
}
