package pcrypto

import "errors"

// Error taxonomy from spec §4.8/§7: KeyUnavailable, AadMismatch,
// TagMismatch, AlgorithmMismatch.
var (
	ErrKeyUnavailable   = errors.New("pcrypto: key unavailable")
	ErrAadMismatch      = errors.New("pcrypto: aad prefix required but not provided, or verification failed")
	ErrTagMismatch      = errors.New("pcrypto: authentication tag mismatch")
	ErrAlgorithmMismatch = errors.New("pcrypto: unsupported encryption algorithm")
)
