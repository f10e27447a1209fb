package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated
// Data (AEAD), ensuring both confidentiality and authenticity of encrypted
// data. Use AESGCM on CPUs with AES-NI hardware acceleration and ChaCha20 on
// platforms without it; both provide equivalent 256-bit security.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	// 256-bit key, 12-byte nonce, 16-byte authentication tag.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption
	// algorithm. 256-bit key, 12-byte nonce, 16-byte authentication tag,
	// constant-time software implementation.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
// Returns ErrUnsupportedAlgorithm for unknown values.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
