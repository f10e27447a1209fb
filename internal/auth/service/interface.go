package service

// SecretService defines the interface for client secret generation and
// verification.
type SecretService interface {
	// GenerateSecret creates a random secret and returns both the plain
	// text and its hash. The plain text is returned exactly once.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)
	HashSecret(plainSecret string) (hashedSecret string, err error)
	// CompareSecret verifies a plain secret against its stored hash in
	// constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}
