package domain

// Zero overwrites a byte slice with zeros so key material does not linger in
// memory after use. Safe to call with a nil slice.
func Zero(b []byte) {
	clear(b)
}
