package ports

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify never fails on a malformed hash; it reports false instead.
	Verify(password, hash string) bool
}
