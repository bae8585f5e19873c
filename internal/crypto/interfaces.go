package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher turns plaintext passwords into one-way hashes and checks
// candidates against them. Plaintext passwords never leave this boundary:
// the directory only ever stores the output of Hash.
type PasswordHasher interface {
	// Hash returns a salted hash of password.
	Hash(password string) (string, error)

	// Compare reports whether password matches hash. A mismatch returns
	// [ErrMismatchedPassword]; any other error means the hash is malformed.
	Compare(hash, password string) error
}
