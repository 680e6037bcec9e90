package ports

import "context"

// PasswordHasher derives and checks password hashes. Raw passwords stop here;
// the user aggregate only ever sees the hash and salt.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (hash, salt string, err error)

	// Verify reports whether password matches hash under salt. A mismatch is
	// (false, nil); err is reserved for malformed inputs.
	Verify(ctx context.Context, password, hash, salt string) (bool, error)
}
