// Package security implements [ports.PasswordHasher] with argon2id.
//
// Hashes are encoded as "$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<key>"
// with the key in unpadded standard base64, so the cost parameters used to
// derive a stored hash travel with it and survive configuration changes.
// Salts are stored separately, also unpadded base64.
package security

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.PasswordHasher = (*Argon2Hasher)(nil)

// ErrMalformedHash is returned by Verify for hashes or salts it cannot decode.
var ErrMalformedHash = errors.New("malformed password hash")

// MinPasswordLength is the shortest password Hash accepts.
const MinPasswordLength = 8

// Params are the argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

type Argon2Hasher struct {
	params Params
}

func NewArgon2Hasher(params Params) *Argon2Hasher {
	return &Argon2Hasher{params: params}
}

// Hash derives a key from password under a fresh random salt.
func (h *Argon2Hasher) Hash(ctx context.Context, password string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if len(password) < MinPasswordLength {
		return "", "", domain.FieldError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}

	p := h.params
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version, p.Memory, p.Time, p.Threads, base64.RawStdEncoding.EncodeToString(key))
	return encoded, base64.RawStdEncoding.EncodeToString(salt), nil
}

// Verify re-derives the key with the parameters recorded in hash and
// compares in constant time.
func (h *Argon2Hasher) Verify(ctx context.Context, password, hash, salt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p, key, err := decodeHash(hash)
	if err != nil {
		return false, err
	}
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil || len(rawSalt) == 0 {
		return false, fmt.Errorf("%w: salt", ErrMalformedHash)
	}

	candidate := argon2.IDKey([]byte(password), rawSalt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

func decodeHash(encoded string) (Params, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", "<key>"
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[1] != "argon2id" {
		return Params{}, nil, fmt.Errorf("%w: unknown format", ErrMalformedHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, fmt.Errorf("%w: unsupported version", ErrMalformedHash)
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		return Params{}, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedHash)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return Params{}, nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	return p, key, nil
}
