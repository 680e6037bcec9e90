package security_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/adapters/security"
	"github.com/jsamuelsen11/teamspace/internal/domain"
)

// Cheap parameters keep the tests fast.
var testParams = security.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestArgon2Hasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := security.NewArgon2Hasher(testParams)

	hash, salt, err := h.Hash(ctx, "correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"), hash)
	assert.NotEmpty(t, salt)

	ok, err := h.Verify(ctx, "correct horse battery", hash, salt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, "wrong horse battery", hash, salt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2Hasher_FreshSaltPerHash(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := security.NewArgon2Hasher(testParams)

	hash1, salt1, err := h.Hash(ctx, "same password")
	require.NoError(t, err)
	hash2, salt2, err := h.Hash(ctx, "same password")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestArgon2Hasher_VerifiesAfterParamChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hash, salt, err := security.NewArgon2Hasher(testParams).Hash(ctx, "long enough")
	require.NoError(t, err)

	stronger := testParams
	stronger.Time = 2
	stronger.Memory = 2048

	ok, err := security.NewArgon2Hasher(stronger).Verify(ctx, "long enough", hash, salt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2Hasher_RejectsShortPassword(t *testing.T) {
	t.Parallel()

	_, _, err := security.NewArgon2Hasher(testParams).Hash(context.Background(), "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestArgon2Hasher_MalformedInputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := security.NewArgon2Hasher(testParams)
	hash, salt, err := h.Hash(ctx, "long enough")
	require.NoError(t, err)

	tests := []struct {
		name string
		hash string
		salt string
	}{
		{name: "not phc", hash: "plain", salt: salt},
		{name: "wrong algorithm", hash: strings.Replace(hash, "argon2id", "argon2i", 1), salt: salt},
		{name: "bad version", hash: strings.Replace(hash, "v=19", "v=1", 1), salt: salt},
		{name: "bad params", hash: strings.Replace(hash, "m=1024", "m=x", 1), salt: salt},
		{name: "bad key", hash: hash[:strings.LastIndex(hash, "$")+1] + "!!", salt: salt},
		{name: "bad salt", hash: hash, salt: "!!"},
		{name: "empty salt", hash: hash, salt: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := h.Verify(ctx, "long enough", tt.hash, tt.salt)
			require.ErrorIs(t, err, security.ErrMalformedHash)
			assert.False(t, ok)
		})
	}
}

func TestArgon2Hasher_RespectsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := security.NewArgon2Hasher(testParams).Hash(ctx, "long enough")
	assert.ErrorIs(t, err, context.Canceled)
}
