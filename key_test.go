package pwsafer

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStretchKey_Deterministic(t *testing.T) {
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}
	password := []byte("correct horse battery staple")

	a := StretchKey(salt, 2048, password)
	b := StretchKey(salt, 2048, password)

	require.Len(t, a, KeySize)
	assert.Equal(t, a, b, "equal inputs must give equal output")
}

func TestStretchKey_ZeroIterations(t *testing.T) {
	salt := []byte("0123456789abcdef0123456789abcdef")
	password := []byte("password")

	h := sha256.New()
	h.Write(password)
	h.Write(salt)
	want := h.Sum(nil)

	got := StretchKey(salt, 0, password)
	assert.Equal(t, want, got, "zero iterations must be exactly SHA-256(password || salt)")
}

func TestStretchKey_Sensitivity(t *testing.T) {
	salt := make([]byte, SaltSize)
	password := []byte("password")
	base := StretchKey(salt, 16, password)

	tests := []struct {
		name string
		key  []byte
	}{
		{
			name: "different password",
			key:  StretchKey(salt, 16, []byte("passwore")),
		},
		{
			name: "different salt",
			key: func() []byte {
				s := make([]byte, SaltSize)
				s[31] = 1
				return StretchKey(s, 16, password)
			}(),
		},
		{
			name: "different iteration count",
			key:  StretchKey(salt, 17, password),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.key)
		})
	}
}

func TestWrapUnwrapKey(t *testing.T) {
	master := StretchKey(make([]byte, SaltSize), 4, []byte("master"))
	c, err := newMasterCipher(master)
	require.NoError(t, err)

	secret := make([]byte, KeySize)
	for i := range secret {
		secret[i] = byte(0xa0 ^ i)
	}

	wrapped := wrapKey(c, secret)
	assert.NotEqual(t, secret, wrapped[:], "wrapping must change the bytes")

	unwrapped := unwrapKey(c, &wrapped)
	assert.Equal(t, secret, unwrapped)
}
