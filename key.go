package pwsafer

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/twofish"
)

// StretchKey derives the master key from a passphrase and salt using the
// iterated SHA-256 key stretching defined by the format: the passphrase
// concatenated with the salt is hashed once, then the digest is rehashed
// iterations more times. With iterations == 0 the result is exactly
// SHA-256(password || salt).
//
// The function is pure; identical inputs always produce identical output,
// which is what makes the stored verification hash reproducible. The
// iteration count is the database's brute-force resistance knob and must be
// carried unchanged through read/modify/write cycles.
func StretchKey(salt []byte, iterations uint32, password []byte) []byte {
	h := sha256.New()
	h.Write(password)
	h.Write(salt)
	key := h.Sum(nil)
	for i := uint32(0); i < iterations; i++ {
		sum := sha256.Sum256(key)
		key = sum[:]
	}
	return key
}

// keyHash returns the verification hash stored in the header: a single
// SHA-256 of the stretched master key.
func keyHash(master []byte) [32]byte {
	return sha256.Sum256(master)
}

// unwrapKey decrypts a wrapped 32-byte secret with Twofish keyed by the
// master key. The two 16-byte halves are independent blocks (ECB, no IV,
// no padding); the secrets are already block-aligned.
func unwrapKey(cipher *twofish.Cipher, wrapped *[KeySize]byte) []byte {
	key := make([]byte, KeySize)
	cipher.Decrypt(key[:BlockSize], wrapped[:BlockSize])
	cipher.Decrypt(key[BlockSize:], wrapped[BlockSize:])
	return key
}

// wrapKey encrypts a 32-byte secret with Twofish keyed by the master key,
// the inverse of unwrapKey.
func wrapKey(cipher *twofish.Cipher, key []byte) (wrapped [KeySize]byte) {
	cipher.Encrypt(wrapped[:BlockSize], key[:BlockSize])
	cipher.Encrypt(wrapped[BlockSize:], key[BlockSize:])
	return wrapped
}

// newMasterCipher builds the Twofish instance used for envelope key
// wrapping and unwrapping.
func newMasterCipher(master []byte) (*twofish.Cipher, error) {
	c, err := twofish.NewCipher(master)
	if err != nil {
		return nil, fmt.Errorf("failed to create master cipher: %w", err)
	}
	return c, nil
}
