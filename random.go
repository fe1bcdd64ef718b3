package pwsafer

import (
	"crypto/rand"
	"fmt"
	"io"
)

// The writer draws all of its random material (salt, content key, MAC key,
// IV, block padding) from a single io.Reader so tests can supply a
// deterministic source. Production code always gets crypto/rand.

// fillRandom fills p from the given randomness source.
func fillRandom(src io.Reader, p []byte) error {
	if _, err := io.ReadFull(src, p); err != nil {
		return fmt.Errorf("failed to read random bytes: %w", err)
	}
	return nil
}

// defaultRand returns the production randomness source.
func defaultRand() io.Reader {
	return rand.Reader
}
