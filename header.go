package pwsafer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic identifies version 3 database files.
	Magic = "PWS3"

	// BlockSize is the cipher block size; every field block, the sentinel
	// and the unit of CBC chaining are this many bytes.
	BlockSize = 16

	// SaltSize is the size of the key-stretching salt.
	SaltSize = 32

	// KeySize is the size of the stretched key, the content key and the
	// MAC key.
	KeySize = 32

	// HeaderSize is the fixed size of the file header.
	// 4 (magic) + 32 (salt) + 4 (iterations) + 32 (hash) + 32 (wrapped K) +
	// 32 (wrapped L) + 16 (IV) = 152 bytes
	HeaderSize = 152
)

// sentinel marks the end of the field stream. It is stored verbatim, never
// encrypted.
var sentinel = []byte("PWS3-EOFPWS3-EOF")

// Header represents the cleartext preamble of a database file. It is created
// once when a session opens and is immutable afterwards.
type Header struct {
	Salt       [SaltSize]byte // Salt for key stretching, random per database
	Iterations uint32         // Key stretching rounds
	KeyHash    [32]byte       // SHA-256 of the stretched key
	WrappedK   [KeySize]byte  // Content key, Twofish-ECB wrapped
	WrappedL   [KeySize]byte  // MAC key, Twofish-ECB wrapped
	IV         [BlockSize]byte
}

// WriteTo writes the header to the given writer
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	buf := new(bytes.Buffer)
	buf.Grow(HeaderSize)

	buf.WriteString(Magic)
	buf.Write(h.Salt[:])
	if err := binary.Write(buf, binary.LittleEndian, h.Iterations); err != nil {
		return 0, fmt.Errorf("failed to write iteration count: %w", err)
	}
	buf.Write(h.KeyHash[:])
	buf.Write(h.WrappedK[:])
	buf.Write(h.WrappedL[:])
	buf.Write(h.IV[:])

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// ReadFrom reads the header from the given reader. A wrong magic tag fails
// with a FormatError before any further bytes are consumed.
func (h *Header) ReadFrom(r io.Reader) (int64, error) {
	var totalRead int64

	var tag [4]byte
	n, err := io.ReadFull(r, tag[:])
	totalRead += int64(n)
	if err != nil {
		return totalRead, NewFormatError("failed to read magic tag", ErrInvalidTag)
	}
	if !bytes.Equal(tag[:], []byte(Magic)) {
		return totalRead, NewFormatError(fmt.Sprintf("bad magic tag %q", tag), ErrInvalidTag)
	}

	n, err = io.ReadFull(r, h.Salt[:])
	totalRead += int64(n)
	if err != nil {
		return totalRead, NewFormatError("failed to read salt", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.Iterations); err != nil {
		return totalRead, NewFormatError("failed to read iteration count", err)
	}
	totalRead += 4

	n, err = io.ReadFull(r, h.KeyHash[:])
	totalRead += int64(n)
	if err != nil {
		return totalRead, NewFormatError("failed to read verification hash", err)
	}

	n, err = io.ReadFull(r, h.WrappedK[:])
	totalRead += int64(n)
	if err != nil {
		return totalRead, NewFormatError("failed to read wrapped content key", err)
	}

	n, err = io.ReadFull(r, h.WrappedL[:])
	totalRead += int64(n)
	if err != nil {
		return totalRead, NewFormatError("failed to read wrapped MAC key", err)
	}

	n, err = io.ReadFull(r, h.IV[:])
	totalRead += int64(n)
	if err != nil {
		return totalRead, NewFormatError("failed to read IV", err)
	}

	return totalRead, nil
}
