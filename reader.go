package pwsafer

import (
	"bytes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"hash"
	"io"

	"golang.org/x/crypto/twofish"
)

// Field is one raw entry of the database stream: a one-byte type tag and
// the payload bytes exactly as stored. Decoding the payload into a typed
// value is the job of the field catalogs.
type Field struct {
	Tag  byte
	Data []byte
}

// Reader decrypts and authenticates a version 3 database from a sequential
// byte stream. It owns the underlying reader for its whole lifetime and
// never seeks.
//
// Fields are produced as a finite, ordered, non-restartable sequence:
// ReadField returns nil once the sentinel block is reached and keeps
// returning nil afterwards. Verify must be called exactly once after the
// field stream is exhausted; it is the only proof that no block was
// corrupted, reordered or truncated.
type Reader struct {
	inner io.Reader
	cbc   cipher.BlockMode
	mac   hash.Hash
	iter  uint32
	eof   bool
}

// NewReader opens a database stream with the given password.
//
// The header is parsed and the password checked before any field is
// touched: a stream that does not start with the PWS3 magic fails with a
// FormatError, and a password whose stretched key does not match the stored
// verification hash fails with an AuthenticationError.
func NewReader(r io.Reader, password []byte) (*Reader, error) {
	var hdr Header
	if _, err := hdr.ReadFrom(r); err != nil {
		return nil, err
	}

	master := StretchKey(hdr.Salt[:], hdr.Iterations, password)
	if check := keyHash(master); !hmac.Equal(check[:], hdr.KeyHash[:]) {
		return nil, NewAuthenticationError(ErrInvalidPassword)
	}

	masterCipher, err := newMasterCipher(master)
	if err != nil {
		return nil, err
	}
	k := unwrapKey(masterCipher, &hdr.WrappedK)
	l := unwrapKey(masterCipher, &hdr.WrappedL)

	contentCipher, err := twofish.NewCipher(k)
	if err != nil {
		return nil, NewFormatError("failed to create content cipher", err)
	}

	return &Reader{
		inner: r,
		cbc:   cipher.NewCBCDecrypter(contentCipher, hdr.IV[:]),
		mac:   hmac.New(sha256.New, l),
		iter:  hdr.Iterations,
	}, nil
}

// ReadVersion reads the database version field. It must be called before
// the first ReadField: the format requires the version to be the very first
// field of the stream.
func (r *Reader) ReadVersion() (uint16, error) {
	field, err := r.ReadField()
	if err != nil {
		return 0, err
	}
	if field == nil || field.Tag != byte(HeaderVersion) || len(field.Data) != 2 {
		return 0, ErrInvalidHeader
	}
	return binary.LittleEndian.Uint16(field.Data), nil
}

// ReadField reads the next field from the stream.
//
// It returns nil (and a nil error) once the sentinel block is encountered,
// and on every call thereafter. A stream that ends before a field's
// declared length is satisfied fails with a LengthError rather than
// returning a truncated payload.
func (r *Reader) ReadField() (*Field, error) {
	if r.eof {
		return nil, nil
	}

	var block [BlockSize]byte
	if _, err := io.ReadFull(r.inner, block[:]); err != nil {
		return nil, NewIOError("read", err)
	}

	// The sentinel is stored verbatim; compare before decrypting.
	if bytes.Equal(block[:], sentinel) {
		r.eof = true
		return nil, nil
	}

	r.cbc.CryptBlocks(block[:], block[:])

	length := binary.LittleEndian.Uint32(block[0:4])
	tag := block[4]

	// The first block carries up to 11 payload bytes after the length and
	// type; anything beyond the declared length is padding.
	first := BlockSize - 5
	if int(length) < first {
		first = int(length)
	}
	data := make([]byte, 0, first)
	data = append(data, block[5:5+first]...)

	for read := uint32(11); read < length; read += BlockSize {
		if _, err := io.ReadFull(r.inner, block[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &LengthError{Declared: length, Got: len(data), Err: err}
			}
			return nil, NewIOError("read", err)
		}
		r.cbc.CryptBlocks(block[:], block[:])

		n := uint32(BlockSize)
		if remaining := length - read; remaining < n {
			n = remaining
		}
		data = append(data, block[:n]...)
	}

	// Payload bytes only; headers and padding are excluded from the MAC.
	r.mac.Write(data)

	return &Field{Tag: tag, Data: data}, nil
}

// Verify reads the trailing integrity tag and checks it, in constant time,
// against the HMAC accumulated over every field payload. It must be called
// exactly once, after ReadField has signalled the end of the stream.
func (r *Reader) Verify() error {
	var tag [32]byte
	if _, err := io.ReadFull(r.inner, tag[:]); err != nil {
		return NewIOError("read", err)
	}
	if !hmac.Equal(r.mac.Sum(nil), tag[:]) {
		return NewIntegrityError(ErrIntegrityCheckFailed)
	}
	return nil
}

// Iterations returns the key stretching iteration count stored in the
// header. Rewriting a database must preserve it.
func (r *Reader) Iterations() uint32 {
	return r.iter
}
