package pwsafer

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"
	"math"

	"golang.org/x/crypto/twofish"
)

// Writer produces a version 3 database on a sequential byte sink. It owns
// the sink for its whole lifetime and never seeks: the header is emitted
// with fresh random secrets at construction, each field is encrypted block
// by block as it is written, and Finish appends the sentinel and the
// integrity tag.
//
// Finish must be called exactly once after the last field; omitting it
// leaves the database unterminated and unverifiable.
type Writer struct {
	inner    io.Writer
	cbc      cipher.BlockMode
	mac      hash.Hash
	rand     io.Reader
	finished bool
}

// NewWriter creates a database on w with the given key stretching iteration
// count and password, drawing all random material from crypto/rand.
func NewWriter(w io.Writer, iterations uint32, password []byte) (*Writer, error) {
	return NewWriterRand(w, iterations, password, defaultRand())
}

// NewWriterRand is NewWriter with a caller-supplied randomness source. The
// source feeds the salt, both envelope keys, the IV and all block padding;
// it must be cryptographically secure in production. It exists so tests can
// produce deterministic databases.
func NewWriterRand(w io.Writer, iterations uint32, password []byte, random io.Reader) (*Writer, error) {
	var hdr Header
	hdr.Iterations = iterations
	if err := fillRandom(random, hdr.Salt[:]); err != nil {
		return nil, err
	}

	master := StretchKey(hdr.Salt[:], iterations, password)
	hdr.KeyHash = keyHash(master)

	k := make([]byte, KeySize)
	l := make([]byte, KeySize)
	if err := fillRandom(random, k); err != nil {
		return nil, err
	}
	if err := fillRandom(random, l); err != nil {
		return nil, err
	}
	if err := fillRandom(random, hdr.IV[:]); err != nil {
		return nil, err
	}

	masterCipher, err := newMasterCipher(master)
	if err != nil {
		return nil, err
	}
	hdr.WrappedK = wrapKey(masterCipher, k)
	hdr.WrappedL = wrapKey(masterCipher, l)

	if _, err := hdr.WriteTo(w); err != nil {
		return nil, NewIOError("write", err)
	}

	contentCipher, err := twofish.NewCipher(k)
	if err != nil {
		return nil, err
	}

	return &Writer{
		inner: w,
		cbc:   cipher.NewCBCEncrypter(contentCipher, hdr.IV[:]),
		mac:   hmac.New(sha256.New, l),
		rand:  random,
	}, nil
}

// WriteField encrypts and writes one field.
//
// The field occupies 1 + ceil(max(0, len(data)-11)/16) blocks: the first
// block carries the little-endian length, the type tag and up to 11 payload
// bytes, continuation blocks carry 16 payload bytes each. Unused trailing
// bytes of the final block are filled with random padding so that field
// boundaries are not visible in the ciphertext.
func (w *Writer) WriteField(tag byte, data []byte) error {
	if w.finished {
		return ErrWriterFinished
	}
	if uint64(len(data)) > math.MaxUint32 {
		return ErrFieldTooLong
	}

	// Payload bytes only; headers and padding are excluded from the MAC.
	w.mac.Write(data)

	var block [BlockSize]byte
	binary.LittleEndian.PutUint32(block[0:4], uint32(len(data)))
	block[4] = tag
	n := copy(block[5:], data)
	if err := w.writeBlock(&block, 5+n); err != nil {
		return err
	}

	for off := n; off < len(data); {
		m := copy(block[:], data[off:])
		off += m
		if err := w.writeBlock(&block, m); err != nil {
			return err
		}
	}
	return nil
}

// writeBlock pads block beyond used with random bytes, encrypts it in
// place and writes it out.
func (w *Writer) writeBlock(block *[BlockSize]byte, used int) error {
	if used < BlockSize {
		if err := fillRandom(w.rand, block[used:]); err != nil {
			return err
		}
	}
	w.cbc.CryptBlocks(block[:], block[:])
	if _, err := w.inner.Write(block[:]); err != nil {
		return NewIOError("write", err)
	}
	return nil
}

// Finish terminates the database: the sentinel block is written verbatim,
// followed by the finalized 32-byte integrity tag. It must be called
// exactly once, after all fields; further calls fail with
// ErrWriterFinished.
func (w *Writer) Finish() error {
	if w.finished {
		return ErrWriterFinished
	}
	if _, err := w.inner.Write(sentinel); err != nil {
		return NewIOError("write", err)
	}
	if _, err := w.inner.Write(w.mac.Sum(nil)); err != nil {
		return NewIOError("write", err)
	}
	w.finished = true
	return nil
}
