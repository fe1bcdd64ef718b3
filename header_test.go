package pwsafer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	var h Header
	for i := range h.Salt {
		h.Salt[i] = byte(i)
	}
	h.Iterations = 4096
	for i := range h.KeyHash {
		h.KeyHash[i] = byte(0x40 + i)
	}
	for i := range h.WrappedK {
		h.WrappedK[i] = byte(0x80 + i)
	}
	for i := range h.WrappedL {
		h.WrappedL[i] = byte(0xc0 + i)
	}
	for i := range h.IV {
		h.IV[i] = byte(0xf0 ^ i)
	}

	buf := &bytes.Buffer{}
	n, err := h.WriteTo(buf)
	require.NoError(t, err)
	assert.EqualValues(t, HeaderSize, n)
	assert.EqualValues(t, HeaderSize, buf.Len())
	assert.Equal(t, []byte(Magic), buf.Bytes()[:4])

	var got Header
	m, err := got.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.EqualValues(t, HeaderSize, m)
	assert.Equal(t, h, got)
}

func TestHeader_BadMagic(t *testing.T) {
	raw := make([]byte, HeaderSize)
	copy(raw, "PWS2")
	src := bytes.NewReader(raw)

	var h Header
	_, err := h.ReadFrom(src)
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.True(t, errors.Is(err, ErrInvalidTag))

	// Only the magic tag may be consumed on rejection.
	assert.Equal(t, HeaderSize-4, src.Len())
}

func TestHeader_Truncated(t *testing.T) {
	var h Header
	buf := &bytes.Buffer{}
	_, err := h.WriteTo(buf)
	require.NoError(t, err)

	for _, cut := range []int{3, 4, 40, 151} {
		var got Header
		_, err := got.ReadFrom(bytes.NewReader(buf.Bytes()[:cut]))
		assert.Error(t, err, "truncated at %d bytes", cut)
	}
}
