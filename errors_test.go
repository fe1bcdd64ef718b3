package pwsafer

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "format error",
			err:  &FormatError{Message: "bad magic tag"},
			want: "format error: bad magic tag",
		},
		{
			name: "authentication error",
			err:  &AuthenticationError{Message: "invalid password"},
			want: "authentication error: invalid password",
		},
		{
			name: "integrity error",
			err:  &IntegrityError{Message: "tag mismatch"},
			want: "integrity error: tag mismatch",
		},
		{
			name: "length error",
			err:  &LengthError{Declared: 20, Got: 11},
			want: "length error: field declares 20 bytes, stream yielded 11",
		},
		{
			name: "io error",
			err:  &IOError{Operation: "read", Message: "unexpected EOF"},
			want: "io error: read: unexpected EOF",
		},
		{
			name: "field error",
			err:  &FieldError{Tag: 0x01, Message: "uuid: expected 16 bytes, got 3"},
			want: "field error: tag 0x01: uuid: expected 16 bytes, got 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	err := NewIOError("read", io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	err = NewAuthenticationError(ErrInvalidPassword)
	assert.True(t, errors.Is(err, ErrInvalidPassword))

	err = NewIntegrityError(ErrIntegrityCheckFailed)
	assert.True(t, errors.Is(err, ErrIntegrityCheckFailed))

	err = NewFormatError("bad tag", ErrInvalidTag)
	assert.True(t, errors.Is(err, ErrInvalidTag))
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsFormatError(NewFormatError("x", nil)))
	assert.True(t, IsAuthenticationError(NewAuthenticationError(ErrInvalidPassword)))
	assert.True(t, IsIntegrityError(NewIntegrityError(ErrIntegrityCheckFailed)))
	assert.True(t, IsLengthError(&LengthError{Declared: 1}))
	assert.True(t, IsIOError(NewIOError("write", io.ErrClosedPipe)))
	assert.True(t, IsFieldError(&FieldError{Tag: 0x01}))

	base := errors.New("plain")
	assert.False(t, IsFormatError(base))
	assert.False(t, IsAuthenticationError(base))
	assert.False(t, IsIntegrityError(base))
	assert.False(t, IsLengthError(base))
	assert.False(t, IsIOError(base))
	assert.False(t, IsFieldError(base))
}
