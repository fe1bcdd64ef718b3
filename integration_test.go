package pwsafer

import (
	"io"
	"os"
	"testing"

	"github.com/absfs/absfs"
	"github.com/absfs/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFileBytes(fs absfs.FileSystem, name string) ([]byte, error) {
	f, err := fs.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func TestEncodeDecodeFile(t *testing.T) {
	base, err := memfs.NewFS()
	require.NoError(t, err)

	want := testDatabase()
	password := []byte("file password")

	require.NoError(t, want.EncodeFile(base, "/vault.psafe3", password))

	// The stored file starts with the format magic.
	raw, err := readFileBytes(base, "/vault.psafe3")
	require.NoError(t, err)
	require.Greater(t, len(raw), HeaderSize)
	assert.Equal(t, []byte(Magic), raw[:4])

	got, err := DecodeFile(base, "/vault.psafe3", password)
	require.NoError(t, err)
	assert.Equal(t, want.Info.Name, got.Info.Name)
	assert.Equal(t, want.Iterations, got.Iterations)
	require.Len(t, got.Records, len(want.Records))
	assert.Equal(t, want.Records[0].Title, got.Records[0].Title)
	assert.Equal(t, want.Records[0].Password, got.Records[0].Password)
	assert.Equal(t, want.Records[1].UUID, got.Records[1].UUID)
}

func TestDecodeFile_WrongPassword(t *testing.T) {
	base, err := memfs.NewFS()
	require.NoError(t, err)

	db := testDatabase()
	require.NoError(t, db.EncodeFile(base, "/vault.psafe3", []byte("right")))

	_, err = DecodeFile(base, "/vault.psafe3", []byte("wrong"))
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
}

func TestDecodeFile_Missing(t *testing.T) {
	base, err := memfs.NewFS()
	require.NoError(t, err)

	_, err = DecodeFile(base, "/nope.psafe3", []byte("pass"))
	require.Error(t, err)
	assert.True(t, IsIOError(err))
}

func TestEncodeFile_Rewrite(t *testing.T) {
	base, err := memfs.NewFS()
	require.NoError(t, err)

	db := testDatabase()
	password := []byte("pass")
	require.NoError(t, db.EncodeFile(base, "/vault.psafe3", password))

	first, err := readFileBytes(base, "/vault.psafe3")
	require.NoError(t, err)

	// Rewriting the same content rekeys the whole file.
	require.NoError(t, db.EncodeFile(base, "/vault.psafe3", password))
	second, err := readFileBytes(base, "/vault.psafe3")
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	assert.NotEqual(t, first, second)

	got, err := DecodeFile(base, "/vault.psafe3", password)
	require.NoError(t, err)
	assert.Equal(t, db.Info.Name, got.Info.Name)
}
