//go:build linux

package directio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/nativeio"
	"github.com/klauspost/crc32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func skipIfNoDirect(t *testing.T, err error) {
	t.Helper()
	if errors.Is(err, unix.EINVAL) {
		t.Skip("O_DIRECT not supported on this filesystem")
	}
}

func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*31 + 7)
	}
	return b
}

func TestWriter_RoundTrip(t *testing.T) {
	p := nativeio.PageSize()
	sizes := []int{0, 1, p - 1, p, p + 1, 3*p + 123}

	for _, size := range sizes {
		t.Run("", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")
			fs := nativeio.New()

			w, err := Create(fs, path, p)
			skipIfNoDirect(t, err)
			require.NoError(t, err)

			data := payload(size)
			// Uneven chunks to cross block boundaries.
			for rest := data; len(rest) > 0; {
				n := min(len(rest), 1000)
				m, err := w.Write(rest[:n])
				require.NoError(t, err)
				require.Equal(t, n, m)
				rest = rest[n:]
			}

			assert.Equal(t, int64(size), w.Offset())
			assert.Equal(t, crc32.ChecksumIEEE(data), w.Checksum())
			require.NoError(t, w.Close())
			require.NoError(t, w.Close())
			assert.Empty(t, fs.LiveDescriptors())

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestWriter_WriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	w, err := Create(nativeio.Default, path, 0)
	skipIfNoDirect(t, err)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, nativeio.ErrInvalidHandle)
}

func TestReader(t *testing.T) {
	p := nativeio.PageSize()
	data := payload(5*p + 321)
	path := filepath.Join(t.TempDir(), "in")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	fs := nativeio.New()
	r, err := Open(fs, path, 2*p)
	skipIfNoDirect(t, err)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(len(data)), r.Size())

	t.Run("ReadAt", func(t *testing.T) {
		buf := make([]byte, p+10)
		n, err := r.ReadAt(buf, int64(2*p-5))
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, data[2*p-5:3*p+5], buf)

		n, err = r.ReadAt(buf, int64(len(data)-3))
		assert.Equal(t, 3, n)
		assert.ErrorIs(t, err, io.EOF)

		_, err = r.ReadAt(buf, -1)
		assert.ErrorIs(t, err, nativeio.ErrInvalidArgument)
	})

	t.Run("ReadAll", func(t *testing.T) {
		_, err := r.Seek(0, io.SeekStart)
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("Seek", func(t *testing.T) {
		pos, err := r.Seek(-10, io.SeekEnd)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)-10), pos)

		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, data[len(data)-10:], got)

		_, err = r.Seek(-1, io.SeekStart)
		assert.ErrorIs(t, err, nativeio.ErrInvalidArgument)
	})
}

func TestReader_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in")
	require.NoError(t, os.WriteFile(path, payload(10), 0o600))

	fs := nativeio.New()
	r, err := Open(fs, path, 0)
	skipIfNoDirect(t, err)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Empty(t, fs.LiveDescriptors())

	_, err = r.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, nativeio.ErrInvalidHandle)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(nativeio.Default, filepath.Join(t.TempDir(), "missing"), 0)
	assert.ErrorIs(t, err, nativeio.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
