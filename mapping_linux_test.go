//go:build linux

package nativeio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/nativeio/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func writeFile(t *testing.T, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	path := filepath.Join(t.TempDir(), "mapped")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, data
}

func TestMapReadOnly(t *testing.T) {
	p := PageSize()
	path, data := writeFile(t, 3*p+17)

	fs := New()
	m, err := fs.MapReadOnly(path)
	require.NoError(t, err)
	defer m.Release()

	assert.NotZero(t, m.Addr())
	assert.Zero(t, m.Addr()%uintptr(p))
	assert.Equal(t, int64(len(data)), m.Len())
	assert.Equal(t, data, m.Bytes())
	assert.Equal(t, path, m.Path())
	assert.Len(t, fs.LiveDescriptors(), 1)

	buf := make([]byte, 32)
	n, err := m.ReadAt(buf, int64(len(data)-10))
	assert.Equal(t, 10, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, data[len(data)-10:], buf[:n])

	_, err = m.ReadAt(buf, int64(len(data)))
	assert.ErrorIs(t, err, io.EOF)
}

func TestMapReadOnly_GrowthNotVisible(t *testing.T) {
	path, data := writeFile(t, 100)
	m, err := MapReadOnly(path)
	require.NoError(t, err)
	defer m.Release()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte("more"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, int64(len(data)), m.Len())
}

func TestMapReadOnly_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	fs := New()
	m, err := fs.MapReadOnly(path)
	require.NoError(t, err)

	assert.Zero(t, m.Addr())
	assert.Zero(t, m.Len())
	assert.Nil(t, m.Bytes())
	assert.True(t, m.Handle().IsOpen())
	assert.NoError(t, m.Advise(0, 0, MemWillNeed))
	assert.NoError(t, m.Preload())

	require.NoError(t, m.Release())
	assert.False(t, m.Handle().IsOpen())
	assert.Empty(t, fs.LiveDescriptors())
}

func TestMapReadOnly_Missing(t *testing.T) {
	m, err := MapReadOnly(filepath.Join(t.TempDir(), "missing"))
	assert.Nil(t, m)
	assert.Equal(t, KindIO, KindOf(err))
	assert.ErrorIs(t, err, unix.ENOENT)
}

func TestMapping_Advise(t *testing.T) {
	p := PageSize()
	path, _ := writeFile(t, 4*p)

	m, err := MapReadOnly(path)
	require.NoError(t, err)
	defer m.Release()

	for _, advice := range []MemoryAdvice{MemNormal, MemSequential, MemRandom, MemWillNeed, MemDontNeed} {
		t.Run(advice.String(), func(t *testing.T) {
			assert.NoError(t, m.Advise(0, m.Len(), advice))
			assert.NoError(t, m.Advise(5, int64(p)+3, advice))
		})
	}

	assert.ErrorIs(t, m.Advise(0, 1, memAdviceUnsupported), ErrInvalidArgument)
	assert.ErrorIs(t, m.Advise(0, m.Len()+1, MemNormal), ErrInvalidArgument)
}

func TestMapping_Region(t *testing.T) {
	p := PageSize()
	path, data := writeFile(t, 2*p)

	m, err := MapReadOnly(path)
	require.NoError(t, err)

	r, err := m.Region(10, 20)
	require.NoError(t, err)
	assert.Equal(t, data[10:30], r.Bytes())
	assert.Equal(t, int64(10), r.Offset())
	assert.Equal(t, int64(20), r.Len())
	assert.NoError(t, r.Advise(MemWillNeed))

	_, err = m.Region(int64(2*p)-1, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, m.Release())
	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Advise(MemNormal), ErrInvalidHandle)
	_, err = m.Region(0, 1)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestMapping_Preload(t *testing.T) {
	path, _ := writeFile(t, 8*PageSize())
	m, err := MapReadOnly(path)
	require.NoError(t, err)
	defer m.Release()

	assert.NoError(t, m.Preload())
}

func TestMapping_ReleaseIdempotent(t *testing.T) {
	path, _ := writeFile(t, 1000)
	fs := New()

	var m *Mapping
	assertNoFDLeak(t, func() {
		var err error
		m, err = fs.MapReadOnly(path)
		require.NoError(t, err)

		require.NoError(t, m.Release())
		require.NoError(t, m.Close())
	})

	assert.False(t, m.IsLive())
	assert.Zero(t, m.Addr())
	assert.Zero(t, m.Len())
	assert.Nil(t, m.Bytes())
	_, err := m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.ErrorIs(t, m.Advise(0, 0, MemNormal), ErrInvalidHandle)
	assert.ErrorIs(t, m.Preload(), ErrInvalidHandle)
}

func TestMapping_DropCacheOnRelease(t *testing.T) {
	path, _ := writeFile(t, 2*PageSize())
	faulty := sys.NewFaulty(nil)
	fs := New(withSyscalls(faulty), WithDropCacheOnRelease(true))

	m, err := fs.MapReadOnly(path)
	require.NoError(t, err)
	require.NoError(t, m.Release())
	assert.Equal(t, 1, faulty.Calls(sys.OpFadvise))
	assert.Equal(t, 1, faulty.Calls(sys.OpMunmap))
	assert.Equal(t, 1, faulty.Calls(sys.OpClose))
}

func TestMapReadOnly_InjectedMmapFailure(t *testing.T) {
	path, _ := writeFile(t, 4096)
	faulty := sys.NewFaulty(nil)
	faulty.InjectOnce(sys.OpMmap, unix.ENOMEM)
	fs := New(withSyscalls(faulty))

	assertNoFDLeak(t, func() {
		m, err := fs.MapReadOnly(path)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, ErrOutOfMemory)
		assert.ErrorIs(t, err, unix.ENOMEM)
	})
	assert.Equal(t, 1, faulty.Calls(sys.OpClose))

	m, err := fs.MapReadOnly(path)
	require.NoError(t, err)
	require.NoError(t, m.Release())
}

func TestAllocAligned(t *testing.T) {
	p := PageSize()
	b, err := AllocAligned(p + 1)
	require.NoError(t, err)

	assert.Equal(t, 2*p, b.Len())
	data := b.Bytes()
	require.Len(t, data, 2*p)
	assert.Zero(t, uintptrOf(data)%uintptr(p))
	data[0], data[len(data)-1] = 1, 2

	require.NoError(t, b.Free())
	require.NoError(t, b.Free())
	assert.Nil(t, b.Bytes())

	_, err = AllocAligned(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
