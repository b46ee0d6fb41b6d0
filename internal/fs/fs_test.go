package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	require.NoError(t, WriteFileAtomic(Default, path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(Default, path, []byte("two"), 0o644))

	data, err := Default.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomic_Faults(t *testing.T) {
	tests := []struct {
		name  string
		fault Fault
	}{
		{"write", Fault{FailAfterBytes: 2}},
		{"every write", Fault{FailOnWrite: true}},
		{"sync", Fault{FailOnSync: true}},
		{"close", Fault{FailOnClose: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.yaml")
			require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

			ffs := NewFaultyFS(nil)
			ffs.AddRule(".tmp", tt.fault)

			err := WriteFileAtomic(ffs, path, []byte("new"), 0o644)
			assert.ErrorIs(t, err, ErrInjected)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "old", string(data))

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestFaultyFS_ReadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("ok"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("ok"), 0o644))

	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("bad", Fault{FailOnRead: true, Err: os.ErrPermission})

	data, err := ffs.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))

	_, err = ffs.ReadFile(bad)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, 2, ffs.Reads())
}

func TestFaultyFS_ReadFaultKeepsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	ffs := NewFaultyFS(nil)
	ffs.AddRule("out", Fault{FailOnRead: true})

	require.NoError(t, WriteFileAtomic(ffs, path, []byte("written"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "written", string(data))

	_, err = ffs.ReadFile(path)
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_Delegation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a")
	ffs := NewFaultyFS(nil)

	f, err := ffs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	require.NoError(t, ffs.Rename(path, path+".b"))
	require.NoError(t, ffs.Remove(path+".b"))
	_, err = os.Stat(path + ".b")
	assert.True(t, os.IsNotExist(err))
}
