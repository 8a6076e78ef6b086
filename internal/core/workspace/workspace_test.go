package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePushName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    string
		wantErr string
	}{
		{path: "dist/homeyscript.lights.min.js", want: "lights"},
		{path: "homeyscript.a.b.min.js", want: "a.b"},
		{path: "/abs/dist/homeyscript.x.min.js", want: "x"},
		{path: "dist/foo.js", wantErr: "Invalid script filename format: dist/foo.js"},
		{path: "homeyscript..min.js", wantErr: "Invalid script filename format: homeyscript..min.js"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePushName(tt.path)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayoutPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("packages", "lights", "index.js"), PullPath("packages", "lights"))
	assert.Equal(t, filepath.Join("backup", "lights.json"), BackupPath("backup", "lights"))
	assert.Equal(t, filepath.Join("dist", "homeyscript.lights.min.js"), PushPath("dist", "lights"))

	name, err := ParsePushName(PushPath("dist", "lights"))
	require.NoError(t, err)
	assert.Equal(t, "lights", name)
}

func TestStoreWriteReadList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := New()

	require.NoError(t, store.WriteFile(ctx, filepath.Join(dir, "b.json"), []byte(`{"b":1}`)))
	require.NoError(t, store.WriteFile(ctx, filepath.Join(dir, "a.json"), []byte(`{"a":1}`)))
	require.NoError(t, store.WriteFile(ctx, filepath.Join(dir, "notes.txt"), []byte("x")))
	require.NoError(t, store.WriteFile(ctx, filepath.Join(dir, "nested", "index.js"), []byte("log()")))

	names, err := store.ListFiles(ctx, dir, ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)

	data, err := store.ReadFile(ctx, filepath.Join(dir, "nested", "index.js"))
	require.NoError(t, err)
	assert.Equal(t, "log()", string(data))

	onDisk, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(onDisk))
}

func TestStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "x.js")
	store := New()

	require.NoError(t, store.WriteFile(ctx, path, []byte("long original content")))
	require.NoError(t, store.WriteFile(ctx, path, []byte("short")))

	data, err := store.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestStoreMissing(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), "missing")
	store := New()

	err := store.Access(ctx, missing)
	require.Error(t, err)
	assert.True(t, IsNotExist(err))

	_, err = store.ReadFile(ctx, filepath.Join(missing, "a.js"))
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
}

func TestStoreEnsureDir(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "a", "b")
	store := New()

	require.NoError(t, store.EnsureDir(ctx, dir))
	require.NoError(t, store.EnsureDir(ctx, dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	require.NoError(t, store.Access(ctx, dir))
}
