package registry

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ensurePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data/trees", 0755))

	tests := []struct {
		name    string
		fs      FileSystem
		path    string
		wantErr assert.ErrorAssertionFunc
		wantDir bool
	}{
		{name: "exists", fs: fs, path: "/data/trees", wantErr: assert.NoError, wantDir: true},
		{name: "created", fs: fs, path: "/data/trees/nested/deeper", wantErr: assert.NoError, wantDir: true},
		{name: "read only", fs: afero.NewReadOnlyFs(afero.NewMemMapFs()), path: "/data", wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.wantErr(t, ensurePath(tt.fs, tt.path))

			exists, err := afero.DirExists(tt.fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, exists)
		})
	}
}

func Test_backupFile(t *testing.T) {
	const filename = "/data/containers.bin"

	tests := []struct {
		name       string
		finish     func(restore, clean func() error) error
		wantFile   bool
		wantBackup bool
	}{
		{
			name:       "kept until finished",
			finish:     func(_, _ func() error) error { return nil },
			wantFile:   false,
			wantBackup: true,
		},
		{
			name:       "clean",
			finish:     func(_, clean func() error) error { return clean() },
			wantFile:   false,
			wantBackup: false,
		},
		{
			name:       "restore",
			finish:     func(restore, _ func() error) error { return restore() },
			wantFile:   true,
			wantBackup: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, filename, []byte("snapshot"), 0644))

			restore, clean, err := backupFile(fs, filename)
			require.NoError(t, err)
			require.NoError(t, tt.finish(restore, clean))

			exists, err := afero.Exists(fs, filename)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, exists)

			exists, err = afero.Exists(fs, filename+".bak")
			require.NoError(t, err)
			assert.Equal(t, tt.wantBackup, exists)
		})
	}
}

func Test_backupFile_missing(t *testing.T) {
	_, _, err := backupFile(afero.NewMemMapFs(), "/data/none.bin")
	assert.Error(t, err)
}
