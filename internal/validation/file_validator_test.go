package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadestats/internal/errors"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantType  errors.ErrorType
	}{
		{
			name: "valid csv",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "decisoes.csv")
				require.NoError(t, os.WriteFile(file, []byte("id\n"), 0644))
				return file
			},
		},
		{
			name: "unusual extension is accepted",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "decisoes.dat")
				require.NoError(t, os.WriteFile(file, []byte("id\n"), 0644))
				return file
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantType: errors.ErrTypeNotFound,
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantType: errors.ErrTypeInput,
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$decisoes.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return file
			},
			wantType: errors.ErrTypeInput,
		},
		{
			name: "empty path",
			setupFunc: func(t *testing.T) string {
				return ""
			},
			wantType: errors.ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)
			err := v.ValidateInputFile(tt.setupFunc(t))
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errors.TypeOf(err))
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must be removed")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	err = v.ValidateOutputDirectory(filepath.Join(blocker, "out"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeStorage, errors.TypeOf(err))
}

func TestFileValidator_ValidateOutputPaths(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateOutputPaths(input,
		filepath.Join(dir, "output.xlsx"),
		filepath.Join(dir, "relatorio.csv")))

	err := v.ValidateOutputPaths(input, filepath.Join(dir, ".", "in.csv"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeConfig, errors.TypeOf(err))

	err = v.ValidateOutputPaths(input, filepath.Join(dir, "a.csv"), filepath.Join(dir, "sub", "..", "a.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same file")

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	err = v.ValidateOutputPaths(input, sub)
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeStorage, errors.TypeOf(err))
}
