package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveExists(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalFileStorage(dir, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "consolidated/2024/FY-2024.xlsx", []byte("workbook")))
	assert.True(t, s.Exists(ctx, "consolidated/2024/FY-2024.xlsx"))
	assert.False(t, s.Exists(ctx, "consolidated/2024/Q1-2024.xlsx"))
	assert.False(t, s.Exists(ctx, "consolidated/2024"), "directories are not files")

	full := s.GetFullPath("consolidated/2024/FY-2024.xlsx")
	assert.Equal(t, filepath.Join(dir, "consolidated", "2024", "FY-2024.xlsx"), full)
	content, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "workbook", string(content))

	// overwrite leaves no temp files behind
	require.NoError(t, s.Save(ctx, "consolidated/2024/FY-2024.xlsx", []byte("v2")))
	entries, err := os.ReadDir(filepath.Join(dir, "consolidated", "2024"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalFileStorage_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalFileStorage(filepath.Join(dir, "exports"), zap.NewNop())
	ctx := context.Background()

	err := s.Save(ctx, "../outside.xlsx", []byte("x"))
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "outside.xlsx"))
	assert.True(t, os.IsNotExist(statErr))

	assert.False(t, s.Exists(ctx, "../../etc/passwd"))
	assert.False(t, s.Exists(ctx, "../exports"))
}
