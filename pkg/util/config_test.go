package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_loadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[q1]
shipdateCutoff = "1998-09-02"
workers = 4

[q1.data]
path = "lineitem.parquet"
format = "parquet"
batchSize = 4096

[debug]
count = 3
`
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, "q1.toml"), []byte(content), 0644))

	cfg := DefaultConfig()
	fpath, err := LoadConfig([]string{dir}, "q1.toml", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, fpath)
	assert.Equal(t, "lineitem.parquet", cfg.Q1.Data.Path)
	assert.Equal(t, 4096, cfg.Q1.Data.BatchSize)
	assert.Equal(t, 4, cfg.Q1.Workers)
	assert.Equal(t, 3, cfg.Debug.Count)
}

func Test_loadConfigMissing(t *testing.T) {
	cfg := DefaultConfig()
	fpath, err := LoadConfig([]string{t.TempDir()}, "q1.toml", cfg)
	require.NoError(t, err)
	assert.Empty(t, fpath)
	//defaults survive
	assert.Equal(t, 8192, cfg.Q1.Data.BatchSize)
}
