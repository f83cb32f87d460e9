package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("CONTXT_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := New()
	cfg.Environment = EnvStaging
	cfg.Output.DefaultFormat = FormatCSV
	cfg.Pagination.PageSize = 25
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EnvStaging, loaded.Environment)
	assert.Equal(t, FormatCSV, loaded.Output.DefaultFormat)
	assert.Equal(t, 25, loaded.Pagination.PageSize)
	assert.Equal(t, cfg.Services, loaded.Services)
}
