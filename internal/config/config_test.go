package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFilesystem, cfg.Store.Backend)
	assert.Equal(t, "site-data", cfg.Store.Namespace)
	assert.Equal(t, "data", cfg.Store.Entity)
	assert.Equal(t, 10*time.Second, cfg.Store.ProviderTimeout)
	assert.Equal(t, "/media", cfg.Uploads.PublicPath)
	assert.Empty(t, cfg.Maintenance.PruneSchedule)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("STORE_PROVIDER_TIMEOUT", "3")
	t.Setenv("STRICT_CATEGORY_REFS", "true")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("ADMIN_PASSWORD", "geheim")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 3*time.Second, cfg.Store.ProviderTimeout)
	assert.True(t, cfg.Store.StrictCategoryRefs)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, "geheim", cfg.Seed.AdminPassword)
}

func TestValidate(t *testing.T) {
	t.Setenv("STORE_BACKEND", "s3")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
