package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/layout"
)

func setRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/keepsake")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "keepsake-media", cfg.SupabaseStorageBucket)
	assert.Equal(t, "Keepsake", cfg.Brand)
	assert.Equal(t, layout.DefaultConfig(), cfg.Layout)
	assert.Equal(t, keepsake.A4(), cfg.Geometry)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "service", cfg.ServiceKey())
}

func TestLoadPrefixedOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("KEEPSAKE_LAYOUT_PAGE_CAPACITY", "0.8")
	t.Setenv("KEEPSAKE_SERVER_PORT", "9090")
	t.Setenv("KEEPSAKE_EXPORT_BRAND", "Cheers")

	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Layout.PageCapacity)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Cheers", cfg.Brand)
}

func TestValidateMissingSupabase(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("KEEPSAKE_SUPABASE_URL", "")

	_, err := Load(NewViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL is required")
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	setRequired(t)
	t.Setenv("KEEPSAKE_GEOMETRY_MARGIN_SIDE_MM", "120")

	_, err := Load(NewViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content area")
}
