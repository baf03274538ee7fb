package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/layout"
)

const envPrefix = "KEEPSAKE"

type Config struct {
	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseServiceRoleKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string

	// Database
	DatabaseURL string

	// Gemini
	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string

	// Email
	ResendAPIKey string
	EmailFrom    string

	// Export
	Brand             string
	ChromeDevToolsURL string
	ChromeBin         string
	CaptureTimeout    time.Duration
	Layout            layout.Config
	Geometry          keepsake.Geometry

	// Server
	Port        string
	Environment string
	BaseURL     string
	AppURL      string
	CORSOrigins []string
	LogLevel    string
}

// envAliases keeps the unprefixed Supabase variable names working alongside
// the KEEPSAKE_ prefixed ones.
var envAliases = map[string][]string{
	"supabase.url":              {"SUPABASE_URL"},
	"supabase.publishable_key":  {"SUPABASE_PUBLISHABLE_KEY"},
	"supabase.service_role_key": {"SUPABASE_SERVICE_ROLE_KEY"},
	"supabase.jwt_secret":       {"SUPABASE_JWT_SECRET"},
	"supabase.storage_bucket":   {"SUPABASE_STORAGE_BUCKET"},
	"database.url":              {"DATABASE_URL"},
	"gemini.api_key":            {"GEMINI_API_KEY"},
	"resend.api_key":            {"RESEND_API_KEY"},
	"server.port":               {"PORT"},
}

func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(append([]string{key, prefixed}, names...)...)
	}

	v.SetDefault("supabase.storage_bucket", "keepsake-media")
	v.SetDefault("gemini.text_model", "gemini-2.5-flash")
	v.SetDefault("gemini.image_model", "imagen-4.0-generate-001")
	v.SetDefault("email.from", "Keepsake <hello@keepsake.app>")
	v.SetDefault("export.brand", "Keepsake")
	v.SetDefault("export.capture_timeout", "60s")

	l := layout.DefaultConfig()
	v.SetDefault("layout.photo_score", l.PhotoScore)
	v.SetDefault("layout.photo_weight", l.PhotoWeight)
	v.SetDefault("layout.long_text_weight", l.LongTextWeight)
	v.SetDefault("layout.short_text_weight", l.ShortTextWeight)
	v.SetDefault("layout.long_text_words", l.LongTextWords)
	v.SetDefault("layout.page_capacity", l.PageCapacity)

	g := keepsake.A4()
	v.SetDefault("geometry.page_width_mm", g.PageWidthMM)
	v.SetDefault("geometry.page_height_mm", g.PageHeightMM)
	v.SetDefault("geometry.margin_top_mm", g.MarginTopMM)
	v.SetDefault("geometry.margin_bottom_mm", g.MarginBottomMM)
	v.SetDefault("geometry.margin_side_mm", g.MarginSideMM)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.app_url", "http://localhost:3000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
}

// LoadDotEnv reads a .env file into the process environment when present.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		SupabaseURL:            strings.TrimRight(v.GetString("supabase.url"), "/"),
		SupabasePublishableKey: v.GetString("supabase.publishable_key"),
		SupabaseServiceRoleKey: v.GetString("supabase.service_role_key"),
		SupabaseJWTSecret:      v.GetString("supabase.jwt_secret"),
		SupabaseStorageBucket:  v.GetString("supabase.storage_bucket"),

		DatabaseURL: v.GetString("database.url"),

		GeminiAPIKey:     v.GetString("gemini.api_key"),
		GeminiTextModel:  v.GetString("gemini.text_model"),
		GeminiImageModel: v.GetString("gemini.image_model"),

		ResendAPIKey: v.GetString("resend.api_key"),
		EmailFrom:    v.GetString("email.from"),

		Brand:             v.GetString("export.brand"),
		ChromeDevToolsURL: v.GetString("export.chrome_devtools_url"),
		ChromeBin:         v.GetString("export.chrome_bin"),
		CaptureTimeout:    v.GetDuration("export.capture_timeout"),
		Layout: layout.Config{
			PhotoScore:      v.GetInt("layout.photo_score"),
			PhotoWeight:     v.GetFloat64("layout.photo_weight"),
			LongTextWeight:  v.GetFloat64("layout.long_text_weight"),
			ShortTextWeight: v.GetFloat64("layout.short_text_weight"),
			LongTextWords:   v.GetInt("layout.long_text_words"),
			PageCapacity:    v.GetFloat64("layout.page_capacity"),
		},
		Geometry: keepsake.Geometry{
			PageWidthMM:    v.GetFloat64("geometry.page_width_mm"),
			PageHeightMM:   v.GetFloat64("geometry.page_height_mm"),
			MarginTopMM:    v.GetFloat64("geometry.margin_top_mm"),
			MarginBottomMM: v.GetFloat64("geometry.margin_bottom_mm"),
			MarginSideMM:   v.GetFloat64("geometry.margin_side_mm"),
		},

		Port:        v.GetString("server.port"),
		Environment: v.GetString("server.environment"),
		BaseURL:     v.GetString("server.base_url"),
		AppURL:      strings.TrimRight(v.GetString("server.app_url"), "/"),
		CORSOrigins: v.GetStringSlice("server.cors_origins"),
		LogLevel:    v.GetString("log.level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceRoleKey == "" && c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY or SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Layout.PageCapacity <= 0 {
		return fmt.Errorf("layout.page_capacity must be positive")
	}
	if c.Layout.PhotoWeight <= 0 || c.Layout.LongTextWeight <= 0 || c.Layout.ShortTextWeight <= 0 {
		return fmt.Errorf("layout weights must be positive")
	}
	if c.Geometry.ContentWidthMM() <= 0 || c.Geometry.ContentHeightMM() <= 0 {
		return fmt.Errorf("geometry margins leave no content area")
	}
	return nil
}

// ServiceKey is the key used for server side Supabase calls. With only the
// publishable key, reaction writes run under the anon row level policies.
func (c *Config) ServiceKey() string {
	if c.SupabaseServiceRoleKey != "" {
		return c.SupabaseServiceRoleKey
	}
	return c.SupabasePublishableKey
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
