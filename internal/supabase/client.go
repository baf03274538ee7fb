package supabase

import (
	"github.com/supabase-community/supabase-go"
	"keepsake-backend/internal/config"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

// NewClient builds the Supabase client used for PostgREST calls. Server side
// calls use the service role key when one is configured.
func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.ServiceKey(), nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}
