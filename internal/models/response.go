package models

import (
	"time"
)

type PageResponse struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	RecipientName  string    `json:"recipient_name"`
	TemplateType   string    `json:"template_type"`
	OccasionLabel  string    `json:"occasion_label"`
	CreatorMessage string    `json:"creator_message,omitempty"`
	CreatorName    string    `json:"creator_name,omitempty"`
	HeroImageURL   string    `json:"hero_image_url,omitempty"`
	EventDate      string    `json:"event_date,omitempty"`
	Status         string    `json:"status"`
	CanDownload    bool      `json:"can_download"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PageListResponse struct {
	Pages []PageResponse `json:"pages"`
}

type ReactionCountResponse struct {
	Emoji   string `json:"emoji"`
	Count   int    `json:"count"`
	Reacted bool   `json:"reacted"`
}

type ContributionResponse struct {
	ID              string                  `json:"id"`
	ContributorName string                  `json:"contributor_name"`
	MessageText     *string                 `json:"message_text"`
	PhotoURL        *string                 `json:"photo_url"`
	AIStickerURL    *string                 `json:"ai_sticker_url"`
	RecipientReply  *string                 `json:"recipient_reply"`
	Reactions       []ReactionCountResponse `json:"reactions"`
	CreatedAt       time.Time               `json:"created_at"`
}

type ContributionListResponse struct {
	Contributions []ContributionResponse `json:"contributions"`
}

type ToggleReactionResponse struct {
	ContributionID string                  `json:"contribution_id"`
	Emoji          string                  `json:"emoji"`
	State          string                  `json:"state"`
	Reactions      []ReactionCountResponse `json:"reactions"`
	Error          string                  `json:"error,omitempty"`
}

type PrintPageResponse struct {
	Number        int                    `json:"number"`
	Kind          string                 `json:"kind"`
	Weight        float64                `json:"weight,omitempty"`
	Contributions []ContributionResponse `json:"contributions,omitempty"`
}

type PrintLayoutResponse struct {
	Slug       string              `json:"slug"`
	FeaturedID string              `json:"featured_id,omitempty"`
	Pages      []PrintPageResponse `json:"pages"`
}

type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type StickerResponse struct {
	AIStickerURL  string `json:"ai_sticker_url"`
	AIStickerPath string `json:"ai_sticker_path"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
