package models

type CreatePageRequest struct {
	RecipientName  string `json:"recipient_name" binding:"required"`
	TemplateType   string `json:"template_type" binding:"required"`
	CreatorMessage string `json:"creator_message,omitempty"`
	CreatorName    string `json:"creator_name,omitempty"`
	HeroImageURL   string `json:"hero_image_url,omitempty"`
	// EventDate is an ISO date (2006-01-02).
	EventDate      string `json:"event_date,omitempty" example:"2026-06-01"`
	RecipientEmail string `json:"recipient_email,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"revealed"`
}

type ToggleReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

type ReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

type SuggestRequest struct {
	ContributorName string `json:"contributor_name,omitempty"`
	Hint            string `json:"hint,omitempty"`
}

type StickerRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required" example:"ana@example.com"`
}
