package handlers

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"keepsake-backend/internal/layout"
	"keepsake-backend/internal/lifecycle"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/reactions"
)

func optional(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func pageResponse(p *models.Page) models.PageResponse {
	resp := models.PageResponse{
		ID:             p.ID.String(),
		Slug:           p.Slug,
		RecipientName:  p.RecipientName,
		TemplateType:   string(p.TemplateType),
		OccasionLabel:  p.TemplateType.Label(),
		CreatorMessage: p.CreatorMessage.String,
		CreatorName:    p.CreatorName.String,
		HeroImageURL:   p.HeroImageURL.String,
		Status:         string(p.Status),
		CanDownload:    lifecycle.CanDownloadKeepsake(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.EventDate.Valid {
		resp.EventDate = p.EventDate.Time.Format(time.DateOnly)
	}
	return resp
}

func countResponses(counts []reactions.Count) []models.ReactionCountResponse {
	out := make([]models.ReactionCountResponse, len(counts))
	for i, c := range counts {
		out[i] = models.ReactionCountResponse{Emoji: c.Emoji, Count: c.Count, Reacted: c.Reacted}
	}
	return out
}

func contributionResponse(c models.Contribution, counts map[uuid.UUID][]reactions.Count) models.ContributionResponse {
	return models.ContributionResponse{
		ID:              c.ID.String(),
		ContributorName: c.ContributorName,
		MessageText:     optional(c.MessageText),
		PhotoURL:        optional(c.PhotoURL),
		AIStickerURL:    optional(c.AIStickerURL),
		RecipientReply:  optional(c.RecipientReply),
		Reactions:       countResponses(counts[c.ID]),
		CreatedAt:       c.CreatedAt,
	}
}

func printLayoutResponse(slug string, result layout.Result, pages []layout.PageDescriptor) models.PrintLayoutResponse {
	resp := models.PrintLayoutResponse{Slug: slug, Pages: make([]models.PrintPageResponse, len(pages))}
	if result.Featured != nil {
		resp.FeaturedID = result.Featured.ID.String()
	}
	for i, p := range pages {
		page := models.PrintPageResponse{Number: p.Number, Kind: string(p.Kind), Weight: p.Weight}
		for _, c := range p.Contributions {
			page.Contributions = append(page.Contributions, contributionResponse(c, nil))
		}
		resp.Pages[i] = page
	}
	return resp
}
