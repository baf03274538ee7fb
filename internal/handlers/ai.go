package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"keepsake-backend/internal/models"
)

type AIService interface {
	Suggest(ctx context.Context, slug string, req models.SuggestRequest) ([]string, error)
	Sticker(ctx context.Context, slug string, req models.StickerRequest) (*models.StickerResponse, error)
}

type AIHandler struct {
	ai     AIService
	logger *zap.Logger
}

func NewAIHandler(ai AIService, logger *zap.Logger) *AIHandler {
	return &AIHandler{ai: ai, logger: logger}
}

// Suggest godoc
// @Summary     Suggest messages
// @Description Up to three short message ideas for the page's recipient and occasion.
// @Tags        ai
// @Accept      json
// @Produce     json
// @Param       slug    path string                true  "Page slug"
// @Param       request body models.SuggestRequest false "Context for the suggestions"
// @Success     200 {object} models.SuggestResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /pages/{slug}/ai/suggestions [post]
func (h *AIHandler) Suggest(c *gin.Context) {
	var req models.SuggestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	suggestions, err := h.ai.Suggest(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.SuggestResponse{Suggestions: suggestions})
}

// Sticker godoc
// @Summary     Generate a sticker
// @Description Generates a sticker image and stores it with the page. Pass the returned path when submitting the contribution.
// @Tags        ai
// @Accept      json
// @Produce     json
// @Param       slug    path string                true "Page slug"
// @Param       request body models.StickerRequest true "Sticker prompt"
// @Success     200 {object} models.StickerResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /pages/{slug}/ai/stickers [post]
func (h *AIHandler) Sticker(c *gin.Context) {
	var req models.StickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := h.ai.Sticker(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
