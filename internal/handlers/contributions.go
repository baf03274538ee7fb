package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/middleware"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/services"
)

type ContributionService interface {
	List(ctx context.Context, slug, visitorID string) (*services.Board, error)
	Create(ctx context.Context, slug string, in services.NewContribution) (*models.Contribution, error)
	Delete(ctx context.Context, slug string, creatorID, id uuid.UUID) error
	Reply(ctx context.Context, slug string, id uuid.UUID, reply string) (*models.Contribution, error)
	SetEmail(ctx context.Context, slug string, id uuid.UUID, email string) error
	ToggleReaction(ctx context.Context, slug string, id uuid.UUID, visitorID, emoji string) (*services.ToggleResult, error)
}

const maxMultipartMemory = 32 << 20

type ContributionsHandler struct {
	contributions ContributionService
	logger        *zap.Logger
}

func NewContributionsHandler(contributions ContributionService, logger *zap.Logger) *ContributionsHandler {
	return &ContributionsHandler{contributions: contributions, logger: logger}
}

// ListContributions godoc
// @Summary     List a page's contributions
// @Description Contributions in submission order, each with reaction counts for the calling visitor.
// @Tags        contributions
// @Produce     json
// @Param       slug         path   string true  "Page slug"
// @Param       X-Visitor-ID header string false "Visitor id"
// @Success     200 {object} models.ContributionListResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /pages/{slug}/contributions [get]
func (h *ContributionsHandler) ListContributions(c *gin.Context) {
	board, err := h.contributions.List(c.Request.Context(), c.Param("slug"), middleware.VisitorID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	resp := models.ContributionListResponse{Contributions: make([]models.ContributionResponse, len(board.Contributions))}
	for i, contribution := range board.Contributions {
		resp.Contributions[i] = contributionResponse(contribution, board.Reactions)
	}
	c.JSON(http.StatusOK, resp)
}

// CreateContribution godoc
// @Summary     Leave a message
// @Description Accepts a message, an optional photo and an optional previously generated sticker while the page is collecting.
// @Tags        contributions
// @Accept      multipart/form-data
// @Produce     json
// @Param       slug              path     string true  "Page slug"
// @Param       contributor_name  formData string true  "Name shown on the card"
// @Param       message_text      formData string false "Message (max 500 characters)"
// @Param       contributor_email formData string false "Address for reply notices"
// @Param       ai_sticker_path   formData string false "Path returned by the sticker endpoint"
// @Param       photo             formData file   false "Photo (max 10 MB)"
// @Success     201 {object} models.ContributionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /pages/{slug}/contributions [post]
func (h *ContributionsHandler) CreateContribution(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		badRequest(c, "failed to parse multipart form")
		return
	}

	in := services.NewContribution{
		ContributorName: c.PostForm("contributor_name"),
		Message:         c.PostForm("message_text"),
		Email:           c.PostForm("contributor_email"),
		AIStickerPath:   c.PostForm("ai_sticker_path"),
	}

	if fileHeader, err := c.FormFile("photo"); err == nil {
		if fileHeader.Size > services.MaxPhotoBytes {
			badRequest(c, "photo must be at most 10 MB")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			badRequest(c, "failed to read photo")
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, services.MaxPhotoBytes+1))
		file.Close()
		if err != nil {
			badRequest(c, "failed to read photo")
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		in.Photo = &services.Photo{ContentType: contentType, Data: data}
	}

	contribution, err := h.contributions.Create(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, contributionResponse(*contribution, nil))
}

func (h *ContributionsHandler) DeleteContribution(c *gin.Context) {
	userID, ok := creatorID(c)
	if !ok {
		return
	}
	id, ok := contributionID(c)
	if !ok {
		return
	}

	if err := h.contributions.Delete(c.Request.Context(), c.Param("slug"), userID, id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleReaction godoc
// @Summary     Toggle the visitor's emoji on a contribution
// @Description Adds the reaction when absent, removes it when present. On a failed write the response carries the restored counts and an error.
// @Tags        reactions
// @Accept      json
// @Produce     json
// @Param       slug    path string                       true "Page slug"
// @Param       id      path string                       true "Contribution ID"
// @Param       request body models.ToggleReactionRequest true "Emoji"
// @Success     200 {object} models.ToggleReactionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ToggleReactionResponse
// @Router      /pages/{slug}/contributions/{id}/reactions [post]
func (h *ContributionsHandler) ToggleReaction(c *gin.Context) {
	id, ok := contributionID(c)
	if !ok {
		return
	}
	var req models.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.contributions.ToggleReaction(c.Request.Context(), c.Param("slug"), id, middleware.VisitorID(c), req.Emoji)
	if result == nil {
		writeError(c, h.logger, err)
		return
	}

	resp := models.ToggleReactionResponse{
		ContributionID: id.String(),
		Emoji:          req.Emoji,
		State:          string(result.Toggle.State),
		Reactions:      countResponses(result.Counts),
	}
	status := http.StatusOK
	if err != nil {
		h.logger.Warn("reaction toggle reverted", zap.String("contribution_id", id.String()), zap.Error(err))
		resp.Error = apperr.Message(err)
		status = apperr.HTTPStatus(apperr.KindOf(err))
	}
	c.JSON(status, resp)
}

func (h *ContributionsHandler) Reply(c *gin.Context) {
	id, ok := contributionID(c)
	if !ok {
		return
	}
	var req models.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	contribution, err := h.contributions.Reply(c.Request.Context(), c.Param("slug"), id, req.Reply)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contributionResponse(*contribution, nil))
}

func (h *ContributionsHandler) SetEmail(c *gin.Context) {
	id, ok := contributionID(c)
	if !ok {
		return
	}
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.contributions.SetEmail(c.Request.Context(), c.Param("slug"), id, req.Email); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
