package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"keepsake-backend/internal/lifecycle"
	"keepsake-backend/internal/models"
)

type PageService interface {
	Create(ctx context.Context, creatorID uuid.UUID, req models.CreatePageRequest) (*models.Page, error)
	Get(ctx context.Context, slug string) (*models.Page, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Page, error)
	ChangeStatus(ctx context.Context, slug string, creatorID uuid.UUID, to models.PageStatus) (*models.Page, error)
	ThankYou(ctx context.Context, slug string) (*models.Page, error)
}

type PagesHandler struct {
	pages  PageService
	logger *zap.Logger
}

func NewPagesHandler(pages PageService, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{pages: pages, logger: logger}
}

// CreatePage godoc
// @Summary     Create a celebration page
// @Description Creates a page in the collecting state and returns its slug.
// @Tags        pages
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreatePageRequest true "Page details"
// @Success     201 {object} models.PageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /pages [post]
func (h *PagesHandler) CreatePage(c *gin.Context) {
	userID, ok := creatorID(c)
	if !ok {
		return
	}

	var req models.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	page, err := h.pages.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, pageResponse(page))
}

// ListPages godoc
// @Summary     List the creator's pages
// @Tags        pages
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.PageListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /pages [get]
func (h *PagesHandler) ListPages(c *gin.Context) {
	userID, ok := creatorID(c)
	if !ok {
		return
	}

	pages, err := h.pages.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	resp := models.PageListResponse{Pages: make([]models.PageResponse, len(pages))}
	for i := range pages {
		resp.Pages[i] = pageResponse(&pages[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagesHandler) GetPage(c *gin.Context) {
	page, err := h.pages.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

// UpdateStatus godoc
// @Summary     Move a page forward in its lifecycle
// @Description collecting -> active -> revealed -> thanked -> complete. Only forward steps are accepted.
// @Tags        pages
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       slug    path string                     true "Page slug"
// @Param       request body models.UpdateStatusRequest true "Target status"
// @Success     200 {object} models.PageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /pages/{slug}/status [post]
func (h *PagesHandler) UpdateStatus(c *gin.Context) {
	userID, ok := creatorID(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	to, err := lifecycle.Parse(req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	page, err := h.pages.ChangeStatus(c.Request.Context(), c.Param("slug"), userID, to)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

// ThankYou lets the recipient close a revealed page, which unlocks the download.
func (h *PagesHandler) ThankYou(c *gin.Context) {
	page, err := h.pages.ThankYou(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}
