package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/middleware"
	"keepsake-backend/internal/services"
)

type KeepsakeService interface {
	PrintLayout(ctx context.Context, slug string) (*services.PrintLayout, error)
	PrintHTML(ctx context.Context, slug string) (string, error)
	KeepsakeHTML(ctx context.Context, slug string, viewer services.Viewer) (string, error)
	ExportPDF(ctx context.Context, slug string, opts services.ExportOptions) (*keepsake.Document, error)
}

type KeepsakeHandler struct {
	keepsakes KeepsakeService
	logger    *zap.Logger
}

func NewKeepsakeHandler(keepsakes KeepsakeService, logger *zap.Logger) *KeepsakeHandler {
	return &KeepsakeHandler{keepsakes: keepsakes, logger: logger}
}

// PrintLayout godoc
// @Summary     Paginated print layout
// @Description Cover, featured, content and back pages computed from the current contributions.
// @Tags        keepsake
// @Produce     json
// @Param       slug path string true "Page slug"
// @Success     200 {object} models.PrintLayoutResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /pages/{slug}/print [get]
func (h *KeepsakeHandler) PrintLayout(c *gin.Context) {
	slug := c.Param("slug")
	pl, err := h.keepsakes.PrintLayout(c.Request.Context(), slug)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, printLayoutResponse(slug, pl.Result, pl.Pages))
}

func (h *KeepsakeHandler) PrintHTML(c *gin.Context) {
	html, err := h.keepsakes.PrintHTML(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *KeepsakeHandler) KeepsakeHTML(c *gin.Context) {
	viewer := services.Viewer{VisitorID: middleware.VisitorID(c)}
	if userID, ok := middleware.UserID(c); ok {
		viewer.UserID = userID
	}

	html, err := h.keepsakes.KeepsakeHTML(c.Request.Context(), c.Param("slug"), viewer)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// KeepsakePDF godoc
// @Summary     Download the keepsake
// @Description Renders the keepsake grid and returns it as an A4 PDF with cover and back pages. Available once the recipient has said thank you.
// @Tags        keepsake
// @Produce     application/pdf
// @Param       slug path string true "Page slug"
// @Success     200 {file} file
// @Failure     403 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /pages/{slug}/keepsake.pdf [get]
func (h *KeepsakeHandler) KeepsakePDF(c *gin.Context) {
	doc, err := h.keepsakes.ExportPDF(c.Request.Context(), c.Param("slug"), services.ExportOptions{})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Bytes)
}
