package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"keepsake-backend/internal/config"
	"keepsake-backend/internal/middleware"
)

type Dependencies struct {
	Config        *config.Config
	Health        Pinger
	Pages         PageService
	Contributions ContributionService
	Keepsakes     KeepsakeService
	AI            AIService
	Logger        *zap.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := deps.Config
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.VisitorHeader},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/health", NewHealthHandler(deps.Health).Health)

	pages := NewPagesHandler(deps.Pages, logger)
	contributions := NewContributionsHandler(deps.Contributions, logger)
	keepsakes := NewKeepsakeHandler(deps.Keepsakes, logger)
	ai := NewAIHandler(deps.AI, logger)

	api := router.Group("/api/v1")
	api.Use(middleware.Visitor(cfg.IsProduction()))

	public := api.Group("/pages")
	public.Use(middleware.OptionalAuth(cfg))
	public.GET("/:slug", pages.GetPage)
	public.POST("/:slug/thank-you", pages.ThankYou)
	public.GET("/:slug/contributions", contributions.ListContributions)
	public.POST("/:slug/contributions", contributions.CreateContribution)
	public.POST("/:slug/contributions/:id/reactions", contributions.ToggleReaction)
	public.POST("/:slug/contributions/:id/reply", contributions.Reply)
	public.POST("/:slug/contributions/:id/email", contributions.SetEmail)
	public.GET("/:slug/print", keepsakes.PrintLayout)
	public.GET("/:slug/print.html", keepsakes.PrintHTML)
	public.GET("/:slug/keepsake.html", keepsakes.KeepsakeHTML)
	public.GET("/:slug/keepsake.pdf", keepsakes.KeepsakePDF)
	public.POST("/:slug/ai/suggestions", ai.Suggest)
	public.POST("/:slug/ai/stickers", ai.Sticker)

	creator := api.Group("/pages")
	creator.Use(middleware.AuthMiddleware(cfg))
	creator.POST("", pages.CreatePage)
	creator.GET("", pages.ListPages)
	creator.POST("/:slug/status", pages.UpdateStatus)
	creator.DELETE("/:slug/contributions/:id", contributions.DeleteContribution)

	return router
}
