package api

import (
	"github.com/buzlove/love-tree-backend/internal/api/handler"
	"github.com/buzlove/love-tree-backend/internal/api/middleware"
	"github.com/buzlove/love-tree-backend/internal/config"
	"github.com/buzlove/love-tree-backend/internal/repository"
	"github.com/buzlove/love-tree-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Deps bundles everything the routes need.
type Deps struct {
	Mascots *service.MascotService
	Letters *repository.LetterRepository
	Relay   *repository.RelayRepository
	Points  *repository.MapPointRepository
}

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - deps: services and repositories backing the handlers.
//   - cfg: server configuration (mode, CORS).
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(deps Deps, cfg *config.ServerConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	mascotHandler := handler.NewMascotHandler(deps.Mascots)
	letterHandler := handler.NewLetterHandler(deps.Letters)
	relayHandler := handler.NewRelayHandler(deps.Relay)
	mapHandler := handler.NewMapPointHandler(deps.Points)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		mascot := api.Group("/mascot")
		{
			mascot.POST("/from-audio", mascotHandler.FromAudio)
			mascot.GET("", mascotHandler.List)
			mascot.GET("/latest", mascotHandler.Latest)
			mascot.PATCH("/:id/like", mascotHandler.Like)
		}

		letters := api.Group("/letters")
		{
			letters.GET("", letterHandler.List)
			letters.POST("", letterHandler.Create)
			letters.GET("/:id", letterHandler.Get)
		}

		relay := api.Group("/relay")
		{
			relay.GET("", relayHandler.List)
			relay.POST("", relayHandler.Create)
		}

		mapGroup := api.Group("/map")
		{
			mapGroup.GET("/all", mapHandler.ListAll)
			mapGroup.POST("/add", mapHandler.Add)
		}
	}

	return r
}
