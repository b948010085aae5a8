package bootstrap

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"

	api "github.com/mrinalFouzdar/BE-Email-Automation-sub001/adapter/in/http"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/config"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/infra/middleware"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

// NewAPI builds the HTTP application with all routes wired.
func NewAPI(cfg *config.Config, deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             10 * 1024 * 1024,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// AllowCredentials:true requires explicit origins, never "*"
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
			allowCredentials = false
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}))

	// Health probes (no auth)
	healthHandler := api.NewHealthHandler(deps.DB, deps.Redis, deps.MongoDB)
	healthHandler.Register(app)

	// Authenticated API routes
	v1 := app.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))

	emailHandler := api.NewEmailHandler(
		deps.EmailRepo,
		deps.MetaRepo,
		deps.LabelRepo,
		deps.ClassificationService,
		deps.IngestService,
	)
	emailHandler.Register(v1)

	suggestionHandler := api.NewSuggestionHandler(deps.SuggestionService)
	suggestionHandler.Register(v1)

	labelHandler := api.NewLabelHandler(deps.LabelService)
	labelHandler.Register(v1)

	analyticsHandler := api.NewAnalyticsHandler(deps.AnalyticsService)
	analyticsHandler.Register(v1)

	reminderHandler := api.NewReminderHandler(deps.ReminderService)
	reminderHandler.Register(v1)

	documentHandler := api.NewDocumentHandler(deps.DocumentService)
	documentHandler.Register(v1)

	if deps.ChatService != nil {
		chatHandler := api.NewChatHandler(deps.ChatService)
		chatHandler.Register(v1)
	} else {
		logger.Warn("Chat routes disabled: no LLM client configured")
	}

	logger.Info("API server initialized")

	return app
}
