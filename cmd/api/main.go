package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-briefing/internal/common/api"
	"go-briefing/internal/config"
	"go-briefing/internal/database"
	emails "go-briefing/internal/email"
	"go-briefing/internal/features/dashboard"
	"go-briefing/internal/features/dispatch"
	"go-briefing/internal/features/generation"
	"go-briefing/internal/features/newsletter"
	"go-briefing/internal/features/scheduler"
	"go-briefing/internal/features/settings"
	"go-briefing/internal/features/system"
	"go-briefing/internal/logger"
	"go-briefing/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags the constructor so Fx knows to add it to the "routes" group
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the "routes" group and calls Setup() on each one
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Email transport
			emails.NewSMTPConfig,
			emails.NewSender,

			// Pipeline event feed
			system.NewEventHub,

			// Initialize Repository
			settings.NewSettingsRepository,
			newsletter.NewNewsletterRepository,
			newsletter.NewArticleRepository,

			// Initialize Service
			settings.NewSettingsService,
			generation.NewGenerator,
			dispatch.NewDispatcher,
			newsletter.NewNewsletterService,
			dashboard.NewDashboardService,
			scheduler.NewSchedulerService,

			// Initialize Controller
			settings.NewSettingsController,
			newsletter.NewNewsletterController,
			dashboard.NewDashboardController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(settings.NewSettingsApi),
			AsRoute(newsletter.NewNewsletterApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, schedulerService scheduler.SchedulerService, settingsService settings.SettingsService) {
				// Settings edits retarget the pending fire instant
				settingsService.SetScheduleReloader(schedulerService)

				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return schedulerService.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return schedulerService.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
