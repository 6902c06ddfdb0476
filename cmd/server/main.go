package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/resume-ai/internal/config"
	"github.com/fadilmartias/resume-ai/internal/domain/fiber/handler"
	"github.com/fadilmartias/resume-ai/internal/middleware"
	"github.com/fadilmartias/resume-ai/internal/model"
	"github.com/fadilmartias/resume-ai/internal/repository"
	"github.com/fadilmartias/resume-ai/internal/service"
	"github.com/fadilmartias/resume-ai/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName:      appConfig.Name,
		BodyLimit:    int(config.LoadUploadConfig().MaxUploadBytes) + 1024*1024,
		ErrorHandler: errorHandler,
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	// History is optional; without a database the generator still works.
	var store usecase.GenerationStore
	if dbConfig := config.LoadDBConfig(); dbConfig.Enabled() {
		store = repository.NewGenerationRepository(ConnectDB(dbConfig, appConfig))
	} else {
		log.Println("DB_HOST not set, generation history disabled")
	}

	generator, err := service.NewLetterGenerator(ctx, config.LoadLLMConfig())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Using %s (%s) for letter generation", generator.Provider(), generator.Model())

	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return service.Ready(generator)
		},
	}))

	uc := usecase.NewGenerationUsecase(store, generator)
	handler.NewGenerateHandler(uc, config.LoadUploadConfig().MaxUploadBytes).RegisterRoutes(app)

	g, gctx := errgroup.WithContext(ctx)

	// Monitor goroutine count
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				log.Printf("Active goroutines: %d", runtime.NumGoroutine())
			}
		}
	})

	g.Go(func() error {
		log.Println("Server running on ", appConfig.Port)
		return app.Listen(appConfig.Port)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down server")
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func errorHandler(ctx *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" {
		message = "Internal Server Error"
	}

	return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
}

func ConnectDB(dbConfig *config.DBConfig, appConfig *config.AppConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&model.Generation{}); err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
