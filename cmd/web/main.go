package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadilmartias/resume-ai/internal/client"
	"github.com/fadilmartias/resume-ai/internal/config"
	"github.com/fadilmartias/resume-ai/internal/domain/fiber/handler"
	"github.com/fadilmartias/resume-ai/internal/form"
	"github.com/fadilmartias/resume-ai/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// Views idle for longer than this are dropped from the registry.
const viewIdleTimeout = 30 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig := config.LoadAppConfig()
	clientConfig := config.LoadClientConfig()
	uploadConfig := config.LoadUploadConfig()

	engine, err := web.NewEngine()
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		Views:     engine,
		BodyLimit: int(uploadConfig.MaxUploadBytes) + 1024*1024,
	})
	app.Use(logger.New())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'",
	}))

	generator := client.New(clientConfig.GeneratorURL)
	registry := form.NewRegistry(generator, clientConfig.Timeout)
	handler.NewViewHandler(registry, uploadConfig.MaxUploadBytes).RegisterRoutes(app)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := registry.Sweep(viewIdleTimeout); n > 0 {
					log.Printf("Dropped %d idle views, %d mounted", n, registry.Len())
				}
			}
		}
	})

	g.Go(func() error {
		log.Printf("Web client running on %s, generating through %s", appConfig.WebPort, generator.Endpoint())
		return app.Listen(appConfig.WebPort)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down web client")
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
