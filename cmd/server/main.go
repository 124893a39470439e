package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pdfbabel/internal/config"
	"pdfbabel/internal/handlers"
	"pdfbabel/internal/ingestion"
	"pdfbabel/internal/models"
	"pdfbabel/internal/storage"
	"pdfbabel/internal/translate"
	"pdfbabel/internal/version"
	"pdfbabel/internal/worker"
	"pdfbabel/web"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	for _, dir := range []string{cfg.UploadDir, cfg.DownloadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	jobRepo := storage.NewJobRepository(db)

	client := translate.NewClient(cfg.TranslateEndpoint)
	translator := translate.NewTranslator(client, cfg.DownloadDir, cfg.ChunkSize, cfg.RequestDelay)
	ingester := ingestion.NewPDFIngester(jobRepo, translator, cfg.UploadDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.NewWorker(jobRepo, cfg.WorkerCount)
	w.RegisterHandler(models.JobTypeTranslate, func(ctx context.Context, job *models.TranslationJob, onProgress func(int)) (string, error) {
		return ingester.ProcessTranslation(ctx, job, onProgress)
	})
	w.EnableCleanup(time.Duration(cfg.RetentionDays)*24*time.Hour, cfg.DownloadDir, cfg.UploadDir)
	w.Start(ctx)

	e := echo.New()
	e.HideBanner = cfg.IsProduction()
	e.Debug = !cfg.IsProduction()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.BodyLimit()))

	pdfHandler := handlers.NewPDFHandler(ingester, cfg.MaxUploadBytes())
	jobHandler := handlers.NewJobHandler(jobRepo)
	downloadHandler := handlers.NewDownloadHandler(cfg.DownloadDir)

	e.FileFS("/", "static/index.html", web.StaticFS)
	e.StaticFS("/static", echo.MustSubFS(web.StaticFS, "static"))

	e.POST("/upload", pdfHandler.Upload)
	e.GET("/status/:id", jobHandler.Status)
	e.GET("/events/:id", jobHandler.Events)
	e.GET("/download/:filename", downloadHandler.Get)

	e.GET("/api/languages", handlers.Languages)
	e.GET("/api/jobs", jobHandler.List)
	e.GET("/api/jobs/stats", jobHandler.Stats)
	e.DELETE("/api/jobs/:id", jobHandler.Delete)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	})

	go func() {
		log.Printf("Starting pdfbabel v%s on port %s (%s)", version.Version, cfg.Port, cfg.AppEnv)
		if err := e.Start(fmt.Sprintf(":%s", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	w.Stop()
}
