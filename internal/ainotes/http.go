// Пакет ainotes предоставляет HTTP сервис заметок с генерацией текста
// языковой моделью. Включает CRUD заметок, суммаризацию, стриминговую
// генерацию с конвертацией Markdown в структуру документа и резервное
// копирование базы.
//
// Основные возможности:
//   - Хранение заметок с содержимым в формате структурированного документа.
//   - Генерация и автодополнение текста через Grok или Ollama.
//   - Серверная вставка результата генерации прямо в документ заметки.
//   - Резервное копирование и восстановление базы по расписанию.
package ainotes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/aisa-it/ainotes/internal/ainotes/backup"
	"github.com/aisa-it/ainotes/internal/ainotes/config"
	"github.com/aisa-it/ainotes/internal/ainotes/cronmanager"
	"github.com/aisa-it/ainotes/internal/ainotes/grok"
)

type Services struct {
	db            *gorm.DB
	provider      grok.Provider
	backupService *backup.Service

	// На заметку допускается не больше одной активной генерации.
	generateMu sync.Mutex
	generating map[uuid.UUID]struct{}
}

var cfg *config.Config
var appVersion string

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "AINotes")
		return next(c)
	}
}

func Server(db *gorm.DB, c *config.Config, version string) {
	cfg = c
	appVersion = version

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		// Ignore 404
		if code == http.StatusNotFound {
			c.NoContent(http.StatusNotFound)
			return
		}
		slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		EErrorMsgStatus(c, nil, code)
	}

	backupService, err := backup.NewService(db, cfg.BackupDir)
	if err != nil {
		slog.Error("Fail init backup service", "err", err)
		os.Exit(1)
	}

	s := &Services{
		db:            db,
		provider:      newProvider(cfg),
		backupService: backupService,
		generating:    make(map[uuid.UUID]struct{}),
	}

	cronManager := cronmanager.NewCronManager()
	if err := cronManager.AddJob("db_backup", cfg.BackupSchedule, func() {
		if _, err := backupService.Run(); err != nil {
			slog.Error("Scheduled backup failed", "err", err)
		}
	}); err != nil {
		slog.Error("Failed to schedule backup job", "err", err)
		os.Exit(1)
	}
	cronManager.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down gracefully, press Ctrl+C again to force")
		cronManager.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown", "err", err)
		}
		os.Exit(0)
	}()

	// Global middlewares
	e.Use(ServerHeader)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     corsOrigins(cfg),
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: "5M",
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     9,
		MinLength: 2048,
		Skipper: func(c echo.Context) bool {
			// Gzip buffers output and breaks chunked streaming
			return strings.Contains(c.Request().URL.Path, "/generate/")
		},
	}))
	e.Use(echoprometheus.NewMiddleware("ainotes"))
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	apiGroup := e.Group("/api/")

	s.AddNoteServices(apiGroup)
	s.AddGenerateServices(apiGroup)
	s.AddBackupServices(apiGroup)

	// Version endpoint
	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version":    appVersion,
			"generation": s.provider != nil,
		})
	})

	// Health endpoint
	apiGroup.GET("_health/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Prometheus metrics
	go func() {
		bootTimeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ainotes",
			Name:      "boot_time",
			Help:      "Server startup time",
		})
		bootTimeGauge.Set(float64(time.Now().UnixMilli()))

		if err := prometheus.Register(bootTimeGauge); err != nil {
			slog.Error("Register boot time gauge", "err", err)
			os.Exit(1)
		}

		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":2112"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server fail", "err", err)
		}
	}()

	if err := e.Start(":8080"); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server fail", "err", err)
	}
}

// newProvider выбирает бэкенд генерации: Grok при наличии ключа API,
// иначе локальный Ollama. Без обоих генерация отключается, остальные
// функции сервиса продолжают работать.
func newProvider(cfg *config.Config) grok.Provider {
	if cfg.GrokAPIKey != "" {
		slog.Info("Using Grok generation backend", "url", cfg.GrokAPIURL)
		return grok.NewClient(cfg.GrokAPIURL, cfg.GrokAPIKey, cfg.GrokModel)
	}

	ollama, err := grok.NewOllama(cfg.OllamaHost, cfg.OllamaModel)
	if err != nil {
		slog.Error("Generation disabled: no Grok key and Ollama is unavailable", "err", err)
		return nil
	}
	slog.Info("Using Ollama generation backend")
	return ollama
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.CORSOrigin != "" {
		return strings.Split(cfg.CORSOrigin, ",")
	}
	return []string{cfg.WebURLRaw}
}
