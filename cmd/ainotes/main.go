// Основной пакет приложения AINotes. Отвечает за запуск приложения,
// инициализацию базы данных, миграцию моделей и запуск HTTP сервера.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/aisa-it/ainotes/internal/ainotes"
	"github.com/aisa-it/ainotes/internal/ainotes/config"
	"github.com/aisa-it/ainotes/internal/ainotes/dao"
	"github.com/aisa-it/ainotes/internal/ainotes/gormlogger"
)

var version string = "DEV"

var models = []any{&dao.Note{}}

func main() {
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	PrintBanner()

	cfg := config.ReadConfig()

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	slog.Info("AINotes start.")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.NewGormLogger(slog.Default(), time.Second*4, *paramQueries),
	})
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Fail set settings to conn pool", "err", err)
		os.Exit(1)
	}
	// sqlite handles one writer at a time
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxIdleTime(time.Minute * 15)

	if err := db.AutoMigrate(models...); err != nil {
		slog.Error("DB migration failed", "err", err)
		os.Exit(1)
	}

	ainotes.Server(db, cfg, version)
}

// PrintBanner выводит заголовок приложения с версией.
func PrintBanner() {
	banner := `
          _____ _   _       _
    /\   |_   _| \ | |     | |
   /  \    | | |  \| | ___ | |_ ___  ___
  / /\ \   | | | .  |/ _ \| __/ _ \/ __|
 / ____ \ _| |_| |\  | (_) | ||  __/\__ \
/_/    \_\_____|_| \_|\___/ \__\___||___/ %s
AI-assisted note-taking service
%s
----------------------------------------------------
`
	colorReset := "\033[0m"

	colorYellow := "\033[33m"
	colorBlue := "\033[34m"

	formattedVersion := version
	if version == "DEV" {
		formattedVersion = colorYellow + version + colorReset
	}

	fmt.Printf(banner, formattedVersion, colorBlue+"https://aisa.ru"+colorReset)
}
