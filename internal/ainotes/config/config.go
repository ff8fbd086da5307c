// Управление конфигурацией приложения из переменных окружения.
// Содержит структуру Config для хранения параметров и функцию ReadConfig для их загрузки из переменных окружения.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения с использованием тегов struct.
//   - Валидация обязательных переменных.
//   - Преобразование типов данных из переменных окружения (string, int, bool).
//   - Маскировка секретных значений (ключей API) в логах.
//   - Значения по умолчанию и ограничение диапазонов параметров.
package config

import (
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"
)

type Config struct {
	DatabasePath string `env:"DATABASE_PATH"`

	WebURLRaw string `env:"WEB_URL"`
	WebURL    *url.URL

	GrokAPIKey string `env:"GROK_API_KEY"`
	GrokAPIURL string `env:"GROK_API_URL"`
	GrokModel  string `env:"GROK_MODEL"`

	OllamaHost  string `env:"OLLAMA_HOST"`
	OllamaModel string `env:"OLLAMA_MODEL"`

	BackupDir      string `env:"BACKUP_DIR"`
	BackupSchedule string `env:"BACKUP_SCHEDULE"`

	AutosaveDebounceMs int `env:"AUTOSAVE_DEBOUNCE_MS"`
	GenerateTimeoutSec int `env:"GENERATE_TIMEOUT"`

	CORSOrigin string `env:"CORS_ORIGIN"`
}

// AutosaveDebounce возвращает окно тишины автосохранения.
func (c *Config) AutosaveDebounce() time.Duration {
	return time.Duration(c.AutosaveDebounceMs) * time.Millisecond
}

// GenerateTimeout возвращает предельное время запроса генерации.
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.GenerateTimeoutSec) * time.Second
}

// ReadConfig загружает конфигурацию приложения из переменных окружения и выполняет валидацию. Возвращает структуру Config с загруженными параметрами. Если WEB_URL не задан, приложение завершает работу с ошибкой. Для необязательных параметров подставляются значения по умолчанию, а некорректные значения приводятся к допустимому диапазону.
func ReadConfig() *Config {
	config := &Config{}

	envConfig("env", config)

	// Check required envs
	if config.WebURLRaw == "" {
		slog.Error("WEB_URL is required")
		os.Exit(1)
	} else {
		var err error
		config.WebURL, err = url.Parse(config.WebURLRaw)
		if err != nil {
			slog.Error("WEB_URL incorrect", "err", err)
			os.Exit(1)
		}
	}

	if config.DatabasePath == "" {
		config.DatabasePath = "notes.db"
	}

	if config.GrokAPIURL == "" {
		config.GrokAPIURL = "https://api.x.ai/v1"
	}

	if config.BackupDir == "" {
		config.BackupDir = "backups"
	}

	if config.BackupSchedule == "" {
		config.BackupSchedule = "0 3 * * *"
	}

	if config.AutosaveDebounceMs < 100 || config.AutosaveDebounceMs > 10000 {
		config.AutosaveDebounceMs = 1200
	}

	if config.GenerateTimeoutSec <= 0 {
		config.GenerateTimeoutSec = 120
	}

	return config
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if !Exist(fEnvTag) {
			continue
		}

		logValue := GetEnv(fEnvTag)
		if logValue == "" {
			continue
		}

		// Secure passwords in log
		if strings.Contains(strings.ToLower(fName), "pass") || strings.Contains(strings.ToLower(fName), "secret") || strings.Contains(strings.ToLower(fName), "key") {
			pass := strings.Split(GetEnv(fEnvTag), "")
			logValue = pass[0]
			for i := 1; i < len(pass)-1; i++ {
				logValue += "*"
			}
			logValue += pass[len(pass)-1]

		}
		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(GetEnv(fEnvTag))
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		}
	}
}
