// Клиенты языковых моделей для суммаризации и генерации текста заметок.
//
// Поддерживаются два бэкенда: OpenAI-совместимый HTTP API (Grok) и
// локальный Ollama. Оба реализуют общий интерфейс Provider; выбор
// делается конфигурацией при старте сервиса.
package grok

import (
	"context"
)

// Message — одна реплика диалога с моделью.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider — общий интерфейс бэкендов генерации.
//
// Методы:
//   - Complete: выполняет запрос целиком и возвращает полный ответ.
//   - Stream: выполняет запрос в стриминге, вызывая fn на каждый чанк
//     текста в порядке поступления. Ошибка из fn прерывает чтение.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Stream(ctx context.Context, messages []Message, fn func(chunk string) error) error
}
