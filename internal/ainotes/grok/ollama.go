package grok

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const DefaultOllamaModel = "gemma3n:latest"

// Ollama — бэкенд генерации поверх локального Ollama сервера.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama создает клиент Ollama. Пустой host берется из окружения
// (OLLAMA_HOST), пустая model заменяется моделью по умолчанию.
func NewOllama(host, model string) (*Ollama, error) {
	if model == "" {
		model = DefaultOllamaModel
	}

	var client *api.Client
	if host == "" {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	} else {
		base, err := url.Parse(strings.TrimSuffix(host, "/"))
		if err != nil {
			return nil, err
		}
		client = api.NewClient(base, http.DefaultClient)
	}

	return &Ollama{client: client, model: model}, nil
}

func (o *Ollama) chatMessages(messages []Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, api.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func (o *Ollama) Complete(ctx context.Context, messages []Message) (string, error) {
	var full strings.Builder
	stream := false
	req := api.ChatRequest{
		Model:    o.model,
		Messages: o.chatMessages(messages),
		Stream:   &stream,
	}
	err := o.client.Chat(ctx, &req, func(resp api.ChatResponse) error {
		full.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return full.String(), nil
}

func (o *Ollama) Stream(ctx context.Context, messages []Message, fn func(chunk string) error) error {
	stream := true
	req := api.ChatRequest{
		Model:    o.model,
		Messages: o.chatMessages(messages),
		Stream:   &stream,
	}
	return o.client.Chat(ctx, &req, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		return fn(resp.Message.Content)
	})
}
