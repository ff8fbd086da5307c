package grok

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const DefaultModel = "grok-3-mini"

// Client — OpenAI-совместимый клиент chat completions API.
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient создает клиент Grok API. baseURL указывает на корень API
// (например https://api.x.ai/v1), model — имя модели; пустое значение
// заменяется моделью по умолчанию.
func NewClient(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = slog.Default()
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, body chatRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp chatResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != nil {
			return nil, fmt.Errorf("grok api: %s", errResp.Error.Message)
		}
		return nil, fmt.Errorf("grok api: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Complete выполняет запрос без стриминга и возвращает полный текст
// первого choice.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := c.do(ctx, chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}
	defer body.Close()

	var resp chatResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("grok api: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream выполняет запрос в режиме server-sent events и передает каждый
// фрагмент delta.content в fn по мере поступления.
func (c *Client) Stream(ctx context.Context, messages []Message, fn func(chunk string) error) error {
	body, err := c.do(ctx, chatRequest{Model: c.model, Messages: messages, Stream: true})
	if err != nil {
		return err
	}
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return nil
		}

		var frame chatResponse
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			slog.Warn("Skipping malformed stream frame", "err", err)
			continue
		}
		if len(frame.Choices) == 0 {
			continue
		}
		if chunk := frame.Choices[0].Delta.Content; chunk != "" {
			if err := fn(chunk); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
