package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenAIBaseURL is the public OpenAI API root.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIBase struct {
	APIKey  string
	BaseURL string
	httpc   *http.Client
}

func newOpenAIBase(key, baseURL string, timeout time.Duration) openAIBase {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return openAIBase{
		APIKey:  strings.TrimSpace(key),
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (b openAIBase) Configured() bool { return b.APIKey != "" }

// post sends body as JSON and returns the raw reply. Non-2xx replies become
// *Error carrying the body untouched.
func (b openAIBase) post(ctx context.Context, path string, body any) ([]byte, error) {
	if b.APIKey == "" {
		return nil, ErrMissingCredential
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Provider: "openai", Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// OpenAIChat calls the chat completions API with the image as an image_url part.
type OpenAIChat struct {
	openAIBase
}

// NewOpenAIChat builds a chat completions client. A zero timeout means none.
func NewOpenAIChat(key, baseURL string, timeout time.Duration) *OpenAIChat {
	return &OpenAIChat{openAIBase: newOpenAIBase(key, baseURL, timeout)}
}

func (c *OpenAIChat) Name() string { return "openai-chat" }

func (c *OpenAIChat) Complete(ctx context.Context, in Request) (Reply, error) {
	body := map[string]any{
		"model":       in.Model,
		"temperature": in.Temperature,
		"messages": []any{
			map[string]any{"role": "system", "content": in.System},
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": in.User},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": in.Image.DataURL()}},
				},
			},
		},
	}
	if in.Schema != nil {
		body["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   in.SchemaName,
				"schema": in.Schema,
			},
		}
	}
	raw, err := c.post(ctx, "/chat/completions", body)
	if err != nil {
		return Reply{}, err
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Reply{}, fmt.Errorf("openai chat: decode reply: %w", err)
	}
	if len(out.Choices) == 0 {
		return Reply{}, nil
	}
	return Reply{Text: strings.TrimSpace(out.Choices[0].Message.Content)}, nil
}

// OpenAIResponses calls the responses API, attaching the JSON schema as the
// text format when the request carries one.
type OpenAIResponses struct {
	openAIBase
}

// NewOpenAIResponses builds a responses API client. A zero timeout means none.
func NewOpenAIResponses(key, baseURL string, timeout time.Duration) *OpenAIResponses {
	return &OpenAIResponses{openAIBase: newOpenAIBase(key, baseURL, timeout)}
}

func (c *OpenAIResponses) Name() string { return "openai-responses" }

func (c *OpenAIResponses) Complete(ctx context.Context, in Request) (Reply, error) {
	body := map[string]any{
		"model":       in.Model,
		"temperature": in.Temperature,
		"input": []any{
			map[string]any{
				"role":    "system",
				"content": []any{map[string]any{"type": "input_text", "text": in.System}},
			},
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "input_text", "text": in.User},
					map[string]any{"type": "input_image", "image_url": in.Image.DataURL()},
				},
			},
		},
	}
	if in.Schema != nil {
		body["text"] = map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   in.SchemaName,
				"schema": in.Schema,
			},
		}
	}
	raw, err := c.post(ctx, "/responses", body)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: responsesText(raw)}, nil
}

// responsesText prefers output_text, then the concatenated output_text parts,
// and finally the raw body so the caller can still search it for JSON.
func responsesText(raw []byte) string {
	var out struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	if t := strings.TrimSpace(out.OutputText); t != "" {
		return t
	}
	var sb strings.Builder
	for _, o := range out.Output {
		for _, c := range o.Content {
			if c.Type == "output_text" {
				sb.WriteString(c.Text)
			}
		}
	}
	if t := strings.TrimSpace(sb.String()); t != "" {
		return t
	}
	return string(raw)
}
