package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Gemini calls Google's generative language API. Both profile surfaces map
// onto the same generateContent call; a schema becomes ResponseSchema.
type Gemini struct {
	APIKey string
	// Timeout bounds each call; zero means none.
	Timeout time.Duration
	opts    []option.ClientOption
}

// NewGemini builds a Gemini client. Extra options are appended after the API
// key, e.g. option.WithEndpoint for a proxy.
func NewGemini(key string, opts ...option.ClientOption) *Gemini {
	return &Gemini{APIKey: strings.TrimSpace(key), opts: opts}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Configured() bool { return g.APIKey != "" }

func (g *Gemini) Complete(ctx context.Context, in Request) (Reply, error) {
	if g.APIKey == "" {
		return Reply{}, ErrMissingCredential
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(g.APIKey)}, g.opts...)...)
	if err != nil {
		return Reply{}, fmt.Errorf("gemini: client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(in.Model))
	temp := in.Temperature
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	if in.Schema != nil {
		m.ResponseSchema = geminiSchema(in.Schema)
	}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(in.System)}}

	resp, err := m.GenerateContent(ctx,
		genai.Text(in.User),
		&genai.Blob{MIMEType: in.Image.MediaType, Data: in.Image.Data},
	)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			body := gerr.Body
			if body == "" {
				body = gerr.Message
			}
			status := gerr.Code
			if status == 0 {
				status = http.StatusBadGateway
			}
			return Reply{}, &Error{Provider: "gemini", Status: status, Body: body}
		}
		return Reply{}, fmt.Errorf("gemini: %w", err)
	}
	return Reply{Text: firstText(resp)}, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return strings.TrimSpace(sb.String())
}

// geminiSchema converts the JSON-schema subset used by slab profiles (type,
// properties, items, enum, required) into a genai.Schema.
func geminiSchema(node map[string]any) *genai.Schema {
	s := &genai.Schema{}
	switch node["type"] {
	case "object":
		s.Type = genai.TypeObject
	case "array":
		s.Type = genai.TypeArray
	case "number":
		s.Type = genai.TypeNumber
	case "integer":
		s.Type = genai.TypeInteger
	case "boolean":
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}
	if props, ok := node["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for k, v := range props {
			if child, ok := v.(map[string]any); ok {
				s.Properties[k] = geminiSchema(child)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		s.Items = geminiSchema(items)
	}
	if s.Enum = stringList(node["enum"]); len(s.Enum) > 0 && s.Type == genai.TypeString {
		s.Format = "enum"
	}
	s.Required = stringList(node["required"])
	return s
}

func stringList(v any) []string {
	switch xs := v.(type) {
	case []string:
		return append([]string(nil), xs...)
	case []any:
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
