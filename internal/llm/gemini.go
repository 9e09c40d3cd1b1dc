package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini generates text through Google's generative API. It is wired as
// an alternative to the OpenAI provider and selected by configuration.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini dials Google's generative API. A non-nil httpClient routes
// all traffic through it, which is how the SOCKS proxy is applied.
func NewGemini(ctx context.Context, apiKey, model string, httpClient *http.Client) (*Gemini, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	m := g.client.GenerativeModel(g.model)
	if cfg.Temperature > 0 {
		m.SetTemperature(float32(cfg.Temperature))
	}
	if cfg.TopP > 0 {
		m.SetTopP(float32(cfg.TopP))
	}
	if cfg.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}
	if len(cfg.StopSequences) > 0 {
		m.StopSequences = cfg.StopSequences
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return flatten(resp)
}

func (g *Gemini) Describe(ctx context.Context, imagePath, prompt string) (string, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(imagePath[strings.LastIndex(imagePath, ".")+1:]), ".")
	if format == "jpg" {
		format = "jpeg"
	}

	m := g.client.GenerativeModel(g.model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt), genai.ImageData(format, raw))
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	return flatten(resp)
}

func flatten(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text parts in response")
	}
	return b.String(), nil
}
