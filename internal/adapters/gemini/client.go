package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"sifnos_hotels/internal/adapters/observability"
)

const DefaultModel = "gemini-1.5-flash"

var ErrEmptyResponse = errors.New("gemini: empty response")

// Client produces concierge replies with a Gemini model.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.4)
	m.SetMaxOutputTokens(256)
	return &Client{client: client, model: m, name: model}, nil
}

func (g *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	status := 200
	if err != nil {
		status = 500
	}
	observability.ObserveExternal("gemini", g.name, status, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	return textOf(resp)
}

func (g *Client) Close() error { return g.client.Close() }

// textOf joins the text parts of the first candidate.
func textOf(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
