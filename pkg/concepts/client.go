// Package concepts wraps the generative concept provider. The pipeline treats
// it as opaque: prompt content lives in configuration, and the only contract
// enforced here is that the decoded payload is a non-empty list of concepts
// each carrying an items array.
package concepts

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/lookbook-labs/stylist-cli/internal/model"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 4096
)

// Generator produces outfit concepts for a style request.
type Generator interface {
	Generate(ctx context.Context, req model.StyleRequest) ([]model.OutfitConcept, error)
}

// Option configures the generator.
type Option func(*sdkGenerator)

// WithModel overrides the default model.
func WithModel(m string) Option {
	return func(g *sdkGenerator) {
		if m != "" {
			g.model = m
		}
	}
}

// WithSystemPrompt overrides the built-in system prompt.
func WithSystemPrompt(p string) Option {
	return func(g *sdkGenerator) {
		if p != "" {
			g.system = p
		}
	}
}

// WithBaseURL overrides the API base URL (tests).
func WithBaseURL(u string) Option {
	return func(g *sdkGenerator) {
		g.requestOpts = append(g.requestOpts, option.WithBaseURL(u))
	}
}

type sdkGenerator struct {
	client      sdk.Client
	model       string
	system      string
	requestOpts []option.RequestOption
}

// NewGenerator creates a concept generator backed by the Anthropic SDK.
func NewGenerator(apiKey string, opts ...Option) Generator {
	g := &sdkGenerator{
		model:  defaultModel,
		system: defaultSystemPrompt,
	}
	g.requestOpts = append(g.requestOpts, option.WithAPIKey(apiKey))
	for _, o := range opts {
		o(g)
	}
	g.client = sdk.NewClient(g.requestOpts...)
	return g
}

const defaultSystemPrompt = `You are a fashion stylist. Given a style request, respond with only a JSON array of outfit concepts. Each concept has: name, description, style, occasion, rationale, and items. Each item has: category, description, color, keywords (array of strings). Respond with 2-3 concepts and 3-5 items each. No prose outside the JSON.`

func (g *sdkGenerator) Generate(ctx context.Context, req model.StyleRequest) ([]model.OutfitConcept, error) {
	msg, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: defaultMaxTokens,
		System: []sdk.TextBlockParam{
			{Text: g.system},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt(req))),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "concepts: create message")
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return decodeConcepts(text.String())
}

func userPrompt(req model.StyleRequest) string {
	var b strings.Builder
	b.WriteString("Style request: ")
	b.WriteString(req.Prompt)
	if req.Gender != "" {
		b.WriteString("\nGender: ")
		b.WriteString(req.Gender)
	}
	if req.Budget > 0 {
		b.WriteString("\nTotal budget (USD): ")
		b.WriteString(strconv.FormatFloat(req.Budget, 'f', -1, 64))
	}
	if req.Style != "" {
		b.WriteString("\nStyle hints: ")
		b.WriteString(req.Style)
	}
	return b.String()
}

// decodeConcepts extracts and validates the JSON concept list from model
// output, tolerating fenced code blocks and surrounding prose.
func decodeConcepts(text string) ([]model.OutfitConcept, error) {
	payload := extractJSONArray(text)
	if payload == "" {
		return nil, eris.New("concepts: no JSON array in response")
	}

	var concepts []model.OutfitConcept
	if err := json.Unmarshal([]byte(payload), &concepts); err != nil {
		return nil, eris.Wrap(err, "concepts: unmarshal response")
	}

	// Shape validation is all this package promises: a non-empty list where
	// every concept carries items.
	valid := concepts[:0]
	for _, c := range concepts {
		if len(c.Items) > 0 {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return nil, eris.New("concepts: response contained no concept with items")
	}
	return valid, nil
}

// extractJSONArray returns the outermost [...] span in text.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
