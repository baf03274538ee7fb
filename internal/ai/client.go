// Package ai wraps Gemini for message suggestions and sticker generation.
package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/models"
)

const maxSuggestions = 3

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])?\s*`)

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
	Logger     *zap.Logger
}

type Client struct {
	models     generator
	textModel  string
	imageModel string
	logger     *zap.Logger
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newClient(client.Models, cfg), nil
}

func newClient(g generator, cfg Config) *Client {
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-2.5-flash"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "imagen-4.0-generate-001"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{models: g, textModel: cfg.TextModel, imageModel: cfg.ImageModel, logger: cfg.Logger}
}

type SuggestInput struct {
	RecipientName   string
	Occasion        models.Occasion
	ContributorName string
	Hint            string
}

const suggestInstruction = `You help people write short heartfelt messages for a group card.
Reply with exactly three alternative messages, one per line, no numbering, no quotes.
Each message must be under 60 words and must not use hashtags.`

// SuggestMessages asks the text model for up to three message drafts.
func (c *Client) SuggestMessages(ctx context.Context, in SuggestInput) ([]string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Occasion: %s\nRecipient: %s\n", in.Occasion.Label(), in.RecipientName)
	if in.ContributorName != "" {
		fmt.Fprintf(&prompt, "Written by: %s\n", in.ContributorName)
	}
	if in.Hint != "" {
		fmt.Fprintf(&prompt, "Things to mention: %s\n", in.Hint)
	}

	resp, err := c.models.GenerateContent(ctx, c.textModel, genai.Text(prompt.String()), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(suggestInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.9),
		MaxOutputTokens:   512,
	})
	if err != nil {
		c.logger.Warn("suggestion request failed", zap.Error(err))
		return nil, Classify(err)
	}

	suggestions := ParseSuggestions(resp.Text())
	if len(suggestions) == 0 {
		return nil, apperr.E(apperr.KindTransient, "no suggestions were generated", nil)
	}
	return suggestions, nil
}

// ParseSuggestions splits model output into at most three clean lines.
func ParseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = listMarker.ReplaceAllString(line, "")
		line = strings.Trim(line, `"“”`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

const stickerStyle = "A cute die-cut sticker illustration with a thick white border on a plain light background, " +
	"flat colours, no text or lettering. Subject: %s"

// GenerateSticker returns PNG bytes for a single sticker image.
func (c *Client) GenerateSticker(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperr.Validation("prompt is required")
	}

	resp, err := c.models.GenerateImages(ctx, c.imageModel, fmt.Sprintf(stickerStyle, prompt), &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
		AspectRatio:    "1:1",
	})
	if err != nil {
		c.logger.Warn("sticker generation failed", zap.Error(err))
		return nil, Classify(err)
	}

	for _, img := range resp.GeneratedImages {
		if img == nil {
			continue
		}
		if img.RAIFilteredReason != "" {
			return nil, apperr.Validation("that sticker idea can't be drawn, try another prompt")
		}
		if img.Image != nil && len(img.Image.ImageBytes) > 0 {
			return img.Image.ImageBytes, nil
		}
	}
	return nil, apperr.E(apperr.KindTransient, "no sticker was generated", nil)
}
