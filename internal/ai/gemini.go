// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// geminiProvider implements the Provider interface using the Google
// Gemini REST API (POST /v1beta/models/{model}:generateContent). It also
// implements StructuredGenerator via responseSchema and ImageGenerator
// via responseModalities.
type geminiProvider struct {
	config ProviderConfig
	client *http.Client

	// Image calls routinely take over a minute; they get a separate
	// client with a longer timeout.
	imgClient *http.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(cfg ProviderConfig) *geminiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &geminiProvider{
		config:    cfg,
		client:    &http.Client{Timeout: 60 * time.Second},
		imgClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

// Generate sends a generateContent request to the Gemini API using the
// default text model and returns the first text part of the reply.
func (p *geminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: userPrompt}}},
		},
	}

	result, err := p.do(ctx, p.client, p.config.Model, body)
	if err != nil {
		return "", err
	}

	text := result.firstText()
	if text == "" {
		return "", fmt.Errorf("gemini: no text in response")
	}
	return text, nil
}

// GenerateStructured sends a generateContent request constrained to the
// given JSON schema. Reference images are attached before the prompt
// text. The raw JSON text is returned for the caller to unmarshal, so a
// shape mismatch can be reported with the offending text.
func (p *geminiProvider) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema, images ...InlineImage) (string, error) {
	parts := make([]geminiPart, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: img.MimeType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}
	parts = append(parts, geminiPart{Text: userPrompt})

	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}

	result, err := p.do(ctx, p.client, p.config.Model, body)
	if err != nil {
		return "", err
	}

	text := result.firstText()
	if text == "" {
		return "", fmt.Errorf("gemini: no JSON in response")
	}
	return text, nil
}

// GenerateImage creates an image using Gemini's native generateContent API
// with responseModalities set to IMAGE. Reference images in opts are
// attached as inline data before the prompt text, which is how edits and
// overlay passes feed a previous result back in. Returns image bytes and
// the content type.
func (p *geminiProvider) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) ([]byte, string, error) {
	model := p.config.ModelImage
	if model == "" {
		return nil, "", fmt.Errorf("gemini: image generation requires GEMINI_MODEL_IMAGE to be set")
	}

	parts := make([]geminiPart, 0, len(opts.Images)+1)
	for _, img := range opts.Images {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: img.MimeType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}
	parts = append(parts, geminiPart{Text: prompt})

	cfg := &geminiGenerationConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	if opts.AspectRatio != "" {
		cfg.ImageConfig = &geminiImageConfig{AspectRatio: opts.AspectRatio}
	}

	body := geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: cfg,
	}

	result, err := p.do(ctx, p.imgClient, model, body)
	if err != nil {
		return nil, "", err
	}

	// Extract the first inline image from the response parts.
	for _, c := range result.Candidates {
		for _, part := range c.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			imgBytes, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("gemini image: decode base64: %w", err)
			}
			contentType := part.InlineData.MimeType
			if contentType == "" {
				contentType = "image/png"
			}
			return imgBytes, contentType, nil
		}
	}

	return nil, "", fmt.Errorf("gemini image: no image data in response")
}

// do posts a generateContent request and decodes the response envelope.
func (p *geminiProvider) do(ctx context.Context, client *http.Client, model string, body geminiRequest) (*geminiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.config.BaseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.config.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("gemini unmarshal: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: no candidates returned")
	}
	return &result, nil
}

// firstText returns the first non-empty text part of the first candidate.
func (r *geminiResponse) firstText() string {
	for _, part := range r.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string           `json:"responseModalities,omitempty"`
	ResponseMimeType   string             `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema            `json:"responseSchema,omitempty"`
	ImageConfig        *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
