// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
)

// InlineImage carries raw image bytes plus their MIME type into a
// multimodal prompt (reference photos, images to edit, base images for
// overlay passes).
type InlineImage struct {
	Data     []byte
	MimeType string
}

// ImageOptions tunes a single image-generation call.
type ImageOptions struct {
	// AspectRatio is the provider's aspect ratio hint (e.g. "9:16", "1:1").
	// Empty means the provider default.
	AspectRatio string

	// Images are attached to the prompt in order, before the text.
	Images []InlineImage
}

// ImageGenerator is an optional interface that AI providers can implement
// to support image generation. Returns the raw image bytes and the MIME
// content type (e.g., "image/png").
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, opts ImageOptions) ([]byte, string, error)
}

// StructuredGenerator is an optional interface for providers that can
// constrain their output to a JSON schema. The returned string is the raw
// JSON text; callers unmarshal it and decide what to do when it does not
// match their expectations. Reference images, when given, are attached to
// the prompt.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema, images ...InlineImage) (string, error)
}

// Schema describes the JSON shape a structured generation call must
// produce, mirroring the subset of OpenAPI the Gemini API accepts.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// GenerateImage calls the active provider's image generation if supported.
func (r *Registry) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) ([]byte, string, error) {
	p, err := r.Active()
	if err != nil {
		return nil, "", err
	}

	ig, ok := p.(ImageGenerator)
	if !ok {
		return nil, "", fmt.Errorf("ai: provider %q does not support image generation", p.Name())
	}

	return ig.GenerateImage(ctx, prompt, opts)
}

// GenerateStructured calls the active provider's schema-constrained
// generation if supported, falling back to plain Generate when the
// provider has no structured mode. The fallback keeps mock providers in
// tests simple; the real provider always takes the structured path.
func (r *Registry) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema, images ...InlineImage) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}

	if sg, ok := p.(StructuredGenerator); ok {
		return sg.GenerateStructured(ctx, systemPrompt, userPrompt, schema, images...)
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// SupportsImageGeneration returns true if the active provider can generate images.
func (r *Registry) SupportsImageGeneration() bool {
	p, err := r.Active()
	if err != nil {
		return false
	}
	_, ok := p.(ImageGenerator)
	return ok
}
