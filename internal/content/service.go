// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quoteforge/internal/ai"
	"quoteforge/internal/imaging"
	"quoteforge/internal/prompts"
)

// Service runs the model-backed operations of the action catalog.
type Service struct {
	ai *ai.Registry
}

// NewService creates a content service on top of the provider registry.
func NewService(registry *ai.Registry) *Service {
	return &Service{ai: registry}
}

// GenerateContent produces one quote or one tip. Literal double quotes are
// stripped so the text drops cleanly into image overlays; applied to tips
// as well since the overlay pipeline is shared.
func (s *Service) GenerateContent(ctx context.Context, contentType string) (string, error) {
	text, err := s.ai.Generate(ctx, prompts.ContentSystem, prompts.ContentUser(contentType))
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", contentType, err)
	}

	text = strings.ReplaceAll(strings.TrimSpace(text), `"`, "")
	if text == "" {
		return "", ErrEmptyResult
	}
	return text, nil
}

// GenerateImagePair runs the two-step quote-image composition: a base
// image strictly without text, then a typography pass over that base.
// There is no partial-success path — if the overlay fails, the base image
// is discarded too, so callers never see exactly one of the pair.
func (s *Service) GenerateImagePair(ctx context.Context, quote, aspectRatio string) (*ImagePair, error) {
	base, baseType, err := s.ai.GenerateImage(ctx, prompts.BaseImage(quote, ""), ai.ImageOptions{
		AspectRatio: aspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("base image: %w", err)
	}

	overlay, overlayType, err := s.ai.GenerateImage(ctx, prompts.OverlayImage(quote), ai.ImageOptions{
		AspectRatio: aspectRatio,
		Images:      []ai.InlineImage{{Data: base, MimeType: baseType}},
	})
	if err != nil {
		return nil, fmt.Errorf("overlay image: %w", err)
	}

	return &ImagePair{
		WithOverlay:    imaging.ToDataURI(overlay, overlayType),
		WithoutOverlay: imaging.ToDataURI(base, baseType),
	}, nil
}

// EditImage applies a natural-language instruction to a user-supplied
// image and returns the edited rendition as a data URI.
func (s *Service) EditImage(ctx context.Context, imageURI, instruction string) (string, error) {
	data, mimeType, err := imaging.FromDataURI(imageURI)
	if err != nil {
		return "", fmt.Errorf("input image: %w", err)
	}

	edited, editedType, err := s.ai.GenerateImage(ctx, prompts.EditImage(instruction), ai.ImageOptions{
		Images: []ai.InlineImage{{Data: data, MimeType: mimeType}},
	})
	if err != nil {
		return "", fmt.Errorf("edit image: %w", err)
	}

	return imaging.ToDataURI(edited, editedType), nil
}

// GenerateSceneImage produces one storyboard scene (or thumbnail) image
// from its visuals prompt, optionally keeping an attached reference
// character consistent.
func (s *Service) GenerateSceneImage(ctx context.Context, visualsPrompt, aspectRatio, characterURI string) (string, error) {
	var refs []ai.InlineImage
	if characterURI != "" {
		data, mimeType, err := imaging.FromDataURI(characterURI)
		if err != nil {
			return "", fmt.Errorf("character image: %w", err)
		}
		refs = append(refs, ai.InlineImage{Data: data, MimeType: mimeType})
	}

	img, imgType, err := s.ai.GenerateImage(ctx, prompts.SceneImage(visualsPrompt, len(refs) > 0), ai.ImageOptions{
		AspectRatio: aspectRatio,
		Images:      refs,
	})
	if err != nil {
		return "", fmt.Errorf("scene image: %w", err)
	}

	return imaging.ToDataURI(img, imgType), nil
}

// VideoPrompts derives exactly 3 video-generation prompts from a quote,
// optionally matching the mood of an attached image.
func (s *Service) VideoPrompts(ctx context.Context, quote, imageURI string) ([]VideoPrompt, error) {
	var refs []ai.InlineImage
	if imageURI != "" {
		data, mimeType, err := imaging.FromDataURI(imageURI)
		if err != nil {
			return nil, fmt.Errorf("reference image: %w", err)
		}
		refs = append(refs, ai.InlineImage{Data: data, MimeType: mimeType})
	}

	raw, err := s.ai.GenerateStructured(ctx,
		prompts.VideoPromptsSystem,
		prompts.VideoPromptsUser(quote, len(refs) > 0),
		prompts.VideoPromptsSchema(),
		refs...,
	)
	if err != nil {
		return nil, fmt.Errorf("video prompts: %w", err)
	}

	var result struct {
		Prompts []VideoPrompt `json:"prompts"`
	}
	if err := parseJSON(raw, &result); err != nil {
		return nil, err
	}
	if len(result.Prompts) < 3 {
		return nil, &MalformedError{Raw: raw, Err: fmt.Errorf("expected 3 prompts, got %d", len(result.Prompts))}
	}
	// Schema can't pin the array length; surplus entries are dropped.
	return result.Prompts[:3], nil
}

// StoryElements requests a full story outline: a thumbnail prompt plus
// exactly numScenes scenes. Scene numbers are reassigned densely 1..N in
// the order the model returned them, regardless of what it put in
// sceneNumber.
func (s *Service) StoryElements(ctx context.Context, topic string, numScenes int, style, characterGender string, hasCharacterImage bool) (*StoryElements, error) {
	raw, err := s.ai.GenerateStructured(ctx,
		prompts.StorySystem,
		prompts.StoryUser(topic, numScenes, style, characterGender, hasCharacterImage),
		prompts.StorySchema(),
	)
	if err != nil {
		return nil, fmt.Errorf("story elements: %w", err)
	}

	var result StoryElements
	if err := parseJSON(raw, &result); err != nil {
		return nil, err
	}
	if result.ThumbnailPrompt == "" {
		return nil, &MalformedError{Raw: raw, Err: fmt.Errorf("missing thumbnailPrompt")}
	}
	if len(result.Scenes) < numScenes {
		return nil, &MalformedError{Raw: raw, Err: fmt.Errorf("expected %d scenes, got %d", numScenes, len(result.Scenes))}
	}
	result.Scenes = result.Scenes[:numScenes]
	for i := range result.Scenes {
		result.Scenes[i].SceneNumber = i + 1
	}
	return &result, nil
}

// Strategies returns exactly 4 automation strategy cards.
func (s *Service) Strategies(ctx context.Context) ([]Strategy, error) {
	raw, err := s.ai.GenerateStructured(ctx, prompts.StrategiesSystem, prompts.StrategiesUser, prompts.StrategiesSchema())
	if err != nil {
		return nil, fmt.Errorf("strategies: %w", err)
	}

	var result struct {
		Strategies []Strategy `json:"strategies"`
	}
	if err := parseJSON(raw, &result); err != nil {
		return nil, err
	}
	if len(result.Strategies) < 4 {
		return nil, &MalformedError{Raw: raw, Err: fmt.Errorf("expected 4 strategies, got %d", len(result.Strategies))}
	}
	return result.Strategies[:4], nil
}

// parseJSON unmarshals a model reply, tolerating the markdown code fences
// some models wrap around JSON even in constrained mode.
func parseJSON(raw string, out any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &MalformedError{Raw: raw, Err: err}
	}
	return nil
}
