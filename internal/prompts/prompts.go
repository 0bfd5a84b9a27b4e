// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompts holds the instruction templates and response schemas for
// every action in the catalog. Keeping them in one place makes the prompt
// surface reviewable without digging through the services that use them.
package prompts

import (
	"fmt"

	"quoteforge/internal/ai"
)

// --- Text content ---

// ContentSystem is the system prompt for quote/tip generation.
const ContentSystem = `You are a motivational content expert writing for short-form social media.
Output ONLY the requested text, with no preamble, labels, markdown, or surrounding quotation marks.`

// ContentUser builds the user prompt for a quote or a tip.
func ContentUser(contentType string) string {
	if contentType == "tip" {
		return "Write one practical, actionable self-improvement tip in 1-2 sentences. " +
			"Make it specific enough to act on today."
	}
	return "Write one original, powerful motivational quote in a single sentence. " +
		"Do not attribute it to anyone and do not wrap it in quotation marks."
}

// --- Image generation ---

// BaseImage asks for the background image of a quote composition. The
// no-text rule matters: the overlay pass adds the typography, and text
// baked into the base image cannot be removed afterwards.
func BaseImage(quote, style string) string {
	if style == "" {
		style = "cinematic, inspiring, high contrast photography"
	}
	return fmt.Sprintf(`Generate a visually striking background image that captures the emotional essence of this quote: "%s".
Style: %s.
STRICTLY NO TEXT, no letters, no words, no watermarks anywhere in the image.`, quote, style)
}

// OverlayImage asks for a typography pass over an attached base image.
func OverlayImage(quote string) string {
	return fmt.Sprintf(`Take the attached image and add this quote as an elegant text overlay: "%s".
Use a modern, highly legible font with strong contrast against the background.
Center the composition and keep comfortable margins. Change nothing else about the image.`, quote)
}

// EditImage wraps a user's natural-language edit instruction for an
// attached image.
func EditImage(instruction string) string {
	return fmt.Sprintf(`Apply this edit to the attached image: %s.
Preserve everything the instruction does not mention.`, instruction)
}

// SceneImage builds the prompt for a single storyboard scene image,
// optionally keeping a reference character consistent.
func SceneImage(visuals string, hasCharacter bool) string {
	if hasCharacter {
		return fmt.Sprintf(`Generate this scene: %s.
The main character MUST match the person in the attached reference image — same face, hair, and build. No text in the image.`, visuals)
	}
	return fmt.Sprintf("Generate this scene: %s.\nNo text in the image.", visuals)
}

// --- Video prompts ---

// VideoPromptsSystem instructs the model to derive structured
// video-generation prompts from a quote.
const VideoPromptsSystem = `You are a director creating prompts for an AI video generator.
Given a motivational quote, design exactly 3 distinct 8-second vertical video scenes that bring it to life.
Vary the setting and camera work across the 3 scenes. Respond with JSON only.`

// VideoPromptsUser builds the user prompt, noting when a reference image
// accompanies the request.
func VideoPromptsUser(quote string, hasImage bool) string {
	p := fmt.Sprintf("Quote: %q", quote)
	if hasImage {
		p += "\nA reference image is attached; match its visual mood and palette."
	}
	return p
}

// VideoPromptsSchema is the response shape for generateVideoPrompts:
// exactly 3 fully specified scene prompts.
func VideoPromptsSchema() *ai.Schema {
	prompt := &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"sceneTitle":  {Type: "STRING", Description: "Short name for the scene"},
			"camera":      {Type: "STRING", Description: "Camera movement and framing"},
			"setting":     {Type: "STRING", Description: "Location, time of day, atmosphere"},
			"action":      {Type: "STRING", Description: "What happens during the scene"},
			"textOverlay": {Type: "STRING", Description: "On-screen text, if any"},
			"mood":        {Type: "STRING", Description: "Emotional tone and color palette"},
			"audio":       {Type: "STRING", Description: "Music and ambient sound"},
			"dialog":      {Type: "STRING", Description: "Spoken lines, empty if none"},
			"duration":    {Type: "STRING", Description: "Scene length, e.g. '8 seconds'"},
		},
		Required: []string{"sceneTitle", "camera", "setting", "action", "textOverlay", "mood", "audio", "dialog", "duration"},
	}
	return &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"prompts": {Type: "ARRAY", Items: prompt},
		},
		Required: []string{"prompts"},
	}
}

// --- Story elements ---

// StorySystem instructs the model to write a storyboard outline.
const StorySystem = `You are a storyboard writer for short-form motivational video.
Design a complete multi-scene story for the user's topic. Respond with JSON only.`

// StoryUser builds the outline request.
func StoryUser(topic string, numScenes int, style, characterGender string, hasCharacterImage bool) string {
	p := fmt.Sprintf("Topic: %s\nNumber of scenes: exactly %d\nVisual style: %s", topic, numScenes, style)
	if characterGender != "" {
		p += fmt.Sprintf("\nMain character gender: %s", characterGender)
	}
	if hasCharacterImage {
		p += "\nThe user supplied a reference photo of the main character; visuals descriptions should assume that exact person appears."
	}
	p += fmt.Sprintf("\nReturn exactly %d scenes plus one thumbnailPrompt describing an eye-catching cover image.", numScenes)
	return p
}

// StorySchema is the response shape for generateStoryElements.
func StorySchema() *ai.Schema {
	scene := &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"sceneNumber": {Type: "INTEGER", Description: "1-based position in the story"},
			"description": {Type: "STRING", Description: "What this scene conveys"},
			"visuals":     {Type: "STRING", Description: "Image-generation prompt for the scene"},
			"dialogue":    {Type: "STRING", Description: "Voiceover or spoken lines"},
			"sound":       {Type: "STRING", Description: "Music and sound design"},
		},
		Required: []string{"sceneNumber", "description", "visuals", "dialogue", "sound"},
	}
	return &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"thumbnailPrompt": {Type: "STRING"},
			"scenes":          {Type: "ARRAY", Items: scene},
		},
		Required: []string{"thumbnailPrompt", "scenes"},
	}
}

// --- Automation strategies ---

// StrategiesSystem asks for content-automation advice cards.
const StrategiesSystem = `You are a social media growth consultant.
Produce exactly 4 concrete strategies for automating motivational content production and distribution.
Each description is 2-3 sentences of clean HTML (<p>, <strong>, <em> only). Respond with JSON only.`

// StrategiesUser is the fixed user prompt for getAutomationStrategies.
const StrategiesUser = "Give me 4 automation strategies I can start this week."

// StrategiesSchema is the response shape for getAutomationStrategies.
func StrategiesSchema() *ai.Schema {
	strategy := &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"title":       {Type: "STRING"},
			"description": {Type: "STRING", Description: "2-3 sentences of simple HTML"},
		},
		Required: []string{"title", "description"},
	}
	return &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"strategies": {Type: "ARRAY", Items: strategy},
		},
		Required: []string{"strategies"},
	}
}
