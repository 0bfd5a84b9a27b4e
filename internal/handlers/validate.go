package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for action payload fields.
const (
	maxQuoteLen   = 500
	maxPromptLen  = 1_000
	maxTopicLen   = 1_000
	maxVisualsLen = 2_000
	maxStyleLen   = 200
	maxFileName   = 255

	minScenes = 1
	maxScenes = 12
)

// validAspectRatios is the closed set the image model accepts.
var validAspectRatios = map[string]bool{
	"1:1": true, "9:16": true, "16:9": true, "4:3": true, "3:4": true,
}

// validateContentType checks the generateContent payload.
func validateContentType(contentType string) string {
	if contentType != "quote" && contentType != "tip" {
		return `type must be "quote" or "tip".`
	}
	return ""
}

// validateQuote checks a quote field shared by several actions.
func validateQuote(quote string) string {
	if strings.TrimSpace(quote) == "" {
		return "quote is required."
	}
	if utf8.RuneCountInString(quote) > maxQuoteLen {
		return "quote is too long (max 500 characters)."
	}
	return ""
}

// validateAspectRatio checks an aspect ratio against the accepted set.
// Empty is fine — the provider default applies.
func validateAspectRatio(ratio string) string {
	if ratio != "" && !validAspectRatios[ratio] {
		return "aspectRatio must be one of 1:1, 9:16, 16:9, 4:3, 3:4."
	}
	return ""
}

// validateEditImage checks the editImage payload.
func validateEditImage(image, prompt string) string {
	if image == "" {
		return "base64Image is required."
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "prompt is required."
	}
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "prompt is too long (max 1,000 characters)."
	}
	return ""
}

// validateStoryElements checks the generateStoryElements payload.
func validateStoryElements(topic string, numScenes int, style string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "topic is required."
	}
	if utf8.RuneCountInString(topic) > maxTopicLen {
		return "topic is too long (max 1,000 characters)."
	}
	if numScenes < minScenes || numScenes > maxScenes {
		return "numScenes must be between 1 and 12."
	}
	if utf8.RuneCountInString(style) > maxStyleLen {
		return "style is too long (max 200 characters)."
	}
	return ""
}

// validateSceneImage checks the generateImageForScene payload.
func validateSceneImage(visualsPrompt, aspectRatio string) string {
	if strings.TrimSpace(visualsPrompt) == "" {
		return "visualsPrompt is required."
	}
	if utf8.RuneCountInString(visualsPrompt) > maxVisualsLen {
		return "visualsPrompt is too long (max 2,000 characters)."
	}
	return validateAspectRatio(aspectRatio)
}

// validateSaveToDrive checks the saveToDrive payload.
func validateSaveToDrive(accessToken, fileData, fileName string) string {
	if accessToken == "" {
		return "accessToken is required."
	}
	if fileData == "" {
		return "fileData is required."
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "fileName is required."
	}
	if utf8.RuneCountInString(fileName) > maxFileName {
		return "fileName is too long (max 255 characters)."
	}
	return ""
}
