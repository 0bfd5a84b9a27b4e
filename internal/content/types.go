// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the generation service behind the stateless
// actions of the catalog: quote/tip text, quote-image composition, image
// editing, video prompt derivation, story outlines, and strategy cards.
// It owns response normalization: whatever the model replies, callers get
// either the documented shape or a typed error.
package content

// ImagePair is the result of the two-step quote-image composition. Both
// fields are data URIs; the pair is only ever returned fully populated.
type ImagePair struct {
	WithOverlay    string `json:"withOverlay"`
	WithoutOverlay string `json:"withoutOverlay"`
}

// VideoPrompt is one fully specified scene prompt for an AI video
// generator. generateVideoPrompts returns exactly three of these.
type VideoPrompt struct {
	SceneTitle  string `json:"sceneTitle"`
	Camera      string `json:"camera"`
	Setting     string `json:"setting"`
	Action      string `json:"action"`
	TextOverlay string `json:"textOverlay"`
	Mood        string `json:"mood"`
	Audio       string `json:"audio"`
	Dialog      string `json:"dialog"`
	Duration    string `json:"duration"`
}

// Strategy is one automation advice card. Description is simple HTML.
type Strategy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SceneRecord is one scene of a story outline. SceneNumber is dense and
// 1-based; the service renumbers whatever the model assigned.
type SceneRecord struct {
	SceneNumber int    `json:"sceneNumber"`
	Description string `json:"description"`
	Visuals     string `json:"visuals"`
	Dialogue    string `json:"dialogue"`
	Sound       string `json:"sound"`
}

// StoryElements is the full outline for a storyboard: a thumbnail image
// prompt plus the requested number of scenes.
type StoryElements struct {
	ThumbnailPrompt string        `json:"thumbnailPrompt"`
	Scenes          []SceneRecord `json:"scenes"`
}
