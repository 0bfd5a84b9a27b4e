// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storyboard drives the multi-step storyboard flow as a
// server-held session: one outline call creates the scene list and
// thumbnail prompt, then each card's image is generated lazily and
// independently, and once every card has an image the session can be
// packaged into a zip. Sessions are keyed by UUID and live in a
// pluggable Store, so a client can reconnect and pick up where it left
// off.
package storyboard

import (
	"time"

	"github.com/google/uuid"

	"quoteforge/internal/content"
)

// Scene is one card of the storyboard: the outline's scene record plus
// its image slot. ImageURL and IsGeneratingImage are mutually exclusive;
// Generation is bumped every time a generation starts so late results
// for an older attempt can be discarded.
type Scene struct {
	SceneNumber int    `json:"sceneNumber"`
	Description string `json:"description"`
	Visuals     string `json:"visuals"`
	Dialogue    string `json:"dialogue"`
	Sound       string `json:"sound"`

	ImageURL          string `json:"imageUrl,omitempty"`
	IsGeneratingImage bool   `json:"isGeneratingImage,omitempty"`
	Generation        int    `json:"generation"`
}

// Thumbnail is the storyboard's single cover card, with the same image
// lifecycle as a Scene.
type Thumbnail struct {
	Prompt string `json:"prompt"`

	ImageURL          string `json:"imageUrl,omitempty"`
	IsGeneratingImage bool   `json:"isGeneratingImage,omitempty"`
	Generation        int    `json:"generation"`
}

// Session is the full storyboard document. CharacterImage is the
// user-supplied reference photo (data URI) threaded into every scene
// generation; it is stored with the session so retries and reconnects
// keep the character consistent.
type Session struct {
	ID              uuid.UUID `json:"id"`
	Topic           string    `json:"topic"`
	Style           string    `json:"style"`
	CharacterGender string    `json:"characterGender,omitempty"`
	CharacterImage  string    `json:"characterImage,omitempty"`
	AspectRatio     string    `json:"aspectRatio"`

	Thumbnail Thumbnail `json:"thumbnail"`
	Scenes    []Scene   `json:"scenes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// newSession builds a fresh session from an outline.
func newSession(topic, style, characterGender, characterImage, aspectRatio string, story *content.StoryElements) *Session {
	now := time.Now()
	s := &Session{
		ID:              uuid.New(),
		Topic:           topic,
		Style:           style,
		CharacterGender: characterGender,
		CharacterImage:  characterImage,
		AspectRatio:     aspectRatio,
		Thumbnail:       Thumbnail{Prompt: story.ThumbnailPrompt},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.Scenes = make([]Scene, len(story.Scenes))
	for i, sc := range story.Scenes {
		s.Scenes[i] = Scene{
			SceneNumber: sc.SceneNumber,
			Description: sc.Description,
			Visuals:     sc.Visuals,
			Dialogue:    sc.Dialogue,
			Sound:       sc.Sound,
		}
	}
	return s
}

// Scene returns the card with the given 1-based scene number, or nil.
func (s *Session) Scene(number int) *Scene {
	for i := range s.Scenes {
		if s.Scenes[i].SceneNumber == number {
			return &s.Scenes[i]
		}
	}
	return nil
}

// Ready reports whether every card — thumbnail and all scenes — has a
// populated image, which is the gate for packaging.
func (s *Session) Ready() bool {
	if s.Thumbnail.ImageURL == "" {
		return false
	}
	for i := range s.Scenes {
		if s.Scenes[i].ImageURL == "" {
			return false
		}
	}
	return true
}

// sceneImageURLs returns the scene images in ascending scene order.
func (s *Session) sceneImageURLs() []string {
	urls := make([]string, len(s.Scenes))
	for i := range s.Scenes {
		urls[i] = s.Scenes[i].ImageURL
	}
	return urls
}
