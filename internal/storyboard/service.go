// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storyboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"quoteforge/internal/archive"
	"quoteforge/internal/content"
)

// ErrNotReady is returned when packaging is requested before every card
// has an image.
var ErrNotReady = errors.New("storyboard: not every card has an image yet")

// ErrUnknownScene is returned for a scene number outside the session.
var ErrUnknownScene = errors.New("storyboard: no such scene")

// Generator is the slice of the content service the storyboard flow
// needs: the outline call and per-card image generation.
type Generator interface {
	StoryElements(ctx context.Context, topic string, numScenes int, style, characterGender string, hasCharacterImage bool) (*content.StoryElements, error)
	GenerateSceneImage(ctx context.Context, visualsPrompt, aspectRatio, characterURI string) (string, error)
}

// Service orchestrates storyboard sessions over a Store and a Generator.
type Service struct {
	store Store
	gen   Generator
}

// NewService creates a storyboard service.
func NewService(store Store, gen Generator) *Service {
	return &Service{store: store, gen: gen}
}

// CreateParams are the inputs for a new storyboard. Validation (topic
// length, scene count bounds) happens at the HTTP boundary before this
// is called.
type CreateParams struct {
	Topic           string
	NumScenes       int
	Style           string
	CharacterGender string
	CharacterImage  string // data URI, optional
	AspectRatio     string
}

// Create runs the outline call and persists a fresh session. An outline
// failure creates nothing — there is no partially initialized session to
// clean up.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Session, error) {
	story, err := s.gen.StoryElements(ctx, p.Topic, p.NumScenes, p.Style, p.CharacterGender, p.CharacterImage != "")
	if err != nil {
		return nil, err
	}

	sess := newSession(p.Topic, p.Style, p.CharacterGender, p.CharacterImage, p.AspectRatio, story)
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	slog.Info("storyboard created", "id", sess.ID, "scenes", len(sess.Scenes))
	return sess, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Delete discards a session.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// GenerateSceneImage generates the image for one scene card. The card is
// marked in-flight with a bumped generation counter before the model
// call; when the call finishes, the result is applied only if the
// counter still matches, so a retry that overtook a slow earlier attempt
// wins and the stale result is dropped. Both the mark and the apply go
// through Store.Mutate and touch only this card, so sibling completions
// that land while the model call runs are never overwritten, and a
// failure resets the in-flight flag on this card only.
func (s *Service) GenerateSceneImage(ctx context.Context, id uuid.UUID, sceneNumber int) (*Session, error) {
	var (
		gen     int
		visuals string
		aspect  string
		charURI string
	)
	_, err := s.store.Mutate(ctx, id, func(sess *Session) error {
		scene := sess.Scene(sceneNumber)
		if scene == nil {
			return ErrUnknownScene
		}
		scene.IsGeneratingImage = true
		scene.ImageURL = ""
		scene.Generation++
		gen = scene.Generation
		visuals, aspect, charURI = scene.Visuals, sess.AspectRatio, sess.CharacterImage
		return nil
	})
	if err != nil {
		return nil, err
	}

	imageURL, genErr := s.gen.GenerateSceneImage(ctx, visuals, aspect, charURI)

	sess, err := s.store.Mutate(ctx, id, func(sess *Session) error {
		scene := sess.Scene(sceneNumber)
		if scene == nil {
			return ErrUnknownScene
		}
		if scene.Generation != gen {
			// A newer attempt owns this card now; drop this result.
			slog.Info("stale scene result discarded", "id", id, "scene", sceneNumber, "generation", gen)
			return nil
		}
		scene.IsGeneratingImage = false
		if genErr == nil {
			scene.ImageURL = imageURL
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, genErr
}

// GenerateThumbnailImage is GenerateSceneImage for the cover card.
func (s *Service) GenerateThumbnailImage(ctx context.Context, id uuid.UUID) (*Session, error) {
	var (
		gen     int
		prompt  string
		aspect  string
		charURI string
	)
	_, err := s.store.Mutate(ctx, id, func(sess *Session) error {
		sess.Thumbnail.IsGeneratingImage = true
		sess.Thumbnail.ImageURL = ""
		sess.Thumbnail.Generation++
		gen = sess.Thumbnail.Generation
		prompt, aspect, charURI = sess.Thumbnail.Prompt, sess.AspectRatio, sess.CharacterImage
		return nil
	})
	if err != nil {
		return nil, err
	}

	imageURL, genErr := s.gen.GenerateSceneImage(ctx, prompt, aspect, charURI)

	sess, err := s.store.Mutate(ctx, id, func(sess *Session) error {
		if sess.Thumbnail.Generation != gen {
			slog.Info("stale thumbnail result discarded", "id", id, "generation", gen)
			return nil
		}
		sess.Thumbnail.IsGeneratingImage = false
		if genErr == nil {
			sess.Thumbnail.ImageURL = imageURL
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, genErr
}

// Package builds the downloadable zip for a completed session. It never
// mutates card state, so a failed build can simply be retried.
func (s *Service) Package(ctx context.Context, id uuid.UUID) ([]byte, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Ready() {
		return nil, ErrNotReady
	}
	return archive.BuildStoryboardZip(sess.Thumbnail.ImageURL, sess.sceneImageURLs())
}
