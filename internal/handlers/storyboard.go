// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quoteforge/internal/storyboard"
)

// storyboardCosts mirrors the catalog action costs: creating a session
// runs the outline call, a card image is a native image call, and the
// rest is local work plus at most one Drive upload.
const (
	costStoryboardCreate = 2
	costStoryboardImage  = 4
	costStoryboardLight  = 1
)

// CreateStoryboard handles POST /api/storyboards. It runs the outline
// call and returns the fresh session with every image slot empty.
func (a *API) CreateStoryboard(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Topic           string `json:"topic"`
		NumScenes       int    `json:"numScenes"`
		Style           string `json:"style"`
		CharacterGender string `json:"characterGender"`
		CharacterImage  string `json:"characterImage"`
		AspectRatio     string `json:"aspectRatio"`
	}
	if !decodeBody(w, r, &p) {
		return
	}
	if !a.allow(r, costStoryboardCreate) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}
	if msg := validateStoryElements(p.Topic, p.NumScenes, p.Style); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateAspectRatio(p.AspectRatio); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sess, err := a.board.Create(r.Context(), storyboard.CreateParams{
		Topic:           p.Topic,
		NumScenes:       p.NumScenes,
		Style:           p.Style,
		CharacterGender: p.CharacterGender,
		CharacterImage:  p.CharacterImage,
		AspectRatio:     p.AspectRatio,
	})
	if err != nil {
		writeStoryboardError(w, "createStoryboard", err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GetStoryboard handles GET /api/storyboards/{id}.
func (a *API) GetStoryboard(w http.ResponseWriter, r *http.Request) {
	id, ok := storyboardID(w, r)
	if !ok {
		return
	}

	sess, err := a.board.Get(r.Context(), id)
	if err != nil {
		writeStoryboardError(w, "getStoryboard", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteStoryboard handles DELETE /api/storyboards/{id}.
func (a *API) DeleteStoryboard(w http.ResponseWriter, r *http.Request) {
	id, ok := storyboardID(w, r)
	if !ok {
		return
	}

	if err := a.board.Delete(r.Context(), id); err != nil {
		writeStoryboardError(w, "deleteStoryboard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateStoryboardSceneImage handles
// POST /api/storyboards/{id}/scenes/{scene}/image. The updated session
// is returned whether the card succeeded or not, so the client always
// sees current card state; a generation failure still reports 5xx.
func (a *API) GenerateStoryboardSceneImage(w http.ResponseWriter, r *http.Request) {
	id, ok := storyboardID(w, r)
	if !ok {
		return
	}
	sceneNumber, err := strconv.Atoi(chi.URLParam(r, "scene"))
	if err != nil || sceneNumber < 1 {
		writeError(w, http.StatusBadRequest, "scene must be a positive number")
		return
	}
	if !a.allow(r, costStoryboardImage) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	sess, err := a.board.GenerateSceneImage(r.Context(), id, sceneNumber)
	if err != nil {
		writeStoryboardError(w, "generateStoryboardSceneImage", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// GenerateStoryboardThumbnail handles
// POST /api/storyboards/{id}/thumbnail/image.
func (a *API) GenerateStoryboardThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := storyboardID(w, r)
	if !ok {
		return
	}
	if !a.allow(r, costStoryboardImage) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	sess, err := a.board.GenerateThumbnailImage(r.Context(), id)
	if err != nil {
		writeStoryboardError(w, "generateStoryboardThumbnail", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// PackageStoryboard handles GET /api/storyboards/{id}/package, streaming
// the zip as an attachment.
func (a *API) PackageStoryboard(w http.ResponseWriter, r *http.Request) {
	id, ok := storyboardID(w, r)
	if !ok {
		return
	}
	if !a.allow(r, costStoryboardLight) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	data, err := a.board.Package(r.Context(), id)
	if err != nil {
		writeStoryboardError(w, "packageStoryboard", err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", storyboardZipName(id)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// UploadStoryboardToDrive handles POST /api/storyboards/{id}/drive:
// build the package and push it to the caller's Drive with their own
// access token.
func (a *API) UploadStoryboardToDrive(w http.ResponseWriter, r *http.Request) {
	id, ok := storyboardID(w, r)
	if !ok {
		return
	}
	var p struct {
		AccessToken string `json:"accessToken"`
		FileName    string `json:"fileName"`
	}
	if !decodeBody(w, r, &p) {
		return
	}
	if !a.allow(r, costStoryboardLight) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}
	if p.AccessToken == "" {
		writeError(w, http.StatusBadRequest, "accessToken is required.")
		return
	}
	if p.FileName == "" {
		p.FileName = storyboardZipName(id)
	}

	data, err := a.board.Package(r.Context(), id)
	if err != nil {
		writeStoryboardError(w, "uploadStoryboardToDrive", err)
		return
	}

	res, err := a.drive.Upload(r.Context(), p.AccessToken, p.FileName, "application/zip", data)
	if err != nil {
		writeUpstreamError(w, "uploadStoryboardToDrive", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// storyboardID parses the {id} route parameter, writing a 404 on a
// malformed UUID so invalid and unknown ids look the same to callers.
func storyboardID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "storyboard not found or expired")
		return uuid.Nil, false
	}
	return id, true
}

func storyboardZipName(id uuid.UUID) string {
	return fmt.Sprintf("storyboard-%s.zip", id)
}
