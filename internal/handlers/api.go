// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP surface: the {action, payload}
// envelope endpoint the browser talks to, the storyboard session routes,
// and a small client-config endpoint for the OAuth redirect. Every
// request is validated and rate-limited before the first model call.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"quoteforge/internal/content"
	"quoteforge/internal/drive"
	"quoteforge/internal/imaging"
	"quoteforge/internal/middleware"
	"quoteforge/internal/ratelimit"
	"quoteforge/internal/storyboard"
)

// API bundles the handler dependencies.
type API struct {
	content *content.Service
	board   *storyboard.Service
	drive   *drive.Uploader
	limiter ratelimit.Limiter

	oauthClientID    string
	oauthRedirectURI string
}

// NewAPI creates the handler group.
func NewAPI(contentSvc *content.Service, board *storyboard.Service, uploader *drive.Uploader, limiter ratelimit.Limiter, oauthClientID, oauthRedirectURI string) *API {
	return &API{
		content:          contentSvc,
		board:            board,
		drive:            uploader,
		limiter:          limiter,
		oauthClientID:    oauthClientID,
		oauthRedirectURI: oauthRedirectURI,
	}
}

// envelope is the request body of POST /api/gemini.
type envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// actionCosts maps each catalog action to its token debit. Image actions
// cost more because they are far more expensive upstream; the two-call
// composition is the priciest of all.
var actionCosts = map[string]int{
	"generateContent":         1,
	"getAutomationStrategies": 1,
	"saveToDrive":             1,
	"generateVideoPrompts":    2,
	"generateStoryElements":   2,
	"editImage":               4,
	"generateImageForScene":   4,
	"generateImageWithQuote":  6,
}

// Dispatch routes an {action, payload} envelope to its handler. Order
// matters: unknown actions and rate limiting are settled before payload
// validation, and validation before any model call.
func (a *API) Dispatch(w http.ResponseWriter, r *http.Request) {
	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with action and payload")
		return
	}

	cost, known := actionCosts[env.Action]
	if !known {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown action: %s", env.Action))
		return
	}

	if !a.allow(r, cost) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	payload := env.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	switch env.Action {
	case "generateContent":
		a.generateContent(w, r, payload)
	case "generateImageWithQuote":
		a.generateImageWithQuote(w, r, payload)
	case "editImage":
		a.editImage(w, r, payload)
	case "generateVideoPrompts":
		a.generateVideoPrompts(w, r, payload)
	case "generateStoryElements":
		a.generateStoryElements(w, r, payload)
	case "generateImageForScene":
		a.generateImageForScene(w, r, payload)
	case "getAutomationStrategies":
		a.getAutomationStrategies(w, r)
	case "saveToDrive":
		a.saveToDrive(w, r, payload)
	}
}

// allow debits the caller's bucket. Backend errors fail open inside the
// limiter, so a false return always means a genuine rejection.
func (a *API) allow(r *http.Request, cost int) bool {
	ok, _ := a.limiter.Allow(r.Context(), middleware.ClientIP(r), cost)
	return ok
}

// decodePayload unmarshals an action payload, reporting a validation
// error on malformed JSON.
func decodePayload(w http.ResponseWriter, payload json.RawMessage, out any) bool {
	if err := json.Unmarshal(payload, out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}

// decodeBody unmarshals a plain JSON request body for the storyboard
// routes, which carry no envelope.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return false
	}
	return true
}

// --- Catalog actions ---

func (a *API) generateContent(w http.ResponseWriter, r *http.Request, payload json.RawMessage) {
	var p struct {
		Type string `json:"type"`
	}
	if !decodePayload(w, payload, &p) {
		return
	}
	if msg := validateContentType(p.Type); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	text, err := a.content.GenerateContent(r.Context(), p.Type)
	if err != nil {
		writeUpstreamError(w, "generateContent", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (a *API) generateImageWithQuote(w http.ResponseWriter, r *http.Request, payload json.RawMessage) {
	var p struct {
		Quote       string `json:"quote"`
		AspectRatio string `json:"aspectRatio"`
	}
	if !decodePayload(w, payload, &p) {
		return
	}
	if msg := validateQuote(p.Quote); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateAspectRatio(p.AspectRatio); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	pair, err := a.content.GenerateImagePair(r.Context(), p.Quote, p.AspectRatio)
	if err != nil {
		writeUpstreamError(w, "generateImageWithQuote", err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (a *API) editImage(w http.ResponseWriter, r *http.Request, payload json.RawMessage) {
	var p struct {
		Base64Image string `json:"base64Image"`
		Prompt      string `json:"prompt"`
	}
	if !decodePayload(w, payload, &p) {
		return
	}
	if msg := validateEditImage(p.Base64Image, p.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	edited, err := a.content.EditImage(r.Context(), p.Base64Image, p.Prompt)
	if err != nil {
		writeUpstreamError(w, "editImage", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"edited": edited})
}

func (a *API) generateVideoPrompts(w http.ResponseWriter, r *http.Request, payload json.RawMessage) {
	var p struct {
		Quote       string `json:"quote"`
		ImageBase64 string `json:"imageBase64"`
	}
	if !decodePayload(w, payload, &p) {
		return
	}
	if msg := validateQuote(p.Quote); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	vp, err := a.content.VideoPrompts(r.Context(), p.Quote, p.ImageBase64)
	if err != nil {
		writeUpstreamError(w, "generateVideoPrompts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": vp})
}

func (a *API) generateStoryElements(w http.ResponseWriter, r *http.Request, payload json.RawMessage) {
	var p struct {
		Topic             string `json:"topic"`
		NumScenes         int    `json:"numScenes"`
		Style             string `json:"style"`
		CharacterGender   string `json:"characterGender"`
		HasCharacterImage bool   `json:"hasCharacterImage"`
	}
	if !decodePayload(w, payload, &p) {
		return
	}
	if msg := validateStoryElements(p.Topic, p.NumScenes, p.Style); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	story, err := a.content.StoryElements(r.Context(), p.Topic, p.NumScenes, p.Style, p.CharacterGender, p.HasCharacterImage)
	if err != nil {
		writeUpstreamError(w, "generateStoryElements", err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

func (a *API) generateImageForScene(w http.ResponseWriter, r *http.Request, payload json.RawMessage) {
	var p struct {
		VisualsPrompt  string `json:"visualsPrompt"`
		AspectRatio    string `json:"aspectRatio"`
		CharacterImage string `json:"characterImage"`
	}
	if !decodePayload(w, payload, &p) {
		return
	}
	if msg := validateSceneImage(p.VisualsPrompt, p.AspectRatio); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	image, err := a.content.GenerateSceneImage(r.Context(), p.VisualsPrompt, p.AspectRatio, p.CharacterImage)
	if err != nil {
		writeUpstreamError(w, "generateImageForScene", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": image})
}

func (a *API) getAutomationStrategies(w http.ResponseWriter, r *http.Request) {
	strategies, err := a.content.Strategies(r.Context())
	if err != nil {
		writeUpstreamError(w, "getAutomationStrategies", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"strategies": strategies})
}

func (a *API) saveToDrive(w http.ResponseWriter, r *http.Request, payload json.RawMessage) {
	var p struct {
		AccessToken string `json:"accessToken"`
		FileData    string `json:"fileData"`
		FileName    string `json:"fileName"`
	}
	if !decodePayload(w, payload, &p) {
		return
	}
	if msg := validateSaveToDrive(p.AccessToken, p.FileData, p.FileName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	data, contentType, err := imaging.FromDataURI(p.FileData)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fileData must be base64 or a data URI")
		return
	}

	res, err := a.drive.Upload(r.Context(), p.AccessToken, p.FileName, contentType, data)
	if err != nil {
		writeUpstreamError(w, "saveToDrive", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ClientConfig exposes the values the browser needs to start the Drive
// OAuth redirect. There is no secret here — the implicit grant returns
// the token in the URL fragment, client-side only.
func (a *API) ClientConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"oauthClientId":    a.oauthClientID,
		"oauthRedirectUri": a.oauthRedirectURI,
	})
}
