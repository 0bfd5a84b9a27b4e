// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"quoteforge/internal/content"
	"quoteforge/internal/drive"
	"quoteforge/internal/storyboard"
)

// errorResponse is the JSON error shape for every failure: 4xx for
// caller mistakes, 5xx for upstream trouble. Details carries raw model
// text for malformed-response diagnosis and is the only place upstream
// text surfaces.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

// writeError writes the standard error shape. msg must be safe to show
// to end users — validation text yes, provider error text no.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeUpstreamError maps a generation failure onto the error taxonomy.
// The underlying error is logged for operators; callers get a stable
// one-line message so provider internals never leak.
func writeUpstreamError(w http.ResponseWriter, action string, err error) {
	slog.Error("upstream request failed", "action", action, "error", err)

	var malformed *content.MalformedError
	var upload *drive.UploadError
	switch {
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "invalid upstream response",
			Details: malformed.Raw,
		})
	case errors.As(err, &upload):
		writeError(w, http.StatusInternalServerError, "Drive upload failed")
	case errors.Is(err, content.ErrEmptyResult):
		writeError(w, http.StatusInternalServerError, "the model returned no usable result")
	default:
		writeError(w, http.StatusInternalServerError, "AI request failed")
	}
}

// writeStoryboardError maps session-layer failures, falling through to
// the upstream mapping for generation errors.
func writeStoryboardError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, storyboard.ErrNotFound):
		writeError(w, http.StatusNotFound, "storyboard not found or expired")
	case errors.Is(err, storyboard.ErrUnknownScene):
		writeError(w, http.StatusNotFound, "no such scene")
	case errors.Is(err, storyboard.ErrNotReady):
		writeError(w, http.StatusConflict, "every scene and the thumbnail need an image before packaging")
	default:
		writeUpstreamError(w, action, err)
	}
}
