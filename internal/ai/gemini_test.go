// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given
// status code and body bytes. The caller must call Close on the server.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

// geminiTextBody builds a JSON body matching the Gemini generateContent
// response format with a single candidate containing the given text.
func geminiTextBody(text string) []byte {
	resp := geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// geminiImageBody builds a response containing one inline image part.
func geminiImageBody(data []byte, mimeType string) []byte {
	resp := geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{
				{Text: "here is your image"},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(data),
				}},
			}}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func testProvider(baseURL string) *geminiProvider {
	return newGemini(ProviderConfig{
		APIKey:     "test-key",
		Model:      "gemini-2.5-flash",
		ModelImage: "gemini-2.5-flash-image",
		BaseURL:    baseURL,
	})
}

// ---------- Generate ----------

func TestGeminiGenerate_Success(t *testing.T) {
	want := "Stay hungry, stay foolish."
	srv := newTestServer(t, http.StatusOK, geminiTextBody(want))
	defer srv.Close()

	got, err := testProvider(srv.URL).Generate(context.Background(), "You are a coach.", "One quote")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestGeminiGenerate_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedBody []byte
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedBody, _ = io.ReadAll(r.Body)
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiTextBody("ok"))
	}))
	defer srv.Close()

	_, err := testProvider(srv.URL).Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}

	if got := capturedHeaders.Get("x-goog-api-key"); got != "test-key" {
		t.Errorf("x-goog-api-key header: got %q, want %q", got, "test-key")
	}
	if got := capturedHeaders.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", got)
	}
	if want := "/v1beta/models/gemini-2.5-flash:generateContent"; capturedPath != want {
		t.Errorf("path: got %q, want %q", capturedPath, want)
	}

	var reqBody geminiRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.SystemInstruction == nil || reqBody.SystemInstruction.Parts[0].Text != "system prompt" {
		t.Errorf("system instruction: got %+v", reqBody.SystemInstruction)
	}
	if len(reqBody.Contents) != 1 || reqBody.Contents[0].Parts[0].Text != "user prompt" {
		t.Errorf("contents: got %+v", reqBody.Contents)
	}
}

func TestGeminiGenerate_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, []byte(`{"error":"internal"}`))
	defer srv.Close()

	_, err := testProvider(srv.URL).Generate(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error should mention status: %v", err)
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"candidates":[]}`))
	defer srv.Close()

	_, err := testProvider(srv.URL).Generate(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

// ---------- GenerateStructured ----------

func TestGeminiGenerateStructured_SendsSchema(t *testing.T) {
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiTextBody(`{"text":"a tip"}`))
	}))
	defer srv.Close()

	schema := &Schema{
		Type:       "OBJECT",
		Properties: map[string]*Schema{"text": {Type: "STRING"}},
		Required:   []string{"text"},
	}

	raw, err := testProvider(srv.URL).GenerateStructured(context.Background(), "s", "u", schema)
	if err != nil {
		t.Fatalf("GenerateStructured: unexpected error: %v", err)
	}
	if raw != `{"text":"a tip"}` {
		t.Errorf("raw JSON: got %q", raw)
	}

	var reqBody geminiRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.GenerationConfig == nil {
		t.Fatal("generationConfig missing")
	}
	if reqBody.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("responseMimeType: got %q", reqBody.GenerationConfig.ResponseMimeType)
	}
	if reqBody.GenerationConfig.ResponseSchema == nil || reqBody.GenerationConfig.ResponseSchema.Type != "OBJECT" {
		t.Errorf("responseSchema: got %+v", reqBody.GenerationConfig.ResponseSchema)
	}
}

// ---------- GenerateImage ----------

func TestGeminiGenerateImage_Success(t *testing.T) {
	imgBytes := []byte{0x89, 'P', 'N', 'G'}
	srv := newTestServer(t, http.StatusOK, geminiImageBody(imgBytes, "image/png"))
	defer srv.Close()

	data, contentType, err := testProvider(srv.URL).GenerateImage(context.Background(), "a sunrise", ImageOptions{})
	if err != nil {
		t.Fatalf("GenerateImage: unexpected error: %v", err)
	}
	if string(data) != string(imgBytes) {
		t.Error("image bytes differ")
	}
	if contentType != "image/png" {
		t.Errorf("content type: got %q, want image/png", contentType)
	}
}

func TestGeminiGenerateImage_AttachesReferenceImages(t *testing.T) {
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiImageBody([]byte{1, 2, 3}, "image/png"))
	}))
	defer srv.Close()

	ref := InlineImage{Data: []byte{9, 9, 9}, MimeType: "image/jpeg"}
	_, _, err := testProvider(srv.URL).GenerateImage(context.Background(), "edit this", ImageOptions{
		AspectRatio: "9:16",
		Images:      []InlineImage{ref},
	})
	if err != nil {
		t.Fatalf("GenerateImage: unexpected error: %v", err)
	}

	var reqBody geminiRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}

	parts := reqBody.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("parts count: got %d, want 2", len(parts))
	}
	// Reference image first, prompt text last.
	if parts[0].InlineData == nil || parts[0].InlineData.MimeType != "image/jpeg" {
		t.Errorf("first part should be the reference image: %+v", parts[0])
	}
	if parts[1].Text != "edit this" {
		t.Errorf("last part should be the prompt: %+v", parts[1])
	}

	cfg := reqBody.GenerationConfig
	if cfg == nil || cfg.ImageConfig == nil || cfg.ImageConfig.AspectRatio != "9:16" {
		t.Errorf("imageConfig aspect ratio not forwarded: %+v", cfg)
	}
	if len(cfg.ResponseModalities) == 0 || cfg.ResponseModalities[0] != "IMAGE" {
		t.Errorf("responseModalities: got %v", cfg.ResponseModalities)
	}
}

func TestGeminiGenerateImage_NoImageInResponse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, geminiTextBody("sorry, text only"))
	defer srv.Close()

	_, _, err := testProvider(srv.URL).GenerateImage(context.Background(), "a sunrise", ImageOptions{})
	if err == nil {
		t.Fatal("expected error when response has no inline image")
	}
}

func TestGeminiGenerateImage_RequiresImageModel(t *testing.T) {
	p := newGemini(ProviderConfig{APIKey: "k", Model: "gemini-2.5-flash"})
	_, _, err := p.GenerateImage(context.Background(), "x", ImageOptions{})
	if err == nil {
		t.Fatal("expected error when ModelImage is unset")
	}
}
