// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package drive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"file-123","webViewLink":"https://drive.google.com/file/d/file-123/view"}`))
	}))
	defer srv.Close()

	u := NewUploaderWithEndpoint(srv.URL)
	res, err := u.Upload(context.Background(), "user-token", "storyboard.zip", "application/zip", []byte("zipbytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.ID != "file-123" {
		t.Errorf("id: got %q", res.ID)
	}
	if !strings.Contains(res.WebViewLink, "file-123") {
		t.Errorf("webViewLink: got %q", res.WebViewLink)
	}
	if gotAuth != "Bearer user-token" {
		t.Errorf("Authorization: got %q, want bearer token", gotAuth)
	}
}

func TestUploadRejectedToken(t *testing.T) {
	// An expired/forged token must surface as an upload error, not a panic.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	}))
	defer srv.Close()

	u := NewUploaderWithEndpoint(srv.URL)
	_, err := u.Upload(context.Background(), "expired", "f.zip", "application/zip", []byte("x"))
	if err == nil {
		t.Fatal("expected error for rejected token")
	}

	// Failures carry the typed error so handlers can report them as
	// upload problems rather than model problems.
	var upload *UploadError
	if !errors.As(err, &upload) {
		t.Errorf("expected *UploadError, got %T", err)
	}
	if upload.FileName != "f.zip" {
		t.Errorf("FileName: got %q", upload.FileName)
	}
}

func TestUploadRequiresToken(t *testing.T) {
	u := NewUploader()
	if _, err := u.Upload(context.Background(), "", "f.zip", "application/zip", []byte("x")); err == nil {
		t.Fatal("expected error for empty token")
	}
}
