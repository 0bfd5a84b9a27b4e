// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package drive uploads finished packages to the user's Google Drive.
// The access token comes straight from the browser's implicit OAuth
// redirect, so it is untrusted input: an expired or forged token simply
// makes the upload fail, and that failure is reported like any other
// upstream error. No server-side secret exchange is involved.
package drive

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// UploadResult identifies the created Drive file.
type UploadResult struct {
	ID          string `json:"id"`
	WebViewLink string `json:"webViewLink"`
}

// UploadError wraps a failed upload attempt so callers can tell a Drive
// rejection (expired token, quota, API outage) apart from model errors
// and report it as such.
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("drive: upload %q: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Uploader creates Drive files on behalf of a token holder.
type Uploader struct {
	// endpoint overrides the Drive API base URL; empty means production.
	// Tests point it at an httptest server.
	endpoint string
}

// NewUploader creates an Uploader against the production Drive API.
func NewUploader() *Uploader {
	return &Uploader{}
}

// NewUploaderWithEndpoint creates an Uploader against a custom API base
// URL, for tests.
func NewUploaderWithEndpoint(endpoint string) *Uploader {
	return &Uploader{endpoint: endpoint}
}

// Upload creates a single file in the token holder's Drive and returns
// its id and browser link. The service is rebuilt per call because each
// call may carry a different user's token.
func (u *Uploader) Upload(ctx context.Context, accessToken, fileName, contentType string, data []byte) (*UploadResult, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("drive: missing access token")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if u.endpoint != "" {
		opts = append(opts, option.WithEndpoint(u.endpoint))
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive: init service: %w", err)
	}

	file := &drive.File{Name: fileName, MimeType: contentType}
	created, err := svc.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &UploadError{FileName: fileName, Err: err}
	}

	return &UploadResult{ID: created.Id, WebViewLink: created.WebViewLink}, nil
}
