// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging provides data-URI encoding and decoding for images that
// travel through the API as self-contained strings. Generated images move
// between the AI provider, the storyboard session store, the zip packager,
// and the Drive uploader without ever touching disk, so the data URI is the
// interchange format everywhere.
package imaging

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// ToDataURI encodes raw image bytes as a data URI with the given MIME type.
// An empty contentType falls back to sniffing the bytes.
func ToDataURI(data []byte, contentType string) string {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FromDataURI decodes a data URI back into raw bytes and its MIME type.
// It accepts both full data URIs and bare base64 payloads (some clients
// strip the prefix before upload); bare payloads get their type sniffed.
func FromDataURI(uri string) ([]byte, string, error) {
	payload := uri
	contentType := ""

	if strings.HasPrefix(uri, "data:") {
		comma := strings.IndexByte(uri, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("data uri: missing comma separator")
		}
		meta := uri[len("data:"):comma]
		payload = uri[comma+1:]

		meta = strings.TrimSuffix(meta, ";base64")
		contentType = meta
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("data uri: decode base64: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("data uri: empty payload")
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// ExtensionFor maps an image MIME type to a file extension for archive
// entries and Drive uploads. Unknown types default to ".png" since that is
// what the provider emits when it omits the MIME type.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
