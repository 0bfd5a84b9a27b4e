// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package archive builds the downloadable zip for a completed storyboard.
// Entry names are deterministic — thumbnail first, then scenes in
// ascending order with zero-padded indexes — so building the archive
// twice from the same images yields the same entry listing no matter
// what order the images were generated in.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"

	"quoteforge/internal/imaging"
)

// BuildStoryboardZip packages the thumbnail and scene images (all data
// URIs) into a zip. Every image must be present; a missing or
// undecodable entry fails the whole build rather than producing a
// partial archive.
func BuildStoryboardZip(thumbnailURI string, sceneURIs []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := addImage(zw, "thumbnail", thumbnailURI); err != nil {
		return nil, err
	}
	for i, uri := range sceneURIs {
		name := fmt.Sprintf("scene-%02d", i+1)
		if err := addImage(zw, name, uri); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// addImage decodes one data URI and writes it as a zip entry, picking the
// file extension from the image's MIME type.
func addImage(zw *zip.Writer, name, uri string) error {
	if uri == "" {
		return fmt.Errorf("archive: %s has no image", name)
	}

	data, contentType, err := imaging.FromDataURI(uri)
	if err != nil {
		return fmt.Errorf("archive: %s: %w", name, err)
	}

	w, err := zw.Create(name + imaging.ExtensionFor(contentType))
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	return nil
}
