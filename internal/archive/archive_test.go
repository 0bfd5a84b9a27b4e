// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"quoteforge/internal/imaging"
)

func testImage(b byte) string {
	return imaging.ToDataURI([]byte{0x89, 'P', 'N', 'G', b}, "image/png")
}

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestBuildStoryboardZipEntryNames(t *testing.T) {
	scenes := make([]string, 11)
	for i := range scenes {
		scenes[i] = testImage(byte(i))
	}

	data, err := BuildStoryboardZip(testImage(99), scenes)
	if err != nil {
		t.Fatalf("BuildStoryboardZip: %v", err)
	}

	got := entryNames(t, data)
	want := []string{"thumbnail.png"}
	for i := 1; i <= 11; i++ {
		want = append(want, fmt.Sprintf("scene-%02d.png", i))
	}

	if len(got) != len(want) {
		t.Fatalf("entry count: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildStoryboardZipIdempotent(t *testing.T) {
	scenes := []string{testImage(1), testImage(2), testImage(3)}
	thumb := testImage(0)

	first, err := BuildStoryboardZip(thumb, scenes)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := BuildStoryboardZip(thumb, scenes)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	a, b := entryNames(t, first), entryNames(t, second)
	if len(a) != len(b) {
		t.Fatalf("entry counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("entry %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestBuildStoryboardZipExtensionFollowsMime(t *testing.T) {
	jpeg := imaging.ToDataURI([]byte{0xff, 0xd8, 0xff, 0xe0}, "image/jpeg")

	data, err := BuildStoryboardZip(jpeg, []string{testImage(1)})
	if err != nil {
		t.Fatalf("BuildStoryboardZip: %v", err)
	}

	got := entryNames(t, data)
	if got[0] != "thumbnail.jpg" {
		t.Errorf("thumbnail entry: got %q, want thumbnail.jpg", got[0])
	}
}

func TestBuildStoryboardZipMissingImageFails(t *testing.T) {
	if _, err := BuildStoryboardZip(testImage(0), []string{testImage(1), ""}); err == nil {
		t.Fatal("expected error for missing scene image")
	}
	if _, err := BuildStoryboardZip("", []string{testImage(1)}); err == nil {
		t.Fatal("expected error for missing thumbnail")
	}
}
