package content

import (
	"strings"
	"testing"
)

func TestInferVideo(t *testing.T) {
	cases := []struct {
		name string
		m    Media
		want bool
	}{
		{"explicit video", Media{MediaType: MediaTypeVideo}, true},
		{"explicit image wins over title", Media{MediaType: MediaTypeImage, Title: "Video by someone"}, false},
		{"title prefix", Media{Title: "Video by someuser"}, true},
		{"title prefix case insensitive", Media{Title: "VIDEO BY someuser"}, true},
		{"reel url", Media{URL: "https://www.instagram.com/reel/xyz/"}, true},
		{"reels url", Media{URL: "https://www.instagram.com/reels/xyz/"}, true},
		{"shorts url", Media{URL: "https://youtube.com/shorts/abc"}, true},
		{"plain post", Media{Title: "Nice photo", URL: "https://www.instagram.com/p/xyz/"}, false},
	}
	for _, tc := range cases {
		if got := InferVideo(tc.m); got != tc.want {
			t.Errorf("%s: InferVideo = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolveGalleryMediaItems(t *testing.T) {
	item := Item{Media: Media{
		MediaItems: []MediaItem{
			{MediaType: MediaTypeImage, DriveFileID: "id1"},
			{MediaType: MediaTypeVideo, DriveViewLink: "https://drive.google.com/file/d/id2/view"},
			{MediaType: MediaTypeImage, ThumbnailURL: "https://cdn.example/fallback.jpg"},
		},
	}}

	entries := ResolveGallery(item)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].SourceID != "id1" || !entries[0].IsSynced || entries[0].IsVideo {
		t.Errorf("entry 0 wrong: %+v", entries[0])
	}
	if !strings.Contains(entries[0].URL, "sz=w1920") {
		t.Errorf("image entry should use the large preview template: %q", entries[0].URL)
	}

	if entries[1].SourceID != "id2" || !entries[1].IsVideo || !entries[1].IsSynced {
		t.Errorf("entry 1 wrong: %+v", entries[1])
	}
	if !strings.Contains(entries[1].URL, "/file/d/id2/preview") {
		t.Errorf("video entry should use the preview template: %q", entries[1].URL)
	}

	if entries[2].IsSynced || entries[2].SourceID != "" {
		t.Errorf("entry 2 should be unsynced: %+v", entries[2])
	}
	if entries[2].URL != "https://cdn.example/fallback.jpg" {
		t.Errorf("entry 2 should fall back to its own thumbnail: %q", entries[2].URL)
	}
}

func TestResolveGallerySingleDriveItem(t *testing.T) {
	item := Item{Media: Media{
		Title:       "Video by someuser",
		DriveFileID: "abc123",
	}}
	entries := ResolveGallery(item)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].IsVideo {
		t.Error("expected inferred video type from title")
	}
	if entries[0].SourceID != "abc123" || !entries[0].IsSynced {
		t.Errorf("entry wrong: %+v", entries[0])
	}
}

func TestResolveGallerySingleImageItem(t *testing.T) {
	item := Item{Media: Media{
		MediaType:   MediaTypeImage,
		DriveFileID: "abc123",
	}}
	entries := ResolveGallery(item)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.IsVideo || e.SourceID != "abc123" || !e.IsSynced {
		t.Errorf("entry wrong: %+v", e)
	}
}

func TestResolveGalleryViewLinkFallback(t *testing.T) {
	item := Item{Media: Media{
		DriveViewLink: "https://drive.google.com/file/d/fromlink/view",
		MediaType:     MediaTypeImage,
	}}
	entries := ResolveGallery(item)
	if len(entries) != 1 || entries[0].SourceID != "fromlink" {
		t.Fatalf("expected id parsed from view link, got %+v", entries)
	}
}

func TestResolveGalleryThumbnailOnly(t *testing.T) {
	item := Item{Media: Media{ThumbnailURL: "https://cdn.example/t.jpg"}}
	entries := ResolveGallery(item)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].IsSynced {
		t.Error("thumbnail-only entry must be unsynced")
	}
}

func TestResolveGalleryEmpty(t *testing.T) {
	if entries := ResolveGallery(Item{}); len(entries) != 0 {
		t.Fatalf("expected empty gallery, got %d entries", len(entries))
	}
}

func TestGalleryCircularNavigation(t *testing.T) {
	g := NewGallery([]GalleryEntry{{URL: "a"}, {URL: "b"}, {URL: "c"}})

	g.Prev()
	if g.Index() != 2 {
		t.Errorf("Prev from 0 should wrap to last, got %d", g.Index())
	}
	g.Next()
	if g.Index() != 0 {
		t.Errorf("Next from last should wrap to 0, got %d", g.Index())
	}
	g.Jump(1)
	if g.Index() != 1 || g.Current().URL != "b" {
		t.Errorf("Jump(1) landed on %d", g.Index())
	}
	g.Jump(99)
	if g.Index() != 1 {
		t.Errorf("out-of-range Jump moved the cursor to %d", g.Index())
	}
}

func TestGalleryEmptyNavigation(t *testing.T) {
	g := NewGallery(nil)
	g.Next()
	g.Prev()
	if g.Current() != nil {
		t.Error("empty gallery should have no current entry")
	}
}
