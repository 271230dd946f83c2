package tui

import (
	"strings"
	"testing"

	"github.com/y3rawat/mindstore/internal/content"
	"github.com/y3rawat/mindstore/internal/library"
)

func TestContentEntryTitle(t *testing.T) {
	entry := contentEntry{
		item: content.Item{Media: content.Media{
			Platform: content.PlatformInstagram,
			Title:    "Morning run",
		}},
	}
	if got := entry.Title(); got != "[ ] #INSTA Morning run" {
		t.Errorf("Title() = %q", got)
	}

	entry.selected = true
	if got := entry.Title(); !strings.HasPrefix(got, "[x]") {
		t.Errorf("selected entry should be marked: %q", got)
	}
}

func TestContentEntryTitleFallback(t *testing.T) {
	entry := contentEntry{
		item: content.Item{Media: content.Media{
			Platform:  content.PlatformYouTube,
			MediaType: content.MediaTypeVideo,
		}},
	}
	if got := entry.Title(); !strings.Contains(got, "YouTube Video") {
		t.Errorf("expected platform fallback title: %q", got)
	}
}

func TestContentEntryDescriptionShowsLifecycle(t *testing.T) {
	pending := contentEntry{item: content.Item{Media: content.Media{DownloadStatus: "pending"}}}
	if got := pending.Description(); !strings.Contains(got, "processing") {
		t.Errorf("pending description: %q", got)
	}

	failed := contentEntry{item: content.Item{Media: content.Media{DownloadStatus: "failed", Title: "T"}}}
	if got := failed.Description(); !strings.Contains(got, "failed") {
		t.Errorf("failed description: %q", got)
	}
}

func TestStatusBadge(t *testing.T) {
	cases := map[content.Status]string{
		content.StatusPending:   "~ processing",
		content.StatusFailed:    "! failed",
		content.StatusCompleted: "+ ready",
	}
	for status, want := range cases {
		if got := statusBadge(status); got != want {
			t.Errorf("statusBadge(%v) = %q, want %q", status, got, want)
		}
	}
}

func testModel(items ...content.Item) model {
	return model{
		sel: library.NewSelection(),
		platforms: map[content.Platform]bool{
			content.PlatformInstagram: true,
			content.PlatformYouTube:   true,
			content.PlatformTwitter:   true,
			content.PlatformLinkedIn:  true,
			content.PlatformTikTok:    true,
			content.PlatformOther:     true,
		},
		snapshot: library.Snapshot{Items: items},
	}
}

func TestFilteredItemsByPlatform(t *testing.T) {
	m := testModel(
		content.Item{ContentHash: "a", Media: content.Media{Platform: content.PlatformInstagram}},
		content.Item{ContentHash: "b", Media: content.Media{Platform: content.PlatformYouTube}},
		content.Item{ContentHash: "c", Media: content.Media{Platform: "mastodon"}},
	)
	m.platforms[content.PlatformYouTube] = false

	got := m.filteredItems()
	if len(got) != 2 || got[0].ContentHash != "a" || got[1].ContentHash != "c" {
		t.Errorf("filteredItems = %+v", got)
	}

	// Unknown platforms follow the "other" toggle.
	m.platforms[content.PlatformOther] = false
	got = m.filteredItems()
	if len(got) != 1 || got[0].ContentHash != "a" {
		t.Errorf("filteredItems with other off = %+v", got)
	}
}

func TestFilteredItemsByQuery(t *testing.T) {
	m := testModel(
		content.Item{ContentHash: "a", Media: content.Media{Platform: content.PlatformInstagram, Title: "Sourdough guide"}},
		content.Item{ContentHash: "b", Media: content.Media{Platform: content.PlatformInstagram, Author: "baker"}},
		content.Item{ContentHash: "c", Media: content.Media{Platform: content.PlatformInstagram, Caption: "trail run"}},
	)

	m.query = "SOURDOUGH"
	if got := m.filteredItems(); len(got) != 1 || got[0].ContentHash != "a" {
		t.Errorf("title query: %+v", got)
	}

	m.query = "baker"
	if got := m.filteredItems(); len(got) != 1 || got[0].ContentHash != "b" {
		t.Errorf("author query: %+v", got)
	}

	m.query = "trail"
	if got := m.filteredItems(); len(got) != 1 || got[0].ContentHash != "c" {
		t.Errorf("caption query: %+v", got)
	}
}

func TestGalleryDots(t *testing.T) {
	if galleryDots(0, 1) != "" {
		t.Error("single-asset gallery renders no dots")
	}
	dots := galleryDots(1, 3)
	if strings.Count(dots, "●") != 1 || strings.Count(dots, "○") != 2 {
		t.Errorf("dots = %q", dots)
	}
}

func TestPlatformForKey(t *testing.T) {
	if p, ok := platformForKey("1"); !ok || p != content.PlatformInstagram {
		t.Errorf("key 1 = %v", p)
	}
	if p, ok := platformForKey("6"); !ok || p != content.PlatformOther {
		t.Errorf("key 6 = %v", p)
	}
	if _, ok := platformForKey("7"); ok {
		t.Error("key 7 should not map to a platform")
	}
}
