package content

import "strings"

// GalleryEntry is one navigable asset within a possibly multi-asset
// item. IsSynced is false when no archive identifier could be resolved
// and the entry fell back to the asset's own thumbnail or raw URL.
type GalleryEntry struct {
	URL      string
	SourceID string
	IsVideo  bool
	IsSynced bool
}

// InferVideo decides whether media is video when the explicit type is
// missing. Upstream metadata does not always populate mediaType, so
// the title prefix Instagram uses ("Video by ...") and short-form URL
// segments stand in for it.
func InferVideo(m Media) bool {
	switch m.MediaType {
	case MediaTypeVideo:
		return true
	case MediaTypeImage:
		return false
	}
	if strings.HasPrefix(strings.ToLower(m.Title), "video by") {
		return true
	}
	u := m.URL
	if strings.Contains(u, "/reel/") || strings.Contains(u, "/reels/") || strings.Contains(u, "/shorts/") {
		return true
	}
	return false
}

// ResolveGallery resolves the ordered asset list for detail viewing.
//
// mediaItems, when present, is authoritative and keeps input order.
// A single-asset item becomes a one-entry gallery built from its
// archive id (with inferred type, since single items may not carry
// mediaType) or, failing that, its thumbnail. No resolvable source at
// all yields an empty gallery.
func ResolveGallery(item Item) []GalleryEntry {
	m := item.Media

	if len(m.MediaItems) > 0 {
		entries := make([]GalleryEntry, 0, len(m.MediaItems))
		for _, sub := range m.MediaItems {
			entries = append(entries, resolveSubAsset(sub))
		}
		return entries
	}

	isVideo := InferVideo(m)

	fileID := m.DriveFileID
	if fileID == "" {
		fileID = ExtractDriveFileID(m.DriveViewLink)
	}
	if fileID != "" {
		return []GalleryEntry{{
			URL:      assetURL(fileID, isVideo),
			SourceID: fileID,
			IsVideo:  isVideo,
			IsSynced: true,
		}}
	}

	if m.ThumbnailURL != "" {
		return []GalleryEntry{{
			URL:      m.ThumbnailURL,
			IsVideo:  isVideo,
			IsSynced: false,
		}}
	}

	return nil
}

func resolveSubAsset(sub MediaItem) GalleryEntry {
	fileID := sub.DriveFileID
	if fileID == "" {
		fileID = ExtractDriveFileID(sub.DriveViewLink)
	}
	isVideo := sub.MediaType == MediaTypeVideo
	if fileID == "" {
		url := sub.ThumbnailURL
		if url == "" {
			url = sub.URL
		}
		return GalleryEntry{URL: url, IsVideo: isVideo, IsSynced: false}
	}
	return GalleryEntry{
		URL:      assetURL(fileID, isVideo),
		SourceID: fileID,
		IsVideo:  isVideo,
		IsSynced: true,
	}
}

func assetURL(fileID string, isVideo bool) string {
	if isVideo {
		return DriveVideoURL(fileID)
	}
	return DrivePreviewURL(fileID)
}

// Gallery wraps a resolved entry list with circular navigation state
// for the detail viewer.
type Gallery struct {
	entries []GalleryEntry
	index   int
}

func NewGallery(entries []GalleryEntry) *Gallery {
	return &Gallery{entries: entries}
}

func (g *Gallery) Len() int {
	return len(g.entries)
}

func (g *Gallery) Index() int {
	return g.index
}

func (g *Gallery) Entries() []GalleryEntry {
	return g.entries
}

// Current returns the entry under the cursor, or nil for an empty gallery.
func (g *Gallery) Current() *GalleryEntry {
	if len(g.entries) == 0 {
		return nil
	}
	return &g.entries[g.index]
}

// Next advances the cursor, wrapping past the last entry to the first.
func (g *Gallery) Next() {
	if len(g.entries) == 0 {
		return
	}
	g.index = (g.index + 1) % len(g.entries)
}

// Prev moves the cursor back, wrapping before the first entry to the last.
func (g *Gallery) Prev() {
	if len(g.entries) == 0 {
		return
	}
	g.index = (g.index - 1 + len(g.entries)) % len(g.entries)
}

// Jump moves to an absolute index (dot-indicator navigation). Out of
// range indexes are ignored.
func (g *Gallery) Jump(i int) {
	if i < 0 || i >= len(g.entries) {
		return
	}
	g.index = i
}
