package content

import (
	"encoding/json"
	"strings"
	"time"
)

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
	PlatformOther     Platform = "other"
)

type MediaType string

const (
	MediaTypeImage   MediaType = "image"
	MediaTypeVideo   MediaType = "video"
	MediaTypeUnknown MediaType = ""
)

// Item is one user-saved piece of content plus the server-derived
// processing metadata. ContentHash is the merge and selection key.
type Item struct {
	ContentHash string  `json:"contentHash"`
	ID          string  `json:"id,omitempty"`
	URL         string  `json:"url,omitempty"`
	SavedAt     SavedAt `json:"savedAt,omitempty"`
	Media       Media   `json:"media"`
}

// Key returns the stable identifier, falling back to ID for records
// the server wrote before contentHash existed.
func (it Item) Key() string {
	if it.ContentHash != "" {
		return it.ContentHash
	}
	return it.ID
}

// Media evolves in place across polls as ingestion stages complete.
type Media struct {
	Platform       Platform    `json:"platform,omitempty"`
	MediaType      MediaType   `json:"mediaType,omitempty"`
	Title          string      `json:"title,omitempty"`
	Author         string      `json:"author,omitempty"`
	Caption        string      `json:"caption,omitempty"`
	URL            string      `json:"url,omitempty"`
	ThumbnailURL   string      `json:"thumbnailUrl,omitempty"`
	DriveFileID    string      `json:"driveFileId,omitempty"`
	DriveViewLink  string      `json:"driveViewLink,omitempty"`
	MediaItems     []MediaItem `json:"mediaItems,omitempty"`
	DownloadStatus string      `json:"downloadStatus,omitempty"`
}

// MediaItem is one sub-asset of a carousel/gallery item.
type MediaItem struct {
	MediaType     MediaType `json:"mediaType,omitempty"`
	DriveFileID   string    `json:"driveFileId,omitempty"`
	DriveViewLink string    `json:"driveViewLink,omitempty"`
	ThumbnailURL  string    `json:"thumbnailUrl,omitempty"`
	URL           string    `json:"url,omitempty"`
}

// SavedAt normalizes the item timestamp. The server sends either an
// RFC3339 string or a Firestore-style epoch-seconds wrapper
// {"_seconds": N, "_nanoseconds": M}.
type SavedAt struct {
	time.Time
}

func (s *SavedAt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		s.Time = time.Time{}
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Seconds     int64 `json:"_seconds"`
			Nanoseconds int64 `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return err
		}
		s.Time = time.Unix(wrapper.Seconds, wrapper.Nanoseconds).UTC()
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		s.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return err
	}
	s.Time = parsed.UTC()
	return nil
}

func (s SavedAt) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.Format(time.RFC3339))
}

// DisplayDate renders the saved date the way the library grid shows it.
func (s SavedAt) DisplayDate() string {
	if s.IsZero() {
		return "No date"
	}
	return s.Format("01-02-06")
}

// PlatformTag returns the grid tag label for a platform.
func PlatformTag(p Platform) string {
	switch p {
	case PlatformInstagram:
		return "#INSTA"
	case PlatformYouTube:
		return "#YOUTUBE"
	case PlatformTwitter:
		return "#TWITTER"
	case PlatformLinkedIn:
		return "#LINKEDIN"
	case PlatformTikTok:
		return "#TIKTOK"
	default:
		return "#MEDIA"
	}
}

// FallbackTitle builds a platform-based title for items whose metadata
// has not arrived yet.
func FallbackTitle(m Media) string {
	names := map[Platform]string{
		PlatformInstagram: "Instagram",
		PlatformYouTube:   "YouTube",
		PlatformTwitter:   "Twitter",
		PlatformLinkedIn:  "LinkedIn",
		PlatformTikTok:    "TikTok",
	}
	name, ok := names[m.Platform]
	if !ok {
		name = "Media"
	}
	kind := "Post"
	if m.MediaType == MediaTypeVideo {
		kind = "Video"
	}
	return name + " " + kind
}

// DisplayTitle is the list title for an item: real title, then author,
// then a platform fallback.
func DisplayTitle(m Media) string {
	if m.Title != "" {
		return m.Title
	}
	if m.Author != "" {
		return m.Author
	}
	return FallbackTitle(m)
}
