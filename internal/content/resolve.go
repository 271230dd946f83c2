package content

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Fixed Drive URL templates. The file id is the only variable.
const (
	driveThumbTemplate   = "https://drive.google.com/thumbnail?id=%s&sz=w400"
	drivePreviewTemplate = "https://drive.google.com/thumbnail?id=%s&sz=w1920"
	driveVideoTemplate   = "https://drive.google.com/file/d/%s/preview"
)

var driveFileIDRe = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// ExtractDriveFileID pulls the archive file id out of a Drive view
// link (https://drive.google.com/file/d/{id}/view or /preview).
func ExtractDriveFileID(viewLink string) string {
	if viewLink == "" {
		return ""
	}
	match := driveFileIDRe.FindStringSubmatch(viewLink)
	if match == nil {
		return ""
	}
	return match[1]
}

// DriveThumbnailURL builds the 400px grid thumbnail for an archived file.
func DriveThumbnailURL(fileID string) string {
	if fileID == "" {
		return ""
	}
	return fmt.Sprintf(driveThumbTemplate, fileID)
}

// DrivePreviewURL builds the large image preview for an archived file.
func DrivePreviewURL(fileID string) string {
	return fmt.Sprintf(drivePreviewTemplate, fileID)
}

// DriveVideoURL builds the streaming preview for an archived video.
func DriveVideoURL(fileID string) string {
	return fmt.Sprintf(driveVideoTemplate, fileID)
}

// IsExternalURL reports whether a URL points at a third-party origin.
// Loopback hosts and embedded data URIs are local and never proxied.
func IsExternalURL(raw string) bool {
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "data:") {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return false
	}
	return true
}

// Resolver derives displayable URLs for items. APIBaseURL is the
// collaborator base used to build the image-proxy endpoint.
type Resolver struct {
	APIBaseURL string
}

func NewResolver(apiBaseURL string) Resolver {
	return Resolver{APIBaseURL: strings.TrimRight(apiBaseURL, "/")}
}

// ResolveThumbnail returns the display URL for an item thumbnail, or
// "" when the caller must show a placeholder.
//
// External platform thumbnails are rewritten through the image proxy
// so hotlink and mixed-origin blocks don't break rendering; if the
// platform thumbnail never arrived, an archived file id still yields a
// Drive-generated thumbnail.
func (r Resolver) ResolveThumbnail(thumbnailURL, driveFileID string) string {
	if thumbnailURL != "" {
		if IsExternalURL(thumbnailURL) {
			return r.APIBaseURL + "/image-proxy?url=" + url.QueryEscape(thumbnailURL)
		}
		return thumbnailURL
	}
	if driveFileID != "" {
		return DriveThumbnailURL(driveFileID)
	}
	return ""
}

// ItemThumbnail resolves the grid thumbnail for a whole item.
func (r Resolver) ItemThumbnail(m Media) string {
	return r.ResolveThumbnail(m.ThumbnailURL, m.DriveFileID)
}
