package domain

import "strings"

// MediaKind classifies how a post's file should be delivered.
type MediaKind string

// Media kinds.
const (
	MediaImage     MediaKind = "image"
	MediaAnimation MediaKind = "animation"
	MediaVideo     MediaKind = "video"
)

// Post is a normalized board post. Missing numeric fields in the remote
// payload normalize to zero.
type Post struct {
	ID         int64     `json:"id"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Score      int       `json:"score"`
	PreviewURL string    `json:"preview_url"`
	SampleURL  string    `json:"sample_url"`
	FileURL    string    `json:"file_url"`
	MediaKind  MediaKind `json:"media_kind"`
}

// ClassifyMediaKind determines the media kind from the file URL extension.
// Unknown or missing extensions are treated as still images.
func ClassifyMediaKind(fileURL string) MediaKind {
	dot := strings.LastIndex(fileURL, ".")
	if dot < 0 || dot == len(fileURL)-1 {
		return MediaImage
	}
	ext := strings.ToLower(fileURL[dot+1:])
	// Strip query strings some mirrors append to file URLs.
	if q := strings.IndexAny(ext, "?#"); q >= 0 {
		ext = ext[:q]
	}
	switch ext {
	case "mp4", "webm", "mov":
		return MediaVideo
	case "gif", "apng":
		return MediaAnimation
	default:
		return MediaImage
	}
}

// DisplayURL returns the best URL for presenting the post. Videos and
// animations need the original file; images prefer the sample when asked.
func (p *Post) DisplayURL(preferSample bool) string {
	if p.MediaKind != MediaImage {
		return p.FileURL
	}
	if preferSample && p.SampleURL != "" {
		return p.SampleURL
	}
	return p.FileURL
}

// ThumbnailURL returns the preview URL, falling back to the file URL.
func (p *Post) ThumbnailURL() string {
	if p.PreviewURL != "" {
		return p.PreviewURL
	}
	return p.FileURL
}
