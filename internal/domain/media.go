package domain

import "strings"

// MediaKind classifies a local file selected for upload
type MediaKind int

const (
	MediaOther MediaKind = iota
	MediaImage
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "other"
	}
}

// KindOf maps a MIME type to its MediaKind
func KindOf(mime string) MediaKind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return MediaImage
	case strings.HasPrefix(mime, "video/"):
		return MediaVideo
	default:
		return MediaOther
	}
}

// MediaAsset is a local file on its way to the upload endpoint
type MediaAsset struct {
	Kind     MediaKind
	Name     string // display and upload file name
	Path     string // location on disk
	MimeType string
	Size     int64

	cleanup func() error
}

// NewTempAsset returns an asset backed by a temporary file that Cleanup removes
func NewTempAsset(kind MediaKind, name, path, mime string, size int64, cleanup func() error) *MediaAsset {
	return &MediaAsset{Kind: kind, Name: name, Path: path, MimeType: mime, Size: size, cleanup: cleanup}
}

// Cleanup releases any temporary file behind the asset. Safe to call more than once.
func (a *MediaAsset) Cleanup() error {
	if a == nil || a.cleanup == nil {
		return nil
	}
	fn := a.cleanup
	a.cleanup = nil
	return fn()
}

// Temporary reports whether the asset owns a temporary file
func (a *MediaAsset) Temporary() bool {
	return a != nil && a.cleanup != nil
}

// UploadRequest describes a post to publish
type UploadRequest struct {
	Asset       *MediaAsset
	Type        MediaType
	Description string
}
