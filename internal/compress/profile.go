package compress

import (
	"math"
	"path/filepath"
	"strings"
)

// Profile sets the output bounds and encoding for one media kind
type Profile struct {
	MaxWidth   int     `mapstructure:"max_width" validate:"gt=0"`
	MaxHeight  int     `mapstructure:"max_height" validate:"gt=0"`
	Quality    int     `mapstructure:"quality" validate:"gte=0,lte=100"`
	TargetMIME string  `mapstructure:"target_mime" validate:"required"`
	Bitrate    int     `mapstructure:"bitrate"`    // video bits per second
	FrameRate  float64 `mapstructure:"frame_rate"` // video frames per second
}

// DefaultImageProfile is applied to post images
var DefaultImageProfile = Profile{
	MaxWidth:   1920,
	MaxHeight:  1080,
	Quality:    80,
	TargetMIME: "image/webp",
}

// DefaultVideoProfile is applied to post videos
var DefaultVideoProfile = Profile{
	MaxWidth:   1280,
	MaxHeight:  720,
	Quality:    70,
	TargetMIME: "video/webm",
	Bitrate:    1_500_000,
	FrameRate:  30,
}

// AvatarProfile is applied to profile pictures
var AvatarProfile = Profile{
	MaxWidth:   800,
	MaxHeight:  800,
	Quality:    80,
	TargetMIME: "image/webp",
}

// FitWithin scales (w, h) down to fit (maxW, maxH) keeping the aspect ratio.
// Width is clamped first, then height. It never upscales and never returns
// a side below 1.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if maxW > 0 && w > maxW {
		h = int(math.Round(float64(h) * float64(maxW) / float64(w)))
		w = maxW
	}
	if maxH > 0 && h > maxH {
		w = int(math.Round(float64(w) * float64(maxH) / float64(h)))
		h = maxH
	}
	return max(w, 1), max(h, 1)
}

// evenFit is FitWithin rounded down to even sides, as yuv420p requires
func evenFit(w, h, maxW, maxH int) (int, int) {
	w, h = FitWithin(w, h, maxW, maxH)
	w -= w % 2
	h -= h % 2
	return max(w, 2), max(h, 2)
}

// BaseMIME strips parameters such as codecs from a MIME type
func BaseMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

// Subtype returns the part of a MIME type after the slash, without parameters
func Subtype(mime string) string {
	base := BaseMIME(mime)
	if i := strings.IndexByte(base, '/'); i >= 0 {
		return base[i+1:]
	}
	return base
}

// ChangeExtension replaces the extension of name with the subtype of mime:
// ChangeExtension("clip.mp4", "video/webm") == "clip.webm".
func ChangeExtension(name, mime string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + "." + Subtype(mime)
}
