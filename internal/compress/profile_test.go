package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{"already fits", 800, 600, 1920, 1080, 800, 600},
		{"exact bounds", 1920, 1080, 1920, 1080, 1920, 1080},
		{"wide landscape", 4000, 3000, 1920, 1080, 1440, 1080},
		{"width only", 3840, 1080, 1920, 1080, 1920, 540},
		{"tall portrait", 1080, 1920, 1280, 720, 405, 720},
		{"rounding", 1001, 333, 500, 500, 500, 166},
		{"square avatar", 2000, 2000, 800, 800, 800, 800},
		{"never below one", 10000, 1, 100, 100, 100, 1},
		{"tiny image not upscaled", 10, 10, 1920, 1080, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w, "width")
			assert.Equal(t, tt.wantH, h, "height")
		})
	}
}

func TestFitWithinNeverExceedsBounds(t *testing.T) {
	for w := 1; w < 5000; w += 137 {
		for h := 1; h < 5000; h += 211 {
			gw, gh := FitWithin(w, h, 1280, 720)
			assert.LessOrEqual(t, gw, 1280)
			assert.LessOrEqual(t, gh, 720)
			assert.LessOrEqual(t, gw, w)
			assert.LessOrEqual(t, gh, h)
		}
	}
}

func TestEvenFit(t *testing.T) {
	w, h := evenFit(1001, 333, 500, 500)
	assert.Equal(t, 500, w)
	assert.Equal(t, 166, h)

	w, h = evenFit(1080, 1920, 1280, 720)
	assert.Equal(t, 404, w)
	assert.Equal(t, 720, h)

	w, h = evenFit(1, 1, 100, 100)
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
}

func TestChangeExtension(t *testing.T) {
	assert.Equal(t, "clip.webm", ChangeExtension("clip.mp4", "video/webm"))
	assert.Equal(t, "my.holiday.jpeg", ChangeExtension("my.holiday.png", "image/jpeg"))
	assert.Equal(t, "noext.webm", ChangeExtension("noext", "video/webm;codecs=vp8"))
}

func TestSubtypeAndBaseMIME(t *testing.T) {
	assert.Equal(t, "video/webm", BaseMIME("video/webm; codecs=vp8"))
	assert.Equal(t, "webm", Subtype("video/webm;codecs=vp8"))
	assert.Equal(t, "plain", Subtype("text/plain; charset=utf-8"))
}
