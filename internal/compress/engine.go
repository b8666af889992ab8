// Package compress shrinks images and videos before they are uploaded.
// Images are resized and re-encoded in process; videos are transcoded
// with ffmpeg.
package compress

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
)

// DefaultCaptureLimit caps how long a single video transcode may run
const DefaultCaptureLimit = 180 * time.Second

// Options configures an Engine
type Options struct {
	FFmpegPath   string
	FFprobePath  string
	CaptureLimit time.Duration
	TempDir      string
	Logger       *slog.Logger
}

// Engine compresses media assets
type Engine struct {
	ffmpeg       string
	ffprobe      string
	captureLimit time.Duration
	tempDir      string
	logger       *slog.Logger

	encodersMu sync.Mutex
	encoders   map[string]bool // nil until a listing succeeds
}

// NewEngine creates a compression engine
func NewEngine(opts Options) *Engine {
	e := &Engine{
		ffmpeg:       opts.FFmpegPath,
		ffprobe:      opts.FFprobePath,
		captureLimit: opts.CaptureLimit,
		tempDir:      opts.TempDir,
		logger:       opts.Logger,
	}
	if e.ffmpeg == "" {
		e.ffmpeg = "ffmpeg"
	}
	if e.ffprobe == "" {
		e.ffprobe = "ffprobe"
	}
	if e.captureLimit <= 0 {
		e.captureLimit = DefaultCaptureLimit
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Compress returns a new asset with asset's content resized and re-encoded
// per p. Assets that are neither image nor video come back unchanged.
// Failures match domain.ErrCompressionFailed; the input is never modified.
// The caller owns the result and must Cleanup it after uploading.
func (e *Engine) Compress(ctx context.Context, asset *domain.MediaAsset, p Profile) (*domain.MediaAsset, error) {
	if asset == nil {
		return nil, fmt.Errorf("compress: nil asset")
	}

	start := time.Now()
	var (
		out *domain.MediaAsset
		err error
	)
	switch asset.Kind {
	case domain.MediaImage:
		out, err = e.compressImage(ctx, asset, p)
	case domain.MediaVideo:
		out, err = e.compressVideo(ctx, asset, p)
	default:
		return asset, nil
	}
	if err != nil {
		e.logger.Error("compression failed", "file", asset.Name, "error", err)
		return nil, err
	}

	e.logger.Info("compressed media",
		"file", asset.Name,
		"output", out.Name,
		"before", asset.Size,
		"after", out.Size,
		"elapsed", time.Since(start),
	)
	return out, nil
}

// ProfileFor returns the default profile for a kind
func ProfileFor(kind domain.MediaKind) Profile {
	if kind == domain.MediaVideo {
		return DefaultVideoProfile
	}
	return DefaultImageProfile
}

func (e *Engine) tempFile(name string) (*os.File, error) {
	ext := filepath.Ext(name)
	pattern := "pitchside-*" + strings.ToLower(ext)
	return os.CreateTemp(e.tempDir, pattern)
}

func (e *Engine) tempAsset(kind domain.MediaKind, name, path, mime string) (*domain.MediaAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		os.Remove(path)
		return nil, fail(StageEncode, name, err)
	}
	return domain.NewTempAsset(kind, name, path, mime, info.Size(), func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}), nil
}
