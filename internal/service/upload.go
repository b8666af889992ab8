package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pharaohs/pitchside/internal/compress"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"go.uber.org/multierr"
)

// DefaultVideoBypassBytes is the size above which videos upload uncompressed
const DefaultVideoBypassBytes = 10 * 1024 * 1024

// Compressor shrinks a media asset
type Compressor interface {
	Compress(ctx context.Context, asset *domain.MediaAsset, p compress.Profile) (*domain.MediaAsset, error)
}

// Uploader publishes posts and prepares avatars, compressing media first
type Uploader interface {
	Upload(ctx context.Context, path, description string) (string, error)
	PrepareAvatar(ctx context.Context, path string) (*domain.MediaAsset, error)
}

// UploadOptions tunes an UploadService
type UploadOptions struct {
	VideoBypassBytes int64
	ImageProfile     compress.Profile
	VideoProfile     compress.Profile
	AvatarProfile    compress.Profile
}

// UploadService runs the compress-then-upload flow
type UploadService struct {
	repo       domain.PlayerRepository
	compressor Compressor
	session    Session
	notices    notice.Publisher
	logger     *slog.Logger
	opts       UploadOptions
}

var _ Uploader = (*UploadService)(nil)

// NewUploadService creates an upload service. Zero profiles take the defaults.
func NewUploadService(repo domain.PlayerRepository, compressor Compressor, sess Session, notices notice.Publisher, opts UploadOptions, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.VideoBypassBytes <= 0 {
		opts.VideoBypassBytes = DefaultVideoBypassBytes
	}
	if opts.ImageProfile.TargetMIME == "" {
		opts.ImageProfile = compress.DefaultImageProfile
	}
	if opts.VideoProfile.TargetMIME == "" {
		opts.VideoProfile = compress.DefaultVideoProfile
	}
	if opts.AvatarProfile.TargetMIME == "" {
		opts.AvatarProfile = compress.AvatarProfile
	}
	return &UploadService{
		repo:       repo,
		compressor: compressor,
		session:    sess,
		notices:    noticesOrDiscard(notices),
		logger:     logger,
		opts:       opts,
	}
}

// Prepare returns the asset to upload: compressed when possible, otherwise
// the original. Large videos skip compression. It never fails; the caller
// must Cleanup the result.
func (s *UploadService) Prepare(ctx context.Context, asset *domain.MediaAsset, p compress.Profile) *domain.MediaAsset {
	switch asset.Kind {
	case domain.MediaImage:
	case domain.MediaVideo:
		if asset.Size > s.opts.VideoBypassBytes {
			s.logger.Info("large video, skipping compression", "file", asset.Name, "size", asset.Size)
			return asset
		}
	default:
		return asset
	}

	if s.compressor == nil {
		return asset
	}
	out, err := s.compressor.Compress(ctx, asset, p)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("compression failed, uploading original", "file", asset.Name, "error", err)
			publish(s.notices, notice.LevelInfo, "Could not optimize "+asset.Name+"; uploading the original file.")
		}
		return asset
	}
	return out
}

// Upload compresses the file at path and publishes it as a post
func (s *UploadService) Upload(ctx context.Context, path, description string) (url string, err error) {
	if err := guard(s.session, "upload", "Only players can upload media.", domain.RolePlayer); err != nil {
		return "", refuse(s.notices, notice.LevelWarning, err)
	}

	asset, err := compress.Open(path)
	if err != nil {
		return "", err
	}

	profile := s.opts.ImageProfile
	if asset.Kind == domain.MediaVideo {
		profile = s.opts.VideoProfile
	}
	prepared := s.Prepare(ctx, asset, profile)
	defer func() {
		if prepared != asset {
			err = multierr.Append(err, prepared.Cleanup())
		}
	}()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	mediaType := domain.MediaTypeImage
	if prepared.Kind == domain.MediaVideo {
		mediaType = domain.MediaTypeVideo
	} else if prepared.Kind == domain.MediaOther {
		mediaType = domain.InferMediaType(prepared.Name)
	}

	url, err = s.repo.Upload(ctx, domain.UploadRequest{
		Asset:       prepared,
		Type:        mediaType,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("media uploaded", "file", prepared.Name, "size", prepared.Size, "url", url)
	publish(s.notices, notice.LevelSuccess, "Media uploaded successfully!")
	return url, nil
}

// ErrNotAnImage means an avatar file is not an image
var ErrNotAnImage = errors.New("profile picture must be an image")

// PrepareAvatar opens and shrinks a profile picture. The caller must
// Cleanup the result after the profile update.
func (s *UploadService) PrepareAvatar(ctx context.Context, path string) (*domain.MediaAsset, error) {
	asset, err := compress.Open(path)
	if err != nil {
		return nil, err
	}
	if asset.Kind != domain.MediaImage {
		return nil, refuse(s.notices, notice.LevelWarning, ErrNotAnImage)
	}
	return s.Prepare(ctx, asset, s.opts.AvatarProfile), nil
}
