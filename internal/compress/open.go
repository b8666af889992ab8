package compress

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pharaohs/pitchside/internal/domain"
)

// Open inspects a local file and returns it as an upload asset.
// The MIME type is sniffed from content, not the file name.
func Open(path string) (*domain.MediaAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open media: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open media: %s is a directory", path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect media type: %w", err)
	}
	mime := BaseMIME(mt.String())

	return &domain.MediaAsset{
		Kind:     domain.KindOf(mime),
		Name:     filepath.Base(path),
		Path:     path,
		MimeType: mime,
		Size:     info.Size(),
	}, nil
}
