package compress

import (
	"context"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/gen2brain/webp"
	"github.com/pharaohs/pitchside/internal/domain"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imageEncoders lists the output formats that can be written in process
var imageEncoders = map[string]func(w io.Writer, img image.Image, quality int) error{
	"image/jpeg": func(w io.Writer, img image.Image, quality int) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)})
	},
	"image/png": func(w io.Writer, img image.Image, quality int) error {
		level := png.DefaultCompression
		if quality < 50 {
			level = png.BestCompression
		}
		enc := png.Encoder{CompressionLevel: level}
		return enc.Encode(w, img)
	},
	"image/webp": func(w io.Writer, img image.Image, quality int) error {
		return webp.Encode(w, img, webp.Options{Quality: clampQuality(quality)})
	},
}

const imageFallbackMIME = "image/jpeg"

// outputImageMIME resolves the target to a format with an encoder. Targets
// nothing can write, such as image/avif, fall back to JPEG.
func outputImageMIME(target string) (mime string, substituted bool) {
	target = BaseMIME(target)
	if _, ok := imageEncoders[target]; ok {
		return target, false
	}
	return imageFallbackMIME, true
}

func (e *Engine) compressImage(ctx context.Context, asset *domain.MediaAsset, p Profile) (*domain.MediaAsset, error) {
	f, err := os.Open(asset.Path)
	if err != nil {
		return nil, fail(StageOpen, asset.Name, err)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fail(StageDecode, asset.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mime, substituted := outputImageMIME(p.TargetMIME)
	if substituted {
		e.logger.Warn("no encoder for target image type, substituting",
			"target", p.TargetMIME, "using", mime, "file", asset.Name)
	}

	b := src.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), p.MaxWidth, p.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	op := draw.Src
	if mime == "image/jpeg" {
		// JPEG has no alpha; flatten onto white.
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		op = draw.Over
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, op, nil)

	name := ChangeExtension(asset.Name, mime)
	out, err := e.tempFile(name)
	if err != nil {
		return nil, fail(StageEncode, asset.Name, err)
	}

	if err := imageEncoders[mime](out, dst, p.Quality); err != nil {
		out.Close()
		os.Remove(out.Name())
		return nil, fail(StageEncode, asset.Name, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return nil, fail(StageEncode, asset.Name, err)
	}

	return e.tempAsset(domain.MediaImage, name, out.Name(), mime)
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}
