package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// maxPixels - защита от "бомб": картинка 100000x100000 весит пару килобайт в PNG
const maxPixels = 60_000_000

var ErrInvalidImage = errors.New("invalid image")

// Processor проверяет сканы документов и ужимает слишком большие
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int // 0 - без уменьшения
}

// Result - нормализованное изображение
type Result struct {
	Content []byte
	Format  string // png, jpeg
	Width   int
	Height  int
	Resized bool
}

func NewProcessor(quality, maxDimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxDimension < 0 {
		maxDimension = 0
	}
	return &Processor{quality: quality, maxDimension: maxDimension}
}

// Normalize декодирует изображение целиком (битый файл - ErrInvalidImage) и, если
// длинная сторона больше maxDimension, уменьшает его с сохранением пропорций.
// Формат не меняется.
func (p *Processor) Normalize(reader io.Reader) (*Result, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: unsupported dimensions %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	result := &Result{Content: raw, Format: format, Width: cfg.Width, Height: cfg.Height}
	if p.maxDimension == 0 || (cfg.Width <= p.maxDimension && cfg.Height <= p.maxDimension) {
		return result, nil
	}

	resized := p.resize(img, p.maxDimension, p.maxDimension)
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalidImage, format)
	}

	bounds := resized.Bounds()
	result.Content = buf.Bytes()
	result.Width, result.Height = bounds.Dx(), bounds.Dy()
	result.Resized = true
	return result, nil
}

// resize вписывает изображение в maxWidth x maxHeight с сохранением пропорций
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	newWidth = max(newWidth, 1)
	newHeight = max(newHeight, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
