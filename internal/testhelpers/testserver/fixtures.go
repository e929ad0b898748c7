package testserver

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Минимальные валидные файлы для сниффинга mimetype
var (
	PDFDocument = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	PNGImage    = SolidPNG(4, 4)
)

// SolidPNG кодирует однотонную картинку заданного размера
func SolidPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 60, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
