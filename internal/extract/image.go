package extract

import (
	"bytes"
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DecodeImage turns raster bytes into an in-memory bitmap normalized to
// RGBA. Images are never OCR'd here; the decoded bitmap travels to the
// model as a multimodal attachment. A decode failure means no attachment.
func DecodeImage(data []byte) (*image.RGBA, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, true
}
