package passepartout

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Frame returns a white canvas of (w+2*margin, h+2*margin+footer) with img
// placed at (margin, margin). Pixels are copied, never resampled.
func Frame(img image.Image, margin, footer int) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+2*margin, b.Dy()+2*margin+footer, color.White)
	return imaging.Paste(canvas, img, image.Pt(margin, margin))
}
