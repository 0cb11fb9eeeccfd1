package passepartout

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// LoadLogo opens the overlay image.
func LoadLogo(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open logo: %w", err)
	}
	return img, nil
}

// opaque copies logo to the origin with its alpha channel dropped.
func opaque(logo image.Image) *image.NRGBA {
	n := imaging.Clone(logo)
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xFF
	}
	return n
}

// LogoMask is opaque wherever the logo's luminance is above zero. Alpha is
// ignored, so a transparent pixel counts by its color alone.
func LogoMask(logo image.Image) *image.Alpha {
	g := segment.Threshold(opaque(logo), 1)
	return &image.Alpha{Pix: g.Pix, Stride: g.Stride, Rect: g.Rect}
}

// OverlayLogo pastes logo centered on the bottom edge of canvas. Canvas
// pixels under the dark parts of the logo are left alone.
func OverlayLogo(canvas draw.Image, logo image.Image) {
	cb := canvas.Bounds()
	src := opaque(logo)
	sb := src.Bounds()
	x := floorDiv(cb.Dx()-sb.Dx(), 2)
	y := cb.Dy() - sb.Dy()

	r := image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Add(cb.Min)
	draw.DrawMask(canvas, r, src, sb.Min, LogoMask(src), sb.Min, draw.Over)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
