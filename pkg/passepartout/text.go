package passepartout

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"k8s.io/klog/v2"
)

// lineSpacing is the gap in pixels between caption lines.
const lineSpacing = 4

// LoadFont parses a TrueType or OpenType font file.
func LoadFont(path string) (*opentype.Font, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(bs)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// newFace returns a face of size pixels, or the fixed bitmap face when f is nil.
func newFace(f *opentype.Font, size int) (font.Face, error) {
	if f == nil {
		return basicfont.Face7x13, nil
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(max(size, 1)),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawText draws multi-line text in black with the top of the first line at (x, y).
func drawText(dst draw.Image, face font.Face, x, y int, text string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	m := face.Metrics()
	lh := m.Height.Ceil() + lineSpacing
	for i, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if line == "" {
			continue
		}
		d.Dot = fixed.P(x, y+m.Ascent.Ceil()+i*lh)
		d.DrawString(line)
	}
}

// Annotate draws the capture block on the left and the device block on the
// right of the footer band.
func Annotate(canvas draw.Image, md Metadata, margin, footer int, f *opentype.Font) error {
	b := canvas.Bounds()
	size := FontSize(b.Dx(), b.Dy())
	face, err := newFace(f, size)
	if err != nil {
		return fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	capture := CaptureText(md)
	device, width := DeviceText(md)
	left, right := blockAnchors(b.Dx(), b.Dy(), margin, footer, size, width)

	klog.V(1).Infof("capture block at %v, size %d:\n%s", left, size, capture)
	drawText(canvas, face, b.Min.X+left.X, b.Min.Y+left.Y, capture)
	klog.V(1).Infof("device block at %v:\n%s", right, device)
	drawText(canvas, face, b.Min.X+right.X, b.Min.Y+right.Y, device)
	return nil
}

// blockAnchors returns the top-left corners of the capture and device blocks
// on a w x h canvas. width is the longest device line in characters.
func blockAnchors(w, h, margin, footer, size, width int) (image.Point, image.Point) {
	top := h - footer
	x := int(math.Floor(float64(w) - float64(width*size)*0.7 - float64(margin)))
	return image.Pt(2*margin, top), image.Pt(x, top)
}
