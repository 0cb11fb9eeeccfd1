package passepartout

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// Fit scales img down so it fits within maxWidth x maxHeight, keeping its
// aspect ratio. Images that already fit are returned as is.
func Fit(img image.Image, maxWidth, maxHeight int) (image.Image, error) {
	b := img.Bounds()
	if b.Dy() == 0 {
		return nil, fmt.Errorf("no Y for %+v", b)
	}
	if b.Dx() == 0 {
		return nil, fmt.Errorf("no X for %+v", b)
	}

	scale := math.Min(float64(maxWidth)/float64(b.Dx()), float64(maxHeight)/float64(b.Dy()))
	if scale >= 1 {
		klog.V(1).Infof("%dx%d already fits %dx%d", b.Dx(), b.Dy(), maxWidth, maxHeight)
		return img, nil
	}

	x := min(max(int(math.Round(float64(b.Dx())*scale)), 1), maxWidth)
	y := min(max(int(math.Round(float64(b.Dy())*scale)), 1), maxHeight)
	klog.V(1).Infof("resizing %dx%d -> %dx%d", b.Dx(), b.Dy(), x, y)
	return transform.Resize(img, x, y, transform.Lanczos), nil
}
