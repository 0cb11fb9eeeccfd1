package passepartout

import (
	"image"

	"github.com/disintegration/imaging"
	"k8s.io/klog/v2"
)

// Orientation is the EXIF orientation tag.
type Orientation int

const (
	OrientationNormal Orientation = 1
	// OrientationRotateCW is stored sideways; turning it 90° clockwise makes it upright.
	OrientationRotateCW Orientation = 6
	// OrientationRotateCCW is stored sideways; turning it 90° counter-clockwise makes it upright.
	OrientationRotateCCW Orientation = 8
)

// Upright rotates img so that it displays upright.
// Mirrored and 180° orientations are unsupported and left as stored.
func Upright(img image.Image, o Orientation) image.Image {
	switch o {
	case OrientationRotateCW:
		return imaging.Rotate270(img)
	case OrientationRotateCCW:
		return imaging.Rotate90(img)
	case OrientationNormal, 0:
		return img
	}
	klog.V(1).Infof("orientation %d is unsupported, leaving pixels as stored", o)
	return img
}

// Restore undoes Upright, so the pixels match the untouched orientation tag again.
func Restore(img image.Image, o Orientation) image.Image {
	switch o {
	case OrientationRotateCW:
		return imaging.Rotate90(img)
	case OrientationRotateCCW:
		return imaging.Rotate270(img)
	}
	return img
}
