package passepartout

import (
	"image"
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
	}{
		{4100, 3900, 2000, 2000},
		{300, 100, 150, 150},
		{100, 300, 150, 120},
		{64, 48, 2000, 2000},
		{64, 48, 64, 48},
	}
	for _, tc := range tests {
		img, err := Fit(image.NewNRGBA(image.Rect(0, 0, tc.w, tc.h)), tc.maxW, tc.maxH)
		if err != nil {
			t.Fatalf("Fit(%dx%d): %v", tc.w, tc.h, err)
		}
		b := img.Bounds()
		if b.Dx() > tc.maxW || b.Dy() > tc.maxH {
			t.Errorf("Fit(%dx%d) = %v, exceeds %dx%d", tc.w, tc.h, b.Size(), tc.maxW, tc.maxH)
		}
		if b.Dx() > tc.w || b.Dy() > tc.h {
			t.Errorf("Fit(%dx%d) = %v, upscaled", tc.w, tc.h, b.Size())
		}
		want := float64(tc.w) / float64(tc.h)
		got := float64(b.Dx()) / float64(b.Dy())
		if math.Abs(got-want) > want*0.01 {
			t.Errorf("Fit(%dx%d) = %v, aspect %.4f want %.4f", tc.w, tc.h, b.Size(), got, want)
		}
	}
}

func TestFitEmpty(t *testing.T) {
	if _, err := Fit(image.NewNRGBA(image.Rect(0, 0, 0, 10)), 10, 10); err == nil {
		t.Error("Fit of an empty image succeeded")
	}
}
