package passepartout

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// testTag is a raw IFD entry for building EXIF fixtures.
type testTag struct {
	id    uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiTag(id uint16, s string) testTag {
	d := append([]byte(s), 0)
	return testTag{id: id, typ: 2, count: uint32(len(d)), data: d}
}

func shortTag(id uint16, v uint16) testTag {
	return testTag{id: id, typ: 3, count: 1, data: binary.BigEndian.AppendUint16(nil, v)}
}

func longTag(id uint16, v uint32) testTag {
	return testTag{id: id, typ: 4, count: 1, data: binary.BigEndian.AppendUint32(nil, v)}
}

func ratTag(id uint16, num, den uint32) testTag {
	d := binary.BigEndian.AppendUint32(nil, num)
	return testTag{id: id, typ: 5, count: 1, data: binary.BigEndian.AppendUint32(d, den)}
}

func doubleTag(id uint16, v float64) testTag {
	return testTag{id: id, typ: 12, count: 1, data: binary.BigEndian.AppendUint64(nil, math.Float64bits(v))}
}

func ifdSize(tags []testTag) int {
	n := 2 + 12*len(tags) + 4
	for _, t := range tags {
		if len(t.data) > 4 {
			n += len(t.data) + len(t.data)%2
		}
	}
	return n
}

func appendIFD(out []byte, start int, tags []testTag) []byte {
	dataOff := start + 2 + 12*len(tags) + 4
	var data []byte

	out = binary.BigEndian.AppendUint16(out, uint16(len(tags)))
	for _, t := range tags {
		out = binary.BigEndian.AppendUint16(out, t.id)
		out = binary.BigEndian.AppendUint16(out, t.typ)
		out = binary.BigEndian.AppendUint32(out, t.count)
		if len(t.data) <= 4 {
			v := make([]byte, 4)
			copy(v, t.data)
			out = append(out, v...)
			continue
		}
		out = binary.BigEndian.AppendUint32(out, uint32(dataOff+len(data)))
		data = append(data, t.data...)
		if len(t.data)%2 == 1 {
			data = append(data, 0)
		}
	}
	out = binary.BigEndian.AppendUint32(out, 0)
	return append(out, data...)
}

// buildExif returns an APP1 payload ("Exif\0\0" + big-endian TIFF) with the
// given IFD0 tags and, when sub is non-empty, an Exif sub-IFD.
func buildExif(ifd0 []testTag, sub []testTag) []byte {
	if len(sub) > 0 {
		ifd0 = append(append([]testTag{}, ifd0...), longTag(exifIFDPointer, 0))
		ifd0[len(ifd0)-1] = longTag(exifIFDPointer, uint32(8+ifdSize(ifd0)))
	}

	out := append([]byte{}, exifHeader...)
	tiff := []byte{'M', 'M', 0, 42, 0, 0, 0, 8}
	tiff = appendIFD(tiff, 8, ifd0)
	if len(sub) > 0 {
		tiff = appendIFD(tiff, len(tiff), sub)
	}
	return append(out, tiff...)
}

// cameraExif is a typical camera block: rotated 90° clockwise, 1/250s at f/2.8.
func cameraExif(orientation uint16) []byte {
	return buildExif(
		[]testTag{
			asciiTag(0x010F, "NIKON CORPORATION"),
			asciiTag(0x0110, "NIKON Z 6"),
			shortTag(0x0112, orientation),
		},
		[]testTag{
			ratTag(0x829A, 1, 250),
			ratTag(0x829D, 28, 10),
			shortTag(0x8827, 400),
			asciiTag(0x9003, "2023:08:15 10:30:00"),
			ratTag(0x920A, 50, 1),
			asciiTag(0xA433, "Nikon"),
			asciiTag(0xA434, "NIKKOR 50mm\x00"),
			shortTag(0xC4A5, 7),
		},
	)
}

// gradient returns a w x h image whose pixels are all distinct.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), uint8(x + y), 0xFF})
		}
	}
	return img
}

// jpegWithExif encodes img as a JPEG carrying raw as its APP1 segment.
func jpegWithExif(t *testing.T, img image.Image, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if raw == nil {
		return buf.Bytes()
	}
	bs, err := injectRawMetadata(buf.Bytes(), raw)
	if err != nil {
		t.Fatalf("inject: %v", err)
	}
	return bs
}

func writeFile(t *testing.T, path string, bs []byte) {
	t.Helper()
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// testLogo is 20x10: the left half black (transparent), the right half red.
func testLogo() *image.NRGBA {
	logo := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.NRGBA{0, 0, 0, 0xFF}
			if x >= 10 {
				c = color.NRGBA{0xFF, 0, 0, 0xFF}
			}
			logo.Set(x, y, c)
		}
	}
	return logo
}

// testConfig writes a logo to dir and returns a config using the bitmap face.
func testConfig(t *testing.T, dir string) *Config {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testLogo()); err != nil {
		t.Fatalf("encode logo: %v", err)
	}
	logo := filepath.Join(dir, "logo.png")
	writeFile(t, logo, buf.Bytes())

	c := DefaultConfig()
	c.LogoPath = logo
	c.FontPath = ""
	return c
}
