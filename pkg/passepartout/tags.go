package passepartout

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

// TagReader extracts per-tag metadata for an image.
type TagReader interface {
	ReadTags(path string, raw []byte) Metadata
}

const exifIFDPointer = 0x8769

// tagNames is the standard EXIF table; unknown ids keep their numeric key.
var tagNames = map[uint16]string{
	0x010E: "ImageDescription",
	0x010F: "Make",
	0x0110: "Model",
	0x0112: "Orientation",
	0x011A: "XResolution",
	0x011B: "YResolution",
	0x0128: "ResolutionUnit",
	0x0131: "Software",
	0x0132: "DateTime",
	0x013B: "Artist",
	0x0213: "YCbCrPositioning",
	0x8298: "Copyright",
	0x829A: "ExposureTime",
	0x829D: "FNumber",
	0x8769: "ExifOffset",
	0x8822: "ExposureProgram",
	0x8825: "GPSInfo",
	0x8827: "ISOSpeedRatings",
	0x8830: "SensitivityType",
	0x9000: "ExifVersion",
	0x9003: "DateTimeOriginal",
	0x9004: "DateTimeDigitized",
	0x9010: "OffsetTime",
	0x9011: "OffsetTimeOriginal",
	0x9101: "ComponentsConfiguration",
	0x9201: "ShutterSpeedValue",
	0x9202: "ApertureValue",
	0x9203: "BrightnessValue",
	0x9204: "ExposureBiasValue",
	0x9205: "MaxApertureValue",
	0x9207: "MeteringMode",
	0x9208: "LightSource",
	0x9209: "Flash",
	0x920A: "FocalLength",
	0x927C: "MakerNote",
	0x9286: "UserComment",
	0x9290: "SubsecTime",
	0x9291: "SubsecTimeOriginal",
	0x9292: "SubsecTimeDigitized",
	0xA000: "FlashPixVersion",
	0xA001: "ColorSpace",
	0xA002: "ExifImageWidth",
	0xA003: "ExifImageHeight",
	0xA005: "ExifInteroperabilityOffset",
	0xA217: "SensingMethod",
	0xA300: "FileSource",
	0xA301: "SceneType",
	0xA401: "CustomRendered",
	0xA402: "ExposureMode",
	0xA403: "WhiteBalance",
	0xA404: "DigitalZoomRatio",
	0xA405: "FocalLengthIn35mmFilm",
	0xA406: "SceneCaptureType",
	0xA408: "Contrast",
	0xA409: "Saturation",
	0xA40A: "Sharpness",
	0xA431: "BodySerialNumber",
	0xA432: "LensSpecification",
	0xA433: "LensMake",
	0xA434: "LensModel",
	0xA435: "LensSerialNumber",
}

// tagName resolves an id through tagNames.
func tagName(id uint16) string {
	if n, ok := tagNames[id]; ok {
		return n
	}
	return strconv.Itoa(int(id))
}

// ExifReader parses tags from the raw EXIF block.
type ExifReader struct{}

// ReadTags implements TagReader. It never fails: images without usable tag
// metadata produce an empty map.
func (ExifReader) ReadTags(_ string, raw []byte) Metadata {
	return ParseTags(raw)
}

// ParseTags decodes IFD0 and the Exif sub-IFD of a raw metadata block.
func ParseTags(raw []byte) Metadata {
	md := Metadata{}
	if !hasTags(raw) {
		klog.Warningf("metadata block exposes no tags, captions will be empty")
		return md
	}

	body := raw[len(exifHeader):]
	x, err := exif.Decode(bytes.NewReader(body))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		klog.Warningf("unable to decode tags: %v", err)
		return md
	}
	if err != nil {
		klog.V(1).Infof("partial tag decode: %v", err)
	}

	if len(x.Tiff.Dirs) > 0 {
		loadDir(md, x.Tiff.Dirs[0])
	}

	ptr, err := x.Get(exif.ExifIFDPointer)
	if err != nil {
		klog.V(1).Infof("no Exif sub-IFD: %v", err)
		return md
	}
	off, err := ptr.Int64(0)
	if err != nil {
		klog.V(1).Infof("bad Exif sub-IFD pointer: %v", err)
		return md
	}

	r := bytes.NewReader(body)
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		klog.V(1).Infof("seek Exif sub-IFD: %v", err)
		return md
	}
	sub, _, err := tiff.DecodeDir(r, x.Tiff.Order)
	if err != nil {
		klog.Warningf("decode Exif sub-IFD: %v", err)
		return md
	}
	loadDir(md, sub)

	for k, v := range md {
		klog.V(2).Infof("%q=%v", k, v)
	}
	return md
}

// hasTags reports whether raw carries a TIFF structure after the Exif header.
func hasTags(raw []byte) bool {
	if len(raw) < len(exifHeader)+8 || !bytes.HasPrefix(raw, exifHeader) {
		return false
	}
	order := string(raw[len(exifHeader) : len(exifHeader)+4])
	return order == "II*\x00" || order == "MM\x00*"
}

func loadDir(md Metadata, d *tiff.Dir) {
	for _, t := range d.Tags {
		if t.Id == exifIFDPointer {
			continue
		}
		v, err := tagValue(t)
		if err != nil {
			klog.V(1).Infof("skipping tag 0x%04x: %v", t.Id, err)
			continue
		}
		md[tagName(t.Id)] = v
	}
}

// tagValue converts a TIFF tag to a Value. Multi-valued numeric tags are kept as text.
func tagValue(t *tiff.Tag) (Value, error) {
	switch t.Format() {
	case tiff.StringVal:
		// only the terminating NUL is dropped; padding stays for the caption code to handle
		return TextValue(strings.TrimSuffix(string(t.Val), "\x00")), nil
	case tiff.UndefVal:
		return TextValue(string(t.Val)), nil
	case tiff.IntVal:
		if t.Count == 1 {
			i, err := t.Int64(0)
			if err != nil {
				return Value{}, err
			}
			return IntValue(i), nil
		}
	case tiff.RatVal:
		if t.Count == 1 {
			num, den, err := t.Rat2(0)
			if err != nil {
				return Value{}, err
			}
			return RationalValue(num, den), nil
		}
	case tiff.FloatVal:
		if t.Count == 1 {
			f, err := t.Float(0)
			if err != nil {
				return Value{}, err
			}
			return rationalFromFloat(f), nil
		}
	default:
		return Value{}, fmt.Errorf("unhandled format %v", t.Format())
	}
	return TextValue(t.String()), nil
}
