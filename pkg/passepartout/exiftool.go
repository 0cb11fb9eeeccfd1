package passepartout

import (
	"fmt"
	"math"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// exiftoolAliases maps exiftool field names onto the standard tag names.
var exiftoolAliases = map[string]string{
	"ISO": "ISOSpeedRatings",
}

// rationalTags are stored as RATIONAL in EXIF; exiftool reports them as plain numbers.
var rationalTags = map[string]bool{
	"ExposureTime":         true,
	"FNumber":              true,
	"FocalLength":          true,
	"ApertureValue":        true,
	"MaxApertureValue":     true,
	"ExposureCompensation": true,
	"XResolution":          true,
	"YResolution":          true,
}

// ExiftoolReader reads tags through a long-running exiftool process.
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

// NewExiftoolReader starts exiftool in numeric (-n) mode.
func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool(exiftool.NoPrintConversion())
	if err != nil {
		return nil, err
	}
	return &ExiftoolReader{et: et}, nil
}

// Close stops the exiftool process.
func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}

// ReadTags implements TagReader. Extraction failures produce an empty map.
func (r *ExiftoolReader) ReadTags(path string, _ []byte) Metadata {
	md := Metadata{}
	fis := r.et.ExtractMetadata(path)
	if len(fis) == 0 {
		klog.Warningf("exiftool returned nothing for %s", path)
		return md
	}
	fi := fis[0]
	if fi.Err != nil {
		klog.Warningf("extract fail for %q: %v", path, fi.Err)
		return md
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
		name := k
		if a, ok := exiftoolAliases[k]; ok {
			name = a
		}
		md[name] = exiftoolValue(name, v)
	}
	return md
}

// exiftoolValue converts a decoded JSON field into a Value.
func exiftoolValue(name string, v interface{}) Value {
	switch t := v.(type) {
	case float64:
		if rationalTags[name] {
			return rationalFromFloat(t)
		}
		if t == math.Trunc(t) {
			return IntValue(int64(t))
		}
		return rationalFromFloat(t)
	case string:
		return TextValue(t)
	}
	return TextValue(fmt.Sprint(v))
}

// rationalFromFloat finds the smallest power-of-ten denominator representing f.
func rationalFromFloat(f float64) Value {
	den := int64(1)
	for den < 1e9 {
		n := f * float64(den)
		if math.Abs(n-math.Round(n)) < 1e-9*float64(den) {
			break
		}
		den *= 10
	}
	return RationalValue(int64(math.Round(f*float64(den))), den)
}
