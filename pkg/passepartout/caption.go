package passepartout

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const notAvailable = "N/A"

// Field is one labelled caption line.
type Field struct {
	Label string
	Value string
}

// ShutterSpeed formats an exposure time: fractions of a second as "1/Ns",
// longer exposures as "Ns". Exactly one second keeps the raw value.
func ShutterSpeed(v Value) string {
	if f, ok := v.Float(); ok && f > 0 && f < 1.0 {
		return fmt.Sprintf("1/%ds", int64(math.Round(1/f)))
	}
	return v.String() + "s"
}

// CaptureParams returns the exposure fields present in md, in caption order.
func CaptureParams(md Metadata) []Field {
	var fs []Field
	if v, ok := md.Get("ExposureTime"); ok {
		fs = append(fs, Field{"shutter", ShutterSpeed(v)})
	}
	if v, ok := md.Get("FNumber"); ok {
		fs = append(fs, Field{"aperture", "F" + v.String()})
	}
	if v, ok := md.Get("ISOSpeedRatings"); ok {
		fs = append(fs, Field{"iso", v.String()})
	}
	if v, ok := md.Get("FocalLength"); ok {
		fs = append(fs, Field{"focal length", v.String() + "mm"})
	}
	return fs
}

// FormatTimestamp turns "2023:08:15 10:30:00" into "2023/08/15 10:30:00".
func FormatTimestamp(v Value) string {
	if !v.Present() {
		return notAvailable
	}
	return strings.Replace(v.String(), ":", "/", 2)
}

// DeviceInfo returns the camera and lens fields, "N/A" when missing.
func DeviceInfo(md Metadata) []Field {
	return []Field{
		{"camera make", orNotAvailable(md.Lookup("Make"))},
		{"camera model", orNotAvailable(md.Lookup("Model"))},
		{"lens make", trimPrintable(orNotAvailable(md.Lookup("LensMake")))},
		{"lens model", trimPrintable(orNotAvailable(md.Lookup("LensModel")))},
	}
}

func orNotAvailable(v Value) string {
	if !v.Present() {
		return notAvailable
	}
	return v.String()
}

// trimPrintable cuts s at its first non-printable rune.
// Lens strings are often padded with NULs or garbage.
func trimPrintable(s string) string {
	for i, r := range s {
		if !unicode.IsPrint(r) {
			return s[:i]
		}
	}
	return s
}

// AlignFields lays fields out as "label  value" lines with the values
// right-justified to a common column. It returns the text and the widest
// label+value length.
func AlignFields(fs []Field) (string, int) {
	width := 0
	for _, f := range fs {
		width = max(width, fieldLen(f))
	}

	var sb strings.Builder
	for _, f := range fs {
		fmt.Fprintf(&sb, "%s  %s%s\n", f.Label, strings.Repeat(" ", width-fieldLen(f)), f.Value)
	}
	return sb.String(), width
}

func fieldLen(f Field) int {
	return utf8.RuneCountInString(f.Label) + utf8.RuneCountInString(f.Value)
}

// CaptureText is the left footer block: exposure fields, a blank line and the date.
func CaptureText(md Metadata) string {
	text, _ := AlignFields(CaptureParams(md))
	return text + "\ndate " + FormatTimestamp(md.Lookup("DateTimeOriginal")) + "\n"
}

// DeviceText is the right footer block, and its widest line length.
func DeviceText(md Metadata) (string, int) {
	return AlignFields(DeviceInfo(md))
}

// FontSize derives the caption size from the canvas.
func FontSize(w, h int) int {
	return min(w, h) / 75
}
