package passepartout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/garyhouston/jpegsegs"
	"k8s.io/klog/v2"
)

var (
	// ErrMissingMetadataBlock means the input has no EXIF segment to carry over.
	ErrMissingMetadataBlock = errors.New("no embedded metadata block")
	// ErrUnsupportedFormat means the input could not be decoded.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

const (
	markerSOI  = 0xD8
	markerAPP1 = 0xE1
)

var exifHeader = []byte("Exif\x00\x00")

// ReadRawMetadata returns the payload of the first Exif APP1 segment, header included.
func ReadRawMetadata(b []byte) ([]byte, error) {
	scanner, err := jpegsegs.NewScanner(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("not a JPEG stream: %w: %w", ErrUnsupportedFormat, err)
	}

	for {
		marker, buf, err := scanner.Scan()
		if err != nil {
			klog.V(1).Infof("segment scan stopped: %v", err)
			return nil, ErrMissingMetadataBlock
		}
		switch marker {
		case jpegsegs.SOS, jpegsegs.EOI:
			return nil, ErrMissingMetadataBlock
		case jpegsegs.APP1:
			if bytes.HasPrefix(buf, exifHeader) {
				return bytes.Clone(buf), nil
			}
		}
	}
}

// injectRawMetadata inserts raw as an APP1 segment directly after SOI.
func injectRawMetadata(jpegBytes []byte, raw []byte) ([]byte, error) {
	if len(jpegBytes) < 2 || jpegBytes[0] != 0xFF || jpegBytes[1] != markerSOI {
		return nil, errors.New("encoder did not produce a JPEG stream")
	}
	n := len(raw) + 2
	if n > 0xFFFF {
		return nil, fmt.Errorf("metadata block too large for APP1: %d bytes", len(raw))
	}

	out := make([]byte, 0, len(jpegBytes)+n+2)
	out = append(out, jpegBytes[:2]...)
	out = append(out, 0xFF, markerAPP1)
	out = binary.BigEndian.AppendUint16(out, uint16(n))
	out = append(out, raw...)
	return append(out, jpegBytes[2:]...), nil
}

// exifJPEGEncoder wraps the JPEG encoder so the output carries raw unchanged.
func exifJPEGEncoder(quality int, raw []byte) imgio.Encoder {
	enc := imgio.JPEGEncoder(quality)
	return func(w io.Writer, img image.Image) error {
		var buf bytes.Buffer
		if err := enc(&buf, img); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		out, err := injectRawMetadata(buf.Bytes(), raw)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
}
