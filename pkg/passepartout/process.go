package passepartout

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/font/opentype"
	"k8s.io/klog/v2"
)

// Processor frames single images. The logo and font are loaded once and
// shared read-only across Process calls.
type Processor struct {
	c    *Config
	logo image.Image
	font *opentype.Font
	tags TagReader
}

// NewProcessor loads the logo, the font and the tag reader named by c.
func NewProcessor(c *Config) (*Processor, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logo, err := LoadLogo(c.LogoPath)
	if err != nil {
		return nil, err
	}

	p := &Processor{c: c, logo: logo, tags: ExifReader{}}

	if c.FontPath != "" {
		p.font, err = LoadFont(c.FontPath)
		if err != nil {
			return nil, err
		}
	} else {
		klog.Warningf("no font configured, captions use the built-in bitmap face")
	}

	if c.Exiftool {
		p.tags, err = NewExiftoolReader()
		if err != nil {
			return nil, fmt.Errorf("exiftool: %w", err)
		}
	}

	return p, nil
}

// Close releases the tag reader.
func (p *Processor) Close() error {
	if cl, ok := p.tags.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Process frames inPath and writes the result to outPath. The output carries
// the input's metadata block byte for byte.
func (p *Processor) Process(inPath string, outPath string) error {
	klog.Infof("processing %s -> %s", inPath, outPath)

	bs, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("decode %s: %w: %w", inPath, ErrUnsupportedFormat, err)
	}
	klog.V(1).Infof("decoded %s image: %+v", format, img.Bounds())

	raw, err := ReadRawMetadata(bs)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	md := p.tags.ReadTags(inPath, raw)

	out, err := p.Render(img, md)
	if err != nil {
		return fmt.Errorf("render %s: %w", inPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := imgio.Save(outPath, out, exifJPEGEncoder(p.c.Quality, raw)); err != nil {
		klog.Errorf("save failed: %v", err)
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Render runs the pixel pipeline: upright, frame, logo, captions, fit, and
// back to the stored orientation.
func (p *Processor) Render(img image.Image, md Metadata) (image.Image, error) {
	o := md.Orientation()
	canvas := Frame(Upright(img, o), p.c.Margin, FooterHeight)
	klog.V(1).Infof("canvas: %+v (orientation %d)", canvas.Bounds(), o)

	OverlayLogo(canvas, p.logo)

	if err := Annotate(canvas, md, p.c.Margin, FooterHeight, p.font); err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	fit, err := Fit(canvas, p.c.MaxWidth, p.c.MaxHeight)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	return Restore(fit, o), nil
}
