// passepartout frames every photo of a directory with a white border, a logo
// and the capture metadata.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/passepartout/pkg/passepartout"
)

var (
	configPath    = flag.String("config", "", "TOML config file; flags override its values")
	margin        = flag.Int("margin", 0, "border in pixels around the photo (default 50)")
	logoPath      = flag.String("logo", "", "overlay image, black is transparent (default logo.jpg)")
	fontPath      = flag.String("font", "", "monospace TrueType font for captions")
	maxWidth      = flag.Int("max-width", 0, "maximum output width (default 2000)")
	maxHeight     = flag.Int("max-height", 0, "maximum output height (default 2000)")
	quality       = flag.Int("quality", 0, "JPEG quality (default 95)")
	ext           = flag.String("ext", "", "case-sensitive input suffix (default .JPG)")
	keepGoing     = flag.Bool("keep-going", false, "log per-image failures and continue")
	useExiftool   = flag.Bool("exiftool", false, "read tags with the exiftool binary")
	keepOriginals = flag.Bool("keep-originals", false, "copy untouched inputs to <out>/originals")
	force         = flag.Bool("force", false, "reprocess images whose output is up to date")
	watchFlag     = flag.Bool("watch", false, "keep running and frame new images as they appear")
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <directory>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		klog.Exitf("expected exactly one directory, got %d arguments", flag.NArg())
	}
	dir := flag.Arg(0)

	c, err := config()
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	b, err := passepartout.NewBatch(c, dir)
	if err != nil {
		klog.Exitf("setup failed: %v", err)
	}
	defer b.Close()

	if _, err := b.Run(); err != nil {
		b.Close()
		klog.Exitf("batch failed: %v", err)
	}

	if *watchFlag {
		if err := watch(b, dir); err != nil {
			b.Close()
			klog.Exitf("watch failed: %v", err)
		}
	}
}

// config merges defaults, the optional config file and explicitly set flags.
func config() (*passepartout.Config, error) {
	c := passepartout.DefaultConfig()
	if *configPath != "" {
		var err error
		c, err = passepartout.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "margin":
			c.Margin = *margin
		case "logo":
			c.LogoPath = *logoPath
		case "font":
			c.FontPath = *fontPath
		case "max-width":
			c.MaxWidth = *maxWidth
		case "max-height":
			c.MaxHeight = *maxHeight
		case "quality":
			c.Quality = *quality
		case "ext":
			c.Extension = *ext
		case "keep-going":
			c.KeepGoing = *keepGoing
		case "exiftool":
			c.Exiftool = *useExiftool
		case "keep-originals":
			c.KeepOriginals = *keepOriginals
		case "force":
			c.Force = *force
		}
	})

	return c, c.Validate()
}

// watch frames images that are created or rewritten in dir.
func watch(b *passepartout.Batch, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	klog.Infof("watching %s ...", dir)

	// files being copied in raise a burst of writes; wait until they settle
	d := newDebouncer(settleDelay)
	defer d.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %v", event)
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			d.Touch(event.Name)
		case path := <-d.Ready:
			if err := b.Handle(path); err != nil {
				klog.Errorf("%v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
