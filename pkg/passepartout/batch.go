package passepartout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Summary counts the outcome of a batch.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Batch frames every matching image of one directory into its output directory.
type Batch struct {
	c      *Config
	dir    string
	outDir string
	p      *Processor

	Summary Summary
}

// NewBatch prepares dir for processing and creates the output directory.
func NewBatch(c *Config, dir string) (*Batch, error) {
	p, err := NewProcessor(c)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Join(dir, c.OutDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		p.Close()
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	return &Batch{c: c, dir: dir, outDir: outDir, p: p}, nil
}

// OutDir is where framed images are written.
func (b *Batch) OutDir() string { return b.outDir }

// Close releases the underlying processor.
func (b *Batch) Close() error { return b.p.Close() }

// Run processes every matching file in the directory.
func (b *Batch) Run() (Summary, error) {
	klog.Infof("batch: %s -> %s", b.dir, b.outDir)

	paths, err := Find(b.dir, b.c.Extension)
	if err != nil {
		return b.Summary, fmt.Errorf("find: %w", err)
	}

	for _, path := range paths {
		if err := b.Handle(path); err != nil {
			return b.Summary, err
		}
	}

	klog.Infof("batch done: %d processed, %d skipped, %d failed", b.Summary.Processed, b.Summary.Skipped, b.Summary.Failed)
	return b.Summary, nil
}

// Handle processes a single input. Errors are returned unless KeepGoing is set.
func (b *Batch) Handle(path string) error {
	if !Matches(path, b.c.Extension) {
		klog.V(1).Infof("ignoring %s", path)
		return nil
	}

	out := filepath.Join(b.outDir, filepath.Base(path))
	if !b.c.Force && upToDate(path, out) {
		klog.V(1).Infof("%s is up to date", out)
		b.Summary.Skipped++
		return nil
	}

	if b.c.KeepOriginals {
		dest := filepath.Join(b.outDir, "originals", filepath.Base(path))
		if err := copy.Copy(path, dest); err != nil {
			return b.fail(path, fmt.Errorf("copy: %w", err))
		}
	}

	if err := b.p.Process(path, out); err != nil {
		return b.fail(path, err)
	}
	b.Summary.Processed++
	return nil
}

func (b *Batch) fail(path string, err error) error {
	b.Summary.Failed++
	if b.c.KeepGoing {
		klog.Errorf("%s failed: %v", path, err)
		return nil
	}
	return fmt.Errorf("process %s: %w", path, err)
}

// upToDate reports whether out exists and is not older than in.
func upToDate(in string, out string) bool {
	sst, err := os.Stat(in)
	if err != nil {
		return false
	}
	dst, err := os.Stat(out)
	if err != nil {
		return false
	}
	return !sst.ModTime().After(dst.ModTime())
}

// Matches reports whether path is a visible file with the given suffix.
func Matches(path string, ext string) bool {
	base := filepath.Base(path)
	return base[0] != '.' && strings.HasSuffix(base, ext)
}

// Find returns the matching files directly inside dir, sorted by name.
// Subdirectories, including the output directory, are not descended into.
func Find(dir string, ext string) ([]string, error) {
	found := []string{}

	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if filepath.Clean(path) == filepath.Clean(dir) {
					return nil
				}
				return godirwalk.SkipThis
			}

			if Matches(path, ext) {
				klog.V(1).Infof("found %s", path)
				found = append(found, path)
			}
			return nil
		},
	})

	return found, err
}
