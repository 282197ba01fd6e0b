package assemble

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/text/encoding"

	"deckc/archive"
	"deckc/manifest"
)

// manifestName is the well known manifest file looked up inside directories
// and bundles.
const manifestName = "deck.yaml"

// fragmentSource abstracts where fragments and their media come from, so the
// assembly loop does not care whether input is a directory, a manifest file
// or a zip bundle.
type fragmentSource interface {
	Manifest() *manifest.Manifest
	// Open returns fragment content by its manifest name.
	Open(name string) (io.ReadCloser, error)
	// OpenMedia resolves href relative to the named fragment and opens it.
	OpenMedia(name, href string) (io.ReadCloser, error)
	Close() error
}

// dirSource serves fragments from the file system. Base may be empty when
// manifest names are usable paths on their own.
type dirSource struct {
	base string
	m    *manifest.Manifest
}

func newDirSource(dir string) (*dirSource, error) {
	if fi, err := os.Stat(filepath.Join(dir, manifestName)); err == nil && fi.Mode().IsRegular() {
		return newManifestSource(filepath.Join(dir, manifestName))
	}
	m, err := manifest.FromDir(dir)
	if err != nil {
		return nil, err
	}
	return &dirSource{base: dir, m: m}, nil
}

func newManifestSource(path string) (*dirSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := manifest.Load(f, path)
	if err != nil {
		return nil, err
	}
	return &dirSource{base: filepath.Dir(path), m: m}, nil
}

func newNamesSource(names []string) (*dirSource, error) {
	m, err := manifest.FromNames(names)
	if err != nil {
		return nil, err
	}
	return &dirSource{m: m}, nil
}

func (s *dirSource) Manifest() *manifest.Manifest { return s.m }

func (s *dirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.base, filepath.FromSlash(name)))
}

func (s *dirSource) OpenMedia(name, href string) (io.ReadCloser, error) {
	if filepath.IsAbs(href) {
		return nil, fmt.Errorf("absolute media reference not allowed: %s", href)
	}
	rel := filepath.Dir(filepath.FromSlash(name))
	return os.Open(filepath.Join(s.base, rel, filepath.FromSlash(href)))
}

func (s *dirSource) Close() error { return nil }

// bundleSource serves fragments from a zip bundle.
type bundleSource struct {
	b *archive.Bundle
	m *manifest.Manifest
}

func newBundleSource(name string, cp encoding.Encoding) (*bundleSource, error) {
	b, err := archive.OpenBundle(name, cp)
	if err != nil {
		return nil, err
	}

	var m *manifest.Manifest
	if b.Has(manifestName) {
		r, err := b.Open(manifestName)
		if err != nil {
			b.Close()
			return nil, err
		}
		m, err = manifest.Load(r, manifestName)
		r.Close()
		if err != nil {
			b.Close()
			return nil, err
		}
	} else {
		m, err = manifest.FromNames(b.Names(manifest.FragmentExts...))
		if err != nil {
			b.Close()
			return nil, err
		}
	}
	return &bundleSource{b: b, m: m}, nil
}

func (s *bundleSource) Manifest() *manifest.Manifest { return s.m }

func (s *bundleSource) Open(name string) (io.ReadCloser, error) {
	return s.b.Open(name)
}

func (s *bundleSource) OpenMedia(name, href string) (io.ReadCloser, error) {
	if path.IsAbs(href) {
		return nil, fmt.Errorf("absolute media reference not allowed: %s", href)
	}
	return s.b.Open(path.Join(path.Dir(name), href))
}

func (s *bundleSource) Close() error { return s.b.Close() }
