// Package archive builds fragment bundle access on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding"
)

// Bundle is an opened zip archive with slide fragments. Entry names are
// normalized to slash-separated relative paths.
type Bundle struct {
	name  string
	rc    *zip.ReadCloser
	index map[string]*zip.File
}

// OpenBundle opens zip archive for reading. When cp is not nil all non UTF-8
// entry names are decoded from the specified code page, the zip "standard"
// does not define file name encoding and old archives are all over the place.
func OpenBundle(name string, cp encoding.Encoding) (*Bundle, error) {

	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}

	b := &Bundle{name: name, rc: rc, index: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		entry := f.FileHeader.Name
		if !isSafePath(entry) {
			rc.Close()
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", entry)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if cp != nil && f.FileHeader.NonUTF8 {
			if n, err := cp.NewDecoder().String(entry); err == nil {
				entry = n
			}
		}
		b.index[entry] = f
	}
	return b, nil
}

func (b *Bundle) Close() error {
	return b.rc.Close()
}

func (b *Bundle) Name() string {
	return b.name
}

// Has reports whether bundle contains named entry.
func (b *Bundle) Has(name string) bool {
	_, ok := b.index[path.Clean(name)]
	return ok
}

// Open returns reader for the named entry.
func (b *Bundle) Open(name string) (io.ReadCloser, error) {
	f, ok := b.index[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("no entry %q in bundle %s", name, b.name)
	}
	return f.Open()
}

// Names returns entries with one of the requested extensions in natural sort
// order. Extensions are matched case insensitively and must include the dot.
func (b *Bundle) Names(exts ...string) []string {
	var names []string
	for name := range b.index {
		if len(exts) == 0 {
			names = append(names, name)
			continue
		}
		ext := strings.ToLower(path.Ext(name))
		for _, e := range exts {
			if ext == e {
				names = append(names, name)
				break
			}
		}
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
