// Package manifest describes deck input: ordered fragment references plus
// deck level metadata.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	yaml "gopkg.in/yaml.v3"

	"deckc/common"
)

// FragmentExts are file extensions recognized as slide fragments when
// manifest is synthesized from a directory or a bundle.
var FragmentExts = []string{".html", ".htm"}

// Manifest is the deck build order. Fragments are file names relative to the
// manifest location, their order is the slide order - never reordered,
// filtered or deduplicated.
type Manifest struct {
	Title     string              `yaml:"title,omitempty"`
	Author    string              `yaml:"author,omitempty"`
	Layout    *common.SlideLayout `yaml:"layout,omitempty"`
	RefID     string              `yaml:"ref_id,omitempty"`
	Fragments []string            `yaml:"fragments"`
}

// Load reads manifest from YAML. Unknown fields are rejected, silently
// ignoring a typo in a build manifest helps nobody.
func Load(r io.Reader, name string) (*Manifest, error) {

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read manifest %s: %w", name, err)
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("unable to decode manifest %s: %w", name, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", name, err)
	}
	// Manifest entries are relative to the manifest location, absolute paths
	// make the deck unbuildable anywhere else.
	for i, f := range m.Fragments {
		if filepath.IsAbs(f) {
			return nil, fmt.Errorf("invalid manifest %s: fragment %d (%s): absolute paths are not allowed", name, i, f)
		}
	}
	return &m, nil
}

// FromDir synthesizes manifest from all fragment files found directly in a
// directory, in natural sort order.
func FromDir(dir string) (*Manifest, error) {

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read fragment directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if isFragmentName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	m := &Manifest{Fragments: names}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("no usable fragments in directory %s: %w", dir, err)
	}
	return m, nil
}

// FromNames synthesizes manifest preserving the supplied order.
func FromNames(names []string) (*Manifest, error) {
	m := &Manifest{Fragments: names}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ApplyDefaults fills metadata the manifest does not carry.
func (m *Manifest) ApplyDefaults(title, author string, layout common.SlideLayout) {
	if len(m.Title) == 0 {
		m.Title = title
	}
	if len(m.Author) == 0 {
		m.Author = author
	}
	if m.Layout == nil {
		m.Layout = &layout
	}
}

func (m *Manifest) validate() error {
	if len(m.Fragments) == 0 {
		return fmt.Errorf("fragment list is empty")
	}
	for i, f := range m.Fragments {
		if len(strings.TrimSpace(f)) == 0 {
			return fmt.Errorf("fragment %d has empty name", i)
		}
	}
	if m.Layout != nil && !m.Layout.IsValid() {
		return fmt.Errorf("unknown layout %s", m.Layout)
	}
	return nil
}

func isFragmentName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range FragmentExts {
		if ext == e {
			return true
		}
	}
	return false
}
