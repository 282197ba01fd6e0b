// Package pptx serializes an assembled deck into an OOXML presentation
// package.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"deckc/config"
	"deckc/deck"
	"deckc/state"
)

const (
	nsDrawing = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRel     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresent = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsPkgRel  = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeNotesMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	relTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeNotesSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	mediaDir = "ppt/media"
)

// Generate creates the PPTX output file. Nothing appears at outputPath
// unless the whole package was serialized successfully - content is staged
// in the deck working directory first.
func Generate(ctx context.Context, d *deck.Deck, outputPath string, cfg *config.DeckConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	if _, err := os.Stat(outputPath); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputPath)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputPath))
		if err = os.Remove(outputPath); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	log.Info("Generating PPTX",
		zap.String("layout", d.Meta.Layout.Name()), zap.Int("slides", len(d.Slides)), zap.String("output", outputPath))

	_, tmpName := filepath.Split(outputPath)
	tmpName = filepath.Join(d.WorkDir, tmpName)

	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	if err := writeContentTypes(zw, d); err != nil {
		return fmt.Errorf("unable to write content types: %w", err)
	}
	if err := writeRootRels(zw); err != nil {
		return fmt.Errorf("unable to write package relationships: %w", err)
	}
	if err := writeCoreProps(zw, d); err != nil {
		return fmt.Errorf("unable to write core properties: %w", err)
	}
	if err := writeAppProps(zw, d); err != nil {
		return fmt.Errorf("unable to write extended properties: %w", err)
	}
	if err := writePresentation(zw, d); err != nil {
		return fmt.Errorf("unable to write presentation part: %w", err)
	}
	if err := writeTheme(zw, "ppt/theme/theme1.xml"); err != nil {
		return fmt.Errorf("unable to write theme: %w", err)
	}
	if err := writeTheme(zw, "ppt/theme/theme2.xml"); err != nil {
		return fmt.Errorf("unable to write notes theme: %w", err)
	}
	if err := writeSlideMaster(zw); err != nil {
		return fmt.Errorf("unable to write slide master: %w", err)
	}
	if err := writeSlideLayout(zw); err != nil {
		return fmt.Errorf("unable to write slide layout: %w", err)
	}
	if err := writeNotesMaster(zw); err != nil {
		return fmt.Errorf("unable to write notes master: %w", err)
	}

	for i, slide := range d.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeSlide(zw, d, i, slide, log); err != nil {
			return fmt.Errorf("unable to write slide %d (%s): %w", i+1, slide.Source, err)
		}
	}

	if err := writeMedia(zw, d, log); err != nil {
		return fmt.Errorf("unable to write media: %w", err)
	}

	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	// clean temporary file
	defer os.Remove(tmpName)

	if cfg.FixZip {
		return copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return copyFile(tmpName, outputPath)
}

// stageOutput creates a temporary file next to dst, so a failed write never
// leaves a partial file at the final path. Caller finishes with
// commitOutput or discardOutput.
func stageOutput(dst string) (*os.File, error) {
	f, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*")
	if err != nil {
		return nil, fmt.Errorf("unable to create target file (%s): %w", dst, err)
	}
	return f, nil
}

func commitOutput(f *os.File, dst string) error {
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("unable to finalize target file (%s): %w", dst, err)
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), dst); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("unable to move target file in place (%s): %w", dst, err)
	}
	return nil
}

func discardOutput(f *os.File) {
	f.Close()
	os.Remove(f.Name())
}

func copyZipWithoutDataDescriptors(from, to string) error {

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	out, err := stageOutput(to)
	if err != nil {
		return err
	}

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			discardOutput(out)
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err := w.Close(); err != nil {
		discardOutput(out)
		return fmt.Errorf("unable to finalize target archive (%s): %w", to, err)
	}
	return commitOutput(out, to)
}

func copyFile(src, dst string) error {

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	out, err := stageOutput(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, sourceFile); err != nil {
		discardOutput(out)
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return commitOutput(out, dst)
}

func writeMedia(zw *zip.Writer, d *deck.Deck, log *zap.Logger) error {
	for _, img := range d.ImagesInOrder() {
		name := path.Join(mediaDir, img.Filename)
		if err := writeDataToZip(zw, name, img.Data); err != nil {
			return fmt.Errorf("unable to write image %s: %w", img.Filename, err)
		}
		log.Debug("Wrote image", zap.String("file", name), zap.String("type", img.ContentType))
	}
	return nil
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newXMLDoc() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// newRels starts a relationships part.
func newRels() (*etree.Document, *etree.Element) {
	doc := newXMLDoc()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkgRel)
	return doc, rels
}

func addRel(parent *etree.Element, id, relType, target string) {
	rel := parent.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
}
