// Package assemble drives deck assembly from fragment sources to the packaged
// output file.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"deckc/common"
	"deckc/convert/pptx"
	"deckc/deck"
	"deckc/fragment"
	"deckc/state"
	"deckc/utils/images"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("assemble")

	if cmd.Args().Len() == 0 {
		return errors.New("no input source has been specified")
	}

	var srcs []string
	dst := cmd.String("output-dir")
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	for _, a := range cmd.Args().Slice() {
		srcs = append(srcs, filepath.Clean(a))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old bundles
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in bundles", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.Strings("source", srcs), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, srcs, dst, log)
}

// process determines the input type (directory, manifest, bundle or loose
// fragment files), builds a fragment source for it and runs assembly.
func process(ctx context.Context, srcs []string, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var (
		src fragmentSource
		err error
	)

	label := srcs[0]
	if filepath.IsAbs(label) {
		label = filepath.Base(label)
	}
	label = strings.TrimSuffix(label, filepath.Ext(label))

	if len(srcs) > 1 {
		for _, s := range srcs {
			if !isFragmentFile(s) {
				return fmt.Errorf("multiple inputs must all be fragment files, got (%s)", s)
			}
		}
		src, err = newNamesSource(srcs)
	} else {
		single := srcs[0]
		fi, serr := os.Stat(single)
		if serr != nil {
			return fmt.Errorf("input source was not found (%s): %w", single, serr)
		}
		switch {
		case fi.Mode().IsDir():
			src, err = newDirSource(single)
		case !fi.Mode().IsRegular():
			return fmt.Errorf("unexpected path mode for (%s)", single)
		case isManifestFile(single):
			src, err = newManifestSource(single)
		case isFragmentFile(single):
			src, err = newNamesSource(srcs)
		default:
			bundle, berr := isBundleFile(single)
			if berr != nil {
				return fmt.Errorf("unable to check input type: %w", berr)
			}
			if !bundle {
				return fmt.Errorf("input was not recognized as fragment source (%s)", single)
			}
			src, err = newBundleSource(single, env.CodePage)
		}
	}
	if err != nil {
		return fmt.Errorf("unable to open fragment source: %w", err)
	}
	defer src.Close()

	m := src.Manifest()
	m.ApplyDefaults(env.Cfg.Deck.Title, env.Cfg.Deck.Author, env.Cfg.Deck.Layout)

	return assembleDeck(ctx, src, label, dst, log)
}

// assembleDeck converts manifest fragments into slides strictly in manifest
// order and serializes the result. First failed fragment aborts the whole
// run, fragments after it are never looked at and no output file appears.
func assembleDeck(ctx context.Context, src fragmentSource, label, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)
	m := src.Manifest()

	var outputName string

	log.Info("Assembly starting", zap.String("deck", label), zap.Int("fragments", len(m.Fragments)))
	defer func(start time.Time) {
		// NOTE: some of golang graphic processing libraries are not mature
		// enough, we do not want raster decode panic to take the process down
		// without a trace.
		if r := recover(); r != nil {
			log.Error("Assembly ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("assembly panic: %v", r)
		} else if rerr == nil {
			log.Info("Assembly completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("ref_id", m.RefID))
		}
	}(time.Now())

	d, err := deck.New(ctx, deck.Meta{
		Title:  m.Title,
		Author: m.Author,
		Layout: *m.Layout,
		RefID:  m.RefID,
	}, log)
	if err != nil {
		return err
	}
	defer d.Cleanup(ctx)

	for i, name := range m.Fragments {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := convertFragment(ctx, d, src, name, log); err != nil {
			return &ConversionError{Index: i, Fragment: name, Err: err}
		}
	}

	outputName = buildOutputPath(d, label, dst, env)

	if err := pptx.Generate(ctx, d, outputName, &env.Cfg.Deck, log); err != nil {
		return &SerializationError{Output: outputName, Err: err}
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s%s", d.Meta.RefID, filepath.Ext(outputName)), outputName)
	}
	return nil
}

// convertFragment parses one fragment and appends the resulting slide with
// its media to the deck.
func convertFragment(ctx context.Context, d *deck.Deck, src fragmentSource, name string, log *zap.Logger) error {
	log.Info("Converting fragment", zap.String("fragment", name))
	defer func(start time.Time) {
		log.Debug("Fragment done", zap.String("fragment", name), zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	r, err := src.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	slide, err := fragment.Parse(r, name, log)
	if err != nil {
		return err
	}

	if err := loadMedia(ctx, d, src, name, slide, log); err != nil {
		return err
	}

	d.AppendSlide(slide)
	return nil
}

// loadMedia pulls in all media the slide references. Remote references are
// dropped with a warning, anything local that cannot be loaded fails the
// fragment.
func loadMedia(ctx context.Context, d *deck.Deck, src fragmentSource, name string, slide *fragment.Slide, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	cx, cy := d.Meta.Layout.SlideSize()
	opts := images.Options{
		MaxWidth:    int(cx / common.EMUPerPixel),
		MaxHeight:   int(cy / common.EMUPerPixel),
		ScaleFactor: env.Cfg.Deck.Images.ScaleFactor,
		JPEGQuality: env.Cfg.Deck.Images.JPEGQuality,
		Resize:      env.Cfg.Deck.Images.Resize,
	}

	kept := slide.Blocks[:0]
	for _, b := range slide.Blocks {
		if b.Kind != fragment.BlockImage || b.Image == nil {
			kept = append(kept, b)
			continue
		}
		if isRemoteRef(b.Image.Href) {
			log.Warn("Skipping remote media reference", zap.String("fragment", name), zap.String("href", b.Image.Href))
			continue
		}

		// Media may be shared between fragments, key it by location relative
		// to the source root so writers and lookups agree.
		key := path.Join(path.Dir(filepath.ToSlash(name)), filepath.ToSlash(b.Image.Href))
		if _, ok := d.Image(key); !ok {
			mr, err := src.OpenMedia(name, b.Image.Href)
			if err != nil {
				return fmt.Errorf("unable to open media %q: %w", b.Image.Href, err)
			}
			data, err := io.ReadAll(mr)
			mr.Close()
			if err != nil {
				return fmt.Errorf("unable to read media %q: %w", b.Image.Href, err)
			}
			img, err := images.Prepare(data, opts, log)
			if err != nil {
				return fmt.Errorf("unable to prepare media %q: %w", b.Image.Href, err)
			}
			d.AddImage(key, img)
		}
		b.Image.Href = key
		kept = append(kept, b)
	}
	slide.Blocks = kept
	return nil
}

func isRemoteRef(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}
