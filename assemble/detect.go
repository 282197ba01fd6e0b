package assemble

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"deckc/manifest"
)

// isBundleFile checks whether path looks like a zip bundle. Extension is
// checked first so we do not sniff every input, content second so a stray
// ".zip" does not send garbage into the zip reader.
func isBundleFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 262)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}

	t, err := filetype.Match(buf[:n])
	if err != nil {
		return false, err
	}
	return t == matchers.TypeZip, nil
}

func isManifestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isFragmentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range manifest.FragmentExts {
		if ext == e {
			return true
		}
	}
	return false
}
