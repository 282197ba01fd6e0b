package assemble

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestIsBundleFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("non-zip extension", func(t *testing.T) {
		name := filepath.Join(dir, "deck.yaml")
		if err := os.WriteFile(name, []byte("fragments: [a.html]"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		got, err := isBundleFile(name)
		if err != nil {
			t.Errorf("isBundleFile() error = %v", err)
		}
		if got {
			t.Error("isBundleFile() = true, want false")
		}
	})

	t.Run("zip extension but invalid content", func(t *testing.T) {
		name := filepath.Join(dir, "fake.zip")
		if err := os.WriteFile(name, []byte("not a real zip file"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		got, err := isBundleFile(name)
		if err != nil {
			t.Errorf("isBundleFile() error = %v", err)
		}
		if got {
			t.Error("isBundleFile() = true, want false")
		}
	})

	t.Run("valid zip file", func(t *testing.T) {
		name := filepath.Join(dir, "real.zip")
		f, err := os.Create(name)
		if err != nil {
			t.Fatalf("create zip: %v", err)
		}
		zw := zip.NewWriter(f)
		w, err := zw.Create("a.html")
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		w.Write([]byte("<h1>x</h1>"))
		zw.Close()
		f.Close()

		got, err := isBundleFile(name)
		if err != nil {
			t.Errorf("isBundleFile() error = %v", err)
		}
		if !got {
			t.Error("isBundleFile() = false, want true")
		}
	})

	t.Run("non-existent file", func(t *testing.T) {
		if _, err := isBundleFile(filepath.Join(dir, "absent.zip")); err == nil {
			t.Error("isBundleFile() expected error for non-existent file")
		}
	})
}

func TestIsManifestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"deck.yaml", true},
		{"deck.yml", true},
		{"DECK.YAML", true},
		{"deck.json", false},
		{"deck.html", false},
	}
	for _, tt := range tests {
		if got := isManifestFile(tt.path); got != tt.want {
			t.Errorf("isManifestFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsFragmentFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.html", true},
		{"sub/b.HTM", true},
		{"c.xhtml", false},
		{"d.txt", false},
	}
	for _, tt := range tests {
		if got := isFragmentFile(tt.path); got != tt.want {
			t.Errorf("isFragmentFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
