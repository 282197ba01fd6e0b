package fragment

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func parseFragment(t *testing.T, src string) *Slide {
	t.Helper()
	s, err := Parse(strings.NewReader(src), "test.html", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func TestParse_TitleAndParagraph(t *testing.T) {
	s := parseFragment(t, `<h1>Service Topology</h1><p>Every service owns its data.</p>`)

	if s.Title != "Service Topology" {
		t.Errorf("Title = %q, want %q", s.Title, "Service Topology")
	}
	if len(s.Blocks) != 1 {
		t.Fatalf("Blocks = %d, want 1", len(s.Blocks))
	}
	b := s.Blocks[0]
	if b.Kind != BlockParagraph {
		t.Errorf("Kind = %v, want %v", b.Kind, BlockParagraph)
	}
	if got := b.Text(); got != "Every service owns its data." {
		t.Errorf("Text() = %q", got)
	}
}

func TestParse_SecondHeadingBecomesParagraph(t *testing.T) {
	s := parseFragment(t, `<h1>First</h1><h2>Second</h2>`)

	if s.Title != "First" {
		t.Errorf("Title = %q, want %q", s.Title, "First")
	}
	if len(s.Blocks) != 1 {
		t.Fatalf("Blocks = %d, want 1", len(s.Blocks))
	}
	if !s.Blocks[0].Runs[0].Bold {
		t.Error("subsequent heading should turn into a bold paragraph")
	}
}

func TestParse_MinorHeadingsNeverTitle(t *testing.T) {
	s := parseFragment(t, `<h3>Details</h3><p>body text</p>`)

	if len(s.Title) != 0 {
		t.Errorf("Title = %q, minor heading must not become the title", s.Title)
	}
	if len(s.Blocks) != 2 {
		t.Fatalf("Blocks = %d, want 2", len(s.Blocks))
	}
	if got := s.Blocks[0].Runs[0]; got.Text != "Details" || !got.Bold {
		t.Errorf("first block run = %+v, want bold %q", got, "Details")
	}
}

func TestParse_Bullets(t *testing.T) {
	s := parseFragment(t, `<h1>T</h1>
<ul>
  <li>top one</li>
  <li>top two
    <ul><li>nested</li></ul>
  </li>
</ul>`)

	var got []struct {
		text  string
		level int
	}
	for _, b := range s.Blocks {
		if b.Kind != BlockBullet {
			t.Fatalf("unexpected block kind %v", b.Kind)
		}
		got = append(got, struct {
			text  string
			level int
		}{strings.TrimSpace(b.Text()), b.Level})
	}

	want := []struct {
		text  string
		level int
	}{
		{"top one", 0},
		{"top two", 0},
		{"nested", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("bullets = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bullet[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParse_InlineFormatting(t *testing.T) {
	s := parseFragment(t, `<h1>T</h1><p>plain <strong>bold</strong> and <em>italic</em> and <u>under</u> and <code>mono</code></p>`)

	if len(s.Blocks) != 1 {
		t.Fatalf("Blocks = %d, want 1", len(s.Blocks))
	}
	runs := s.Blocks[0].Runs
	if len(runs) != 8 {
		t.Fatalf("runs = %d, want 8: %+v", len(runs), runs)
	}

	checks := []struct {
		idx  int
		text string
		test func(r Run) bool
		name string
	}{
		{1, "bold", func(r Run) bool { return r.Bold }, "Bold"},
		{3, "italic", func(r Run) bool { return r.Italic }, "Italic"},
		{5, "under", func(r Run) bool { return r.Underline }, "Underline"},
		{7, "mono", func(r Run) bool { return r.Code }, "Code"},
	}
	for _, c := range checks {
		if runs[c.idx].Text != c.text {
			t.Errorf("run[%d].Text = %q, want %q", c.idx, runs[c.idx].Text, c.text)
		}
		if !c.test(runs[c.idx]) {
			t.Errorf("run[%d] (%s) flag not set", c.idx, c.name)
		}
	}
}

func TestParse_WordBoundaries(t *testing.T) {
	s := parseFragment(t, `<h1>T</h1><p>keep <b>the</b> spaces</p>`)

	var joined string
	for _, r := range s.Blocks[0].Runs {
		joined += r.Text
	}
	if joined != "keep the spaces" {
		t.Errorf("joined runs = %q, want %q", joined, "keep the spaces")
	}
}

func TestParse_Code(t *testing.T) {
	s := parseFragment(t, "<h1>T</h1><pre>func main() {\n\tprintln()\n}\n</pre>")

	if len(s.Blocks) != 1 {
		t.Fatalf("Blocks = %d, want 1", len(s.Blocks))
	}
	b := s.Blocks[0]
	if b.Kind != BlockCode {
		t.Fatalf("Kind = %v, want %v", b.Kind, BlockCode)
	}
	if !strings.Contains(b.Text(), "\n\tprintln()") {
		t.Errorf("code text lost line structure: %q", b.Text())
	}
	if strings.HasSuffix(b.Text(), "\n") {
		t.Errorf("trailing newline should be trimmed: %q", b.Text())
	}
}

func TestParse_Images(t *testing.T) {
	s := parseFragment(t, `<h1>T</h1><p>text <img src="media/arch.png" alt="architecture"/></p><img src="lone.png"/>`)

	refs := s.Images()
	if len(refs) != 2 {
		t.Fatalf("Images() = %d, want 2", len(refs))
	}
	if refs[0].Href != "media/arch.png" || refs[0].Alt != "architecture" {
		t.Errorf("ref[0] = %+v", refs[0])
	}
	if refs[1].Href != "lone.png" {
		t.Errorf("ref[1] = %+v", refs[1])
	}
}

func TestParse_ImageOnlyParagraph(t *testing.T) {
	s := parseFragment(t, `<h1>T</h1><p><img src="only.png"/></p>`)

	if len(s.Images()) != 1 {
		t.Fatal("image inside otherwise empty paragraph was lost")
	}
}

func TestParse_Notes(t *testing.T) {
	s := parseFragment(t, `<h1>T</h1><p>visible</p><aside><p>first note</p><p>second note</p></aside>`)

	if len(s.Notes) != 2 {
		t.Fatalf("Notes = %d, want 2", len(s.Notes))
	}
	if s.Notes[0] != "first note" || s.Notes[1] != "second note" {
		t.Errorf("Notes = %+v", s.Notes)
	}
	for _, b := range s.Blocks {
		if strings.Contains(b.Text(), "note") {
			t.Error("notes leaked into slide body")
		}
	}
}

func TestParse_TransparentContainers(t *testing.T) {
	s := parseFragment(t, `<div><section><h1>Deep</h1><p>content</p></section></div>`)

	if s.Title != "Deep" {
		t.Errorf("Title = %q, want %q", s.Title, "Deep")
	}
	if len(s.Blocks) != 1 {
		t.Errorf("Blocks = %d, want 1", len(s.Blocks))
	}
}

func TestParse_Empty(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty input", ""},
		{"whitespace only", "   \n\t  "},
		{"markup without content", "<p>   </p><ul></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), "empty.html", zaptest.NewLogger(t))
			if err == nil {
				t.Error("Parse() expected error for fragment without content")
			}
		})
	}
}

func TestParse_StyledParagraph(t *testing.T) {
	s := parseFragment(t, `<h1>T</h1><p style="text-align: center; color: #ff0000">warning</p>`)

	b := s.Blocks[0]
	if b.Align != "ctr" {
		t.Errorf("Align = %q, want %q", b.Align, "ctr")
	}
	if b.Runs[0].Color != "FF0000" {
		t.Errorf("Color = %q, want %q", b.Runs[0].Color, "FF0000")
	}
}
