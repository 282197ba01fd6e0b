package fragment

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads one HTML fragment and builds slide source model from it. The
// parser is forgiving the way browsers are - x/net/html never fails on
// malformed markup - but a fragment which yields neither title nor content is
// an error, such slide would be meaningless.
func Parse(r io.Reader, name string, log *zap.Logger) (*Slide, error) {

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse fragment: %w", err)
	}

	s := &Slide{Source: name}

	body := findBody(doc)
	if body == nil {
		return nil, fmt.Errorf("fragment has no body")
	}

	p := &parser{slide: s, log: log}
	p.walkBody(body)

	if len(s.Title) == 0 && len(s.Blocks) == 0 {
		return nil, fmt.Errorf("fragment has no usable content")
	}

	log.Debug("Parsed fragment",
		zap.String("fragment", name), zap.String("title", s.Title), zap.Int("blocks", len(s.Blocks)), zap.Int("notes", len(s.Notes)))
	return s, nil
}

type parser struct {
	slide *Slide
	log   *zap.Logger
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (p *parser) walkBody(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.H1, atom.H2:
			text := strings.TrimSpace(plainText(c))
			if len(p.slide.Title) == 0 {
				p.slide.Title = text
				continue
			}
			// subsequent headings become emphasized paragraphs - a slide has
			// one title placeholder
			p.appendHeadingParagraph(c, text)
		case atom.H3, atom.H4, atom.H5, atom.H6:
			// minor headings are section markers inside the slide body, never
			// the slide title
			p.appendHeadingParagraph(c, strings.TrimSpace(plainText(c)))
		case atom.P:
			p.appendTextBlock(c, BlockParagraph, 0)
		case atom.Ul, atom.Ol:
			p.walkList(c, 0)
		case atom.Pre:
			p.appendCode(c)
		case atom.Img:
			p.appendImage(c)
		case atom.Aside:
			p.collectNotes(c)
		case atom.Div, atom.Section, atom.Article:
			// transparent containers
			p.walkBody(c)
		default:
			p.log.Debug("Skipping unsupported fragment element", zap.String("element", c.Data))
		}
	}
}

func (p *parser) appendHeadingParagraph(n *html.Node, text string) {
	if len(text) == 0 {
		return
	}
	p.slide.Blocks = append(p.slide.Blocks, Block{
		Kind: BlockParagraph, Align: styleFromNode(n).Align,
		Runs: []Run{{Text: text, Bold: true}},
	})
}

func (p *parser) walkList(n *html.Node, level int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		p.appendTextBlock(c, BlockBullet, level)
		// nested lists increase bullet depth
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			if g.Type == html.ElementNode && (g.DataAtom == atom.Ul || g.DataAtom == atom.Ol) {
				p.walkList(g, level+1)
			}
		}
	}
}

func (p *parser) appendTextBlock(n *html.Node, kind BlockKind, level int) {
	st := styleFromNode(n)
	runs := collectRuns(n, Run{Color: st.Color, SizePt: st.SizePt})
	if len(runs) > 0 {
		p.slide.Blocks = append(p.slide.Blocks, Block{Kind: kind, Level: level, Align: st.Align, Runs: runs})
	}

	// images are pulled out of text flow onto the slide canvas
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Img {
			p.appendImage(c)
		}
	}
}

func (p *parser) appendCode(n *html.Node) {
	text := strings.TrimRight(plainText(n), "\n")
	if len(text) == 0 {
		return
	}
	p.slide.Blocks = append(p.slide.Blocks, Block{
		Kind: BlockCode,
		Runs: []Run{{Text: text, Code: true}},
	})
}

func (p *parser) appendImage(n *html.Node) {
	src := attr(n, "src")
	if len(src) == 0 {
		p.log.Warn("Ignoring image without src", zap.String("fragment", p.slide.Source))
		return
	}
	p.slide.Blocks = append(p.slide.Blocks, Block{
		Kind:  BlockImage,
		Image: &ImageRef{Href: src, Alt: attr(n, "alt")},
	})
}

func (p *parser) collectNotes(n *html.Node) {
	found := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.P {
			if text := strings.TrimSpace(plainText(c)); len(text) > 0 {
				p.slide.Notes = append(p.slide.Notes, text)
				found = true
			}
		}
	}
	if !found {
		if text := strings.TrimSpace(plainText(n)); len(text) > 0 {
			p.slide.Notes = append(p.slide.Notes, text)
		}
	}
}

// collectRuns flattens inline markup into formatted runs. Formatting nests,
// base carries inherited state.
func collectRuns(n *html.Node, base Run) []Run {
	var runs []Run
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text := collapseSpace(c.Data)
			if len(strings.TrimSpace(text)) == 0 {
				continue
			}
			r := base
			r.Text = text
			runs = append(runs, r)
		case html.ElementNode:
			child := base
			switch c.DataAtom {
			case atom.Strong, atom.B:
				child.Bold = true
			case atom.Em, atom.I:
				child.Italic = true
			case atom.U:
				child.Underline = true
			case atom.Code:
				child.Code = true
			case atom.Br:
				runs = append(runs, Run{Text: "\n"})
				continue
			case atom.Img, atom.Ul, atom.Ol:
				// handled by block level walker
				continue
			}
			st := styleFromNode(c)
			if len(st.Color) > 0 {
				child.Color = st.Color
			}
			if st.SizePt > 0 {
				child.SizePt = st.SizePt
			}
			runs = append(runs, collectRuns(c, child)...)
		}
	}
	return runs
}

func plainText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseSpace folds whitespace runs into single spaces keeping word
// boundaries with adjacent inline elements intact.
func collapseSpace(in string) string {
	out := strings.Join(strings.Fields(in), " ")
	if len(out) == 0 {
		return out
	}
	if in != strings.TrimLeft(in, " \t\n\r") {
		out = " " + out
	}
	if in != strings.TrimRight(in, " \t\n\r") {
		out = out + " "
	}
	return out
}
