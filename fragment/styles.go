package fragment

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/net/html"
)

// Style is the subset of inline CSS a slide run or block can honor.
type Style struct {
	Color  string  // RRGGBB
	Align  string  // OOXML algn value
	SizePt float64 // points
}

// colors browsers agree on, enough for hand-written teaching fragments
var namedColors = map[string]string{
	"black":  "000000",
	"white":  "FFFFFF",
	"red":    "FF0000",
	"green":  "008000",
	"blue":   "0000FF",
	"yellow": "FFFF00",
	"orange": "FFA500",
	"purple": "800080",
	"gray":   "808080",
	"grey":   "808080",
}

func styleFromNode(n *html.Node) Style {
	for _, a := range n.Attr {
		if a.Key == "style" {
			return parseInlineStyle(a.Val)
		}
	}
	return Style{}
}

// parseInlineStyle tokenizes a style attribute value. Unknown properties and
// values we cannot map are silently ignored, a slide is not a browser.
func parseInlineStyle(in string) Style {
	var st Style

	p := css.NewParser(parse.NewInput(bytes.NewReader([]byte(in))), true)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			return st
		}
		if gt != css.DeclarationGrammar {
			continue
		}

		var value strings.Builder
		for _, val := range p.Values() {
			value.Write(val.Data)
		}

		switch strings.ToLower(string(data)) {
		case "color":
			if c, ok := parseColor(value.String()); ok {
				st.Color = c
			}
		case "text-align":
			switch strings.ToLower(strings.TrimSpace(value.String())) {
			case "left", "start":
				st.Align = "l"
			case "center":
				st.Align = "ctr"
			case "right", "end":
				st.Align = "r"
			}
		case "font-size":
			if pt, ok := parseFontSize(value.String()); ok {
				st.SizePt = pt
			}
		}
	}
}

func parseColor(in string) (string, bool) {
	in = strings.ToLower(strings.TrimSpace(in))

	if c, ok := namedColors[in]; ok {
		return c, true
	}

	hex, ok := strings.CutPrefix(in, "#")
	if !ok {
		return "", false
	}
	switch len(hex) {
	case 3:
		var out strings.Builder
		for _, sym := range hex {
			out.WriteRune(sym)
			out.WriteRune(sym)
		}
		hex = out.String()
	case 6:
	default:
		return "", false
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", false
	}
	return strings.ToUpper(hex), true
}

func parseFontSize(in string) (float64, bool) {
	in = strings.ToLower(strings.TrimSpace(in))

	var factor float64
	var num string
	switch {
	case strings.HasSuffix(in, "px"):
		// CSS reference pixel is 1/96 inch, a point is 1/72
		num, factor = strings.TrimSuffix(in, "px"), 72.0/96.0
	case strings.HasSuffix(in, "pt"):
		num, factor = strings.TrimSuffix(in, "pt"), 1.0
	case strings.HasSuffix(in, "em"):
		num, factor = strings.TrimSuffix(in, "em"), 12.0
	default:
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v * factor, true
}
