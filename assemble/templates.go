package assemble

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"deckc/config"
	"deckc/deck"
)

// Values holds variables we make available for template expansion.
type Values struct {
	Context    string
	Title      string
	Author     string
	Layout     string
	SourceFile string
	RefID      string
	Slides     int
}

func expandTemplate(d *deck.Deck, name config.TemplateFieldName, field, src string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      d.Meta.Title,
		Author:     d.Meta.Author,
		Layout:     d.Meta.Layout.Name(),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		RefID:      d.Meta.RefID,
		Slides:     len(d.Slides),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
