package assemble

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"deckc/common"
	"deckc/deck"
)

func pathTestDeck(t *testing.T, ctx context.Context, title string) *deck.Deck {
	t.Helper()
	d, err := deck.New(ctx, deck.Meta{Title: title, Author: "A", Layout: common.SlideLayout16x9}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("deck.New() error = %v", err)
	}
	t.Cleanup(func() { d.Cleanup(ctx) })
	return d
}

func TestBuildOutputPath_Default(t *testing.T) {
	ctx, env := setupTestEnv(t)
	d := pathTestDeck(t, ctx, "My Deck")

	got := buildOutputPath(d, "talk", "/out", env)
	if got != filepath.Join("/out", "talk.pptx") {
		t.Errorf("buildOutputPath() = %q", got)
	}
}

func TestBuildOutputPath_TemplateRefID(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Deck.OutputNameTemplate = "{{.Title}}-{{.RefID}}"
	d := pathTestDeck(t, ctx, "Review")

	got := buildOutputPath(d, "src", "/out", env)
	if want := filepath.Join("/out", "Review-"+d.Meta.RefID+".pptx"); got != want {
		t.Errorf("buildOutputPath() = %q, want %q", got, want)
	}
}

func TestBuildOutputPath_KeepsSourceDirs(t *testing.T) {
	ctx, env := setupTestEnv(t)
	d := pathTestDeck(t, ctx, "My Deck")

	got := buildOutputPath(d, filepath.Join("talks", "q3", "review"), "/out", env)
	if got != filepath.Join("/out", "talks", "q3", "review.pptx") {
		t.Errorf("buildOutputPath() = %q", got)
	}

	env.NoDirs = true
	got = buildOutputPath(d, filepath.Join("talks", "q3", "review"), "/out", env)
	if got != filepath.Join("/out", "review.pptx") {
		t.Errorf("buildOutputPath() with nodirs = %q", got)
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Deck.OutputNameTemplate = "{{.Title}}-{{.Layout}}"
	d := pathTestDeck(t, ctx, "Review")

	got := buildOutputPath(d, "src", "/out", env)
	if got != filepath.Join("/out", "Review-LAYOUT_16x9.pptx") {
		t.Errorf("buildOutputPath() = %q", got)
	}
}

func TestBuildOutputPath_TemplateSubdirs(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Deck.OutputNameTemplate = "{{.Author}}/{{.Title}}"
	env.NoDirs = true
	d := pathTestDeck(t, ctx, "Review")

	got := buildOutputPath(d, "src", "/out", env)
	if got != filepath.Join("/out", "A", "Review.pptx") {
		t.Errorf("buildOutputPath() = %q", got)
	}
}

func TestBuildOutputPath_BrokenTemplateFallsBack(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Deck.OutputNameTemplate = "{{.NoSuchField"
	d := pathTestDeck(t, ctx, "Review")

	got := buildOutputPath(d, "talk", "/out", env)
	if got != filepath.Join("/out", "talk.pptx") {
		t.Errorf("buildOutputPath() = %q, want default name fallback", got)
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Deck.FileNameTransliterate = true
	env.Cfg.Deck.OutputNameTemplate = "{{.Title}}"
	d := pathTestDeck(t, ctx, "Доклад о сервисах")

	got := buildOutputPath(d, "src", "/out", env)
	want := filepath.Join("/out", "doklad-o-servisah.pptx")
	if got != want {
		t.Errorf("buildOutputPath() = %q, want %q", got, want)
	}
}
