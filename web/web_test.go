package web

import (
	"bytes"
	"html/template"
	"io/fs"
	"testing"
)

var pages = []string{"index.html", "bracket.html", "overlay.html", "schedule.html", "pools.html"}

func TestEmbeddedTemplatesExist(t *testing.T) {
	templatesFS := GetTemplatesFS()

	requiredFiles := append([]string{"layout.html"}, pages...)
	for _, file := range requiredFiles {
		_, err := fs.Stat(templatesFS, file)
		if err != nil {
			t.Errorf("required template %q not found: %v", file, err)
		}
	}
}

func TestEmbeddedStaticFilesExist(t *testing.T) {
	staticFS := GetStaticFS()

	requiredFiles := []string{
		"css/display.css",
		"js/display.js",
		"js/index.js",
		"js/bracket.js",
		"js/overlay.js",
		"js/schedule.js",
	}

	for _, file := range requiredFiles {
		_, err := fs.Stat(staticFS, file)
		if err != nil {
			t.Errorf("required static file %q not found: %v", file, err)
		}
	}
}

func TestTemplatesParseWithLayout(t *testing.T) {
	templatesFS := GetTemplatesFS()

	for _, page := range pages {
		tmpl, err := template.ParseFS(templatesFS, "layout.html", page)
		if err != nil {
			t.Errorf("%s: parse failed: %v", page, err)
			continue
		}
		for _, name := range []string{"layout", "content", "scripts"} {
			if tmpl.Lookup(name) == nil {
				t.Errorf("%s: missing %q template", page, name)
			}
		}
	}
}

func TestOverlayTemplateBindings(t *testing.T) {
	content, err := fs.ReadFile(GetTemplatesFS(), "overlay.html")
	if err != nil {
		t.Fatalf("failed to read overlay.html: %v", err)
	}

	for _, id := range []string{`id="player1"`, `id="player2"`, `id="score"`, `id="round"`} {
		if !bytes.Contains(content, []byte(id)) {
			t.Errorf("overlay.html missing %s", id)
		}
	}
}

func TestStaticFilesReadable(t *testing.T) {
	content, err := fs.ReadFile(GetStaticFS(), "js/display.js")
	if err != nil {
		t.Fatalf("failed to read js/display.js: %v", err)
	}
	if len(content) == 0 {
		t.Error("js/display.js is empty")
	}
}

