package bundler

import (
	"strings"
	"testing"
)

func TestRenderPage(t *testing.T) {
	template := []byte(`<!DOCTYPE html><html><head><title>App</title></head><body><div id="root"></div></body></html>`)

	page, err := RenderPage(template, []string{
		"/vendor/bootstrap/css/bootstrap.css?abc",
		"/vendor/jquery/jquery.js",
		"/index.js",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := string(page)
	for _, want := range []string{
		`<title>App</title>`,
		`<div id="root"></div>`,
		`href="/vendor/bootstrap/css/bootstrap.css?abc"`,
		`<script src="/vendor/jquery/jquery.js"></script>`,
		`<script src="/index.js"></script>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in:\n%s", want, html)
		}
	}

	if strings.Index(html, "jquery.js") > strings.Index(html, "index.js") {
		t.Errorf("expected scripts in the given order:\n%s", html)
	}

	if strings.Index(html, "bootstrap.css") > strings.Index(html, "</head>") {
		t.Errorf("expected stylesheet in <head>:\n%s", html)
	}

	if strings.Index(html, `<div id="root">`) > strings.Index(html, "jquery.js") {
		t.Errorf("expected scripts after the existing body content:\n%s", html)
	}
}

func TestWithHash(t *testing.T) {
	if got := withHash("/a.js", "123"); got != "/a.js?123" {
		t.Errorf("withHash() = %s", got)
	}
	if got := withHash("/a.js?v=1", "123"); got != "/a.js?v=1&123" {
		t.Errorf("withHash() = %s", got)
	}
}

func TestBuildHash(t *testing.T) {
	a := BuildHash(map[string][]byte{"index.js": []byte("a"), "index.css": []byte("b")})
	b := BuildHash(map[string][]byte{"index.css": []byte("b"), "index.js": []byte("a")})
	c := BuildHash(map[string][]byte{"index.js": []byte("b"), "index.css": []byte("a")})

	if a != b {
		t.Errorf("expected hash to ignore map order, got %s and %s", a, b)
	}
	if a == c {
		t.Errorf("expected different contents to change the hash")
	}
	if len(a) != buildHashLength {
		t.Errorf("expected %d characters, got %q", buildHashLength, a)
	}
}
