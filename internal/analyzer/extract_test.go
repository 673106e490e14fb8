package analyzer

import (
	"strings"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"acme.example", "https://acme.example"},
		{"  acme.example  ", "https://acme.example"},
		{"http://acme.example", "http://acme.example"},
		{"https://acme.example/path", "https://acme.example/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractPrefersArticle(t *testing.T) {
	html := `<html><head>
		<title> Acme Widgets </title>
		<meta name="description" content="Widgets for everyone">
	</head><body>
		<article>Main   article
		text</article>
		<p>sidebar paragraph</p>
	</body></html>`

	page, err := Extract(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Acme Widgets" {
		t.Errorf("title = %q", page.Title)
	}
	if page.Description != "Widgets for everyone" {
		t.Errorf("description = %q", page.Description)
	}
	if page.Content != "Main article text" {
		t.Errorf("content = %q, want collapsed article text", page.Content)
	}
}

func TestExtractContentContainerFallback(t *testing.T) {
	html := `<html><body>
		<div class="main-content">container text</div>
		<p>stray paragraph</p>
	</body></html>`

	page, err := Extract(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if page.Content != "container text" {
		t.Errorf("content = %q, want container text", page.Content)
	}
	if page.Title != "Untitled" {
		t.Errorf("title = %q, want Untitled fallback", page.Title)
	}
}

func TestExtractParagraphFallback(t *testing.T) {
	html := `<html><body>
		<p>first</p>
		<p>  </p>
		<p>second</p>
	</body></html>`

	page, err := Extract(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if page.Content != "first second" {
		t.Errorf("content = %q, want joined paragraphs", page.Content)
	}
}

func TestExtractClampsContent(t *testing.T) {
	long := strings.Repeat("x", maxContentLen+500)
	html := "<html><body><article>" + long + "</article></body></html>"

	page, err := Extract(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Content) != maxContentLen {
		t.Errorf("content length = %d, want %d", len(page.Content), maxContentLen)
	}
}

func TestParseAnalysisStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"business_intro\":\"intro\",\"core_selling_points\":[\"a\"],\"core_audiences\":[{\"title\":\"t\",\"description\":\"d\"}]}\n```"
	a, err := parseAnalysis(raw)
	if err != nil {
		t.Fatal(err)
	}
	if a.BusinessIntro != "intro" || len(a.CoreSellingPoints) != 1 || len(a.CoreAudiences) != 1 {
		t.Errorf("parsed analysis = %+v", a)
	}
}

func TestParseAnalysisRejectsEmptyIntro(t *testing.T) {
	if _, err := parseAnalysis(`{"core_selling_points":[]}`); err == nil {
		t.Fatal("expected error for reply without business_intro")
	}
	if _, err := parseAnalysis("not json"); err == nil {
		t.Fatal("expected error for non-JSON reply")
	}
}
