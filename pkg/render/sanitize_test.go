package render_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-solverform/pkg/render"
)

func TestSanitizer_StripsActiveContent(t *testing.T) {
	s := render.NewSanitizer()
	got := s.Sanitize(`<p onclick="x()">Solve <strong>models</strong><script>alert(1)</script></p><a href="https://www.minizinc.org">docs</a>`)

	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("active content survived: %s", got)
	}
	if !strings.Contains(got, "<strong>models</strong>") {
		t.Fatalf("formatting dropped: %s", got)
	}
	if !strings.Contains(got, "nofollow") {
		t.Fatalf("expected nofollow on links: %s", got)
	}
}

func TestSanitizer_Blank(t *testing.T) {
	if got := render.NewSanitizer().Sanitize("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
