package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/bordhub/bordhub/internal/app/system/htmlsanitize"
)

func TestSanitize_StripsScripts(t *testing.T) {
	in := `<p>Ship it</p><script>alert("x")</script>`
	out := htmlsanitize.Sanitize(in)
	if strings.Contains(out, "<script") {
		t.Errorf("script survived: %q", out)
	}
	if !strings.Contains(out, "Ship it") {
		t.Errorf("legitimate content lost: %q", out)
	}
}

func TestSanitize_KeepsBasicFormatting(t *testing.T) {
	in := `<ul><li>one</li><li>two</li></ul>`
	out := htmlsanitize.Sanitize(in)
	if !strings.Contains(out, "<li>") {
		t.Errorf("list formatting stripped: %q", out)
	}
}

func TestPlainText(t *testing.T) {
	out := htmlsanitize.PlainText(`<b>In Progress</b>`)
	if out != "In Progress" {
		t.Errorf("got %q, want plain text", out)
	}
}
