package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/evalhub/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		check func(string) bool
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain text", in: "Rate your peers honestly.", want: "Rate your peers honestly."},
		{name: "formatting kept", in: "<p><strong>Goals</strong> and <em>values</em></p>", want: "<p><strong>Goals</strong> and <em>values</em></p>"},
		{name: "list kept", in: "<ul><li>Impact</li><li>Growth</li></ul>", want: "<ul><li>Impact</li><li>Growth</li></ul>"},
		{name: "script removed", in: "<p>Hi</p><script>alert(1)</script>", want: "<p>Hi</p>"},
		{name: "onclick removed", in: `<span onclick="x()">a</span>`, check: func(s string) bool { return !strings.Contains(s, "onclick") }},
		{name: "javascript href removed", in: `<a href="javascript:x()">a</a>`, check: func(s string) bool { return !strings.Contains(s, "javascript") }},
		{name: "iframe removed", in: `<p>ok</p><iframe src="https://evil.example"></iframe>`, check: func(s string) bool {
			return !strings.Contains(s, "iframe") && strings.Contains(s, "ok")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.in)
			if tt.check != nil {
				if !tt.check(got) {
					t.Errorf("Sanitize(%q) = %q", tt.in, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  2024 H1 review ", "2024 H1 review"},
		{"<b>R&D</b> review", "R&D review"},
		{"<script>alert(1)</script>Peer review", "Peer review"},
		{"상반기 평가", "상반기 평가"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
