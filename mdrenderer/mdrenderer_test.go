package mdrenderer

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestRender(t *testing.T) {
	rd := NewRenderer()
	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{"emphasis", "Some **bold** text", []string{"<strong>bold</strong>"}, nil},
		{"script", "hi <script>alert(1)</script>", []string{"hi"}, []string{"<script", "alert(1)</script>"}},
		{"link", "[site](https://example.org)", []string{`href="https://example.org"`, `nofollow`}, nil},
		{"js link", "[x](javascript:alert(1))", nil, []string{"javascript:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			out, err := rd.Render([]byte(tt.src))
			is.NoErr(err)
			for _, c := range tt.contains {
				is.True(strings.Contains(string(out), c)) // output should contain c
			}
			for _, c := range tt.excludes {
				is.True(!strings.Contains(string(out), c)) // output should not contain c
			}
		})
	}
}
