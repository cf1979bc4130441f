package sudoapi

import (
	"strings"
	"testing"

	"github.com/KiloProjects/cfp"
	"github.com/matryer/is"
)

func testOptions() *cfp.TalkOptions {
	return &cfp.TalkOptions{
		Types:      map[string]string{"talk": "Regular talk", "tutorial": "Tutorial"},
		Levels:     map[string]string{"beginner": "Beginner", "advanced": "Advanced"},
		Categories: map[string]string{"php": "PHP", "go": "Go"},
	}
}

func validForm() TalkForm {
	return TalkForm{
		Title:    "My Talk",
		Type:     "talk",
		Level:    "beginner",
		Category: "php",
		Desired:  "x",
	}
}

func TestTalkFormSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Talk", "My Talk"},
		{"whitespace", "  spaced out \n", "spaced out"},
		{"tags", "<b>Bold</b> move", "Bold move"},
		{"script", "hi<script>alert('x')</script>", "hi"},
		{"ampersand", "Cats & Dogs", "Cats & Dogs"},
		{"comparison", "a < b", "a < b"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"encoded tags", "&lt;b&gt;bold&lt;/b&gt;", "bold"},
		{"double encoded", "&amp;lt;i&amp;gt;deep&amp;lt;/i&amp;gt;", "deep"},
		{"entity text", "Fish &amp; Chips", "Fish & Chips"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			form := TalkForm{Title: tt.in, Other: tt.in}
			clean := form.Sanitize()
			is.Equal(clean.Title, tt.want)
			is.Equal(clean.Other, tt.want)
			is.Equal(form.Title, tt.in) // original must be left untouched
		})
	}
}

func TestTalkFormSanitizeIdempotent(t *testing.T) {
	is := is.New(t)
	form := TalkForm{
		Title:       "Go & Postgres: a love story",
		Description: "We talk about <i>pools</i>, \"quotes\" and 'apostrophes'.",
		Type:        "talk",
		Slides:      "https://example.org/slides?a=1&b=2",
	}
	once := form.Sanitize()
	twice := once.Sanitize()
	is.Equal(once, twice)
	is.Equal(once.Slides, "https://example.org/slides?a=1&b=2")
}

func TestTalkFormSanitizeEncodedMarkup(t *testing.T) {
	is := is.New(t)
	form := TalkForm{
		Title:       "&lt;script&gt;alert(1)&lt;/script&gt;",
		Description: "&lt;b&gt;bold&lt;/b&gt;",
		Other:       strings.Repeat("&amp;", 40) + "lt;u&gt;x",
	}
	once := form.Sanitize()
	twice := once.Sanitize()
	is.Equal(once, twice)
	is.Equal(once.Title, "")
	is.Equal(once.Description, "bold")
	for _, field := range []string{once.Title, once.Description, once.Other} {
		is.True(!strings.ContainsAny(field, "<>")) // no markup survives
	}
}

func TestTalkFormValidate(t *testing.T) {
	opts := testOptions()
	tests := []struct {
		name   string
		modify func(f *TalkForm)
		want   []string
	}{
		{"valid", func(f *TalkForm) {}, nil},
		{"optional fields empty", func(f *TalkForm) { f.Desired, f.Slides, f.Other, f.Sponsor = "", "", "", "" }, nil},
		{"missing title", func(f *TalkForm) { f.Title = "" }, []string{"Please fill in the title"}},
		{"long title", func(f *TalkForm) { f.Title = strings.Repeat("a", MaxTitleLength+1) }, []string{"Your talk title has to be 100 characters or less"}},
		{"exact title", func(f *TalkForm) { f.Title = strings.Repeat("ă", MaxTitleLength) }, nil},
		{"bad type", func(f *TalkForm) { f.Type = "keynote" }, []string{"You did not choose a valid talk type"}},
		{"bad level", func(f *TalkForm) { f.Level = "" }, []string{"You did not choose a valid talk level"}},
		{"bad category", func(f *TalkForm) { f.Category = "cobol" }, []string{"You did not choose a valid talk category"}},
		{"everything wrong", func(f *TalkForm) {
			f.Title, f.Type, f.Level, f.Category = "", "x", "y", "z"
		}, []string{
			"Please fill in the title",
			"You did not choose a valid talk type",
			"You did not choose a valid talk level",
			"You did not choose a valid talk category",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			form := validForm()
			tt.modify(&form)
			is.Equal(form.Validate(opts), tt.want)
		})
	}
}

func TestTalkFormTalkIgnoresPostedOwner(t *testing.T) {
	is := is.New(t)
	talk := validForm().Talk(7)
	is.Equal(talk.UserID, 7)
	is.Equal(talk.Title, "My Talk")
	is.Equal(talk.Category, "php")
	is.Equal(talk.ID, 0)
}

func TestJoinMessages(t *testing.T) {
	is := is.New(t)
	is.Equal(JoinMessages([]string{"first", "second"}), "first<br>second")
	is.Equal(JoinMessages([]string{"a <tag>"}), "a &lt;tag&gt;")
	is.Equal(JoinMessages(nil), "")
}
