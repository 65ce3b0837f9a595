package service

import (
	"testing"

	"dead_link_checker/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks_SourceOrder(t *testing.T) {
	doc := "# Title\n" +
		"\n" +
		"See [guide](../guide.md \"Guide\") and [ref link][r].\n" +
		"\n" +
		"Visit <https://auto.example/> or mail <me@example.com>.\n" +
		"\n" +
		"Inline <a href=\"https://html.example/\" title=\"H\">anchor</a> here. ![img](pic.png) `[code](nope.md)`\n" +
		"\n" +
		"<div>\n" +
		"<a href=\"/block.md\">block</a>\n" +
		"</div>\n" +
		"\n" +
		"[r]: https://ref.example/ \"Ref\"\n"

	got := ExtractLinks([]byte(doc), "docs/a.md")

	want := []models.LinkReference{
		{URL: "../guide.md", Title: "Guide", SourcePath: "docs/a.md"},
		{URL: "https://ref.example/", Title: "Ref", SourcePath: "docs/a.md"},
		{URL: "https://auto.example/", SourcePath: "docs/a.md"},
		{URL: "mailto:me@example.com", SourcePath: "docs/a.md"},
		{URL: "https://html.example/", Title: "H", SourcePath: "docs/a.md"},
		{URL: "/block.md", SourcePath: "docs/a.md"},
	}
	assert.Equal(t, want, got)
}

func TestExtractLinks_EmptyTitleAndText(t *testing.T) {
	got := ExtractLinks([]byte("[](#top) [x](https://a.example/)"), "a.md")

	assert.Equal(t, []models.LinkReference{
		{URL: "#top", SourcePath: "a.md"},
		{URL: "https://a.example/", SourcePath: "a.md"},
	}, got)
}

func TestExtractLinks_MalformedMarkupDegrades(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "unclosed destination",
			doc:  "[broken](https://broken.example\n\nthen [ok](https://ok.example/)",
			want: []string{"https://ok.example/"},
		},
		{
			name: "truncated html anchor",
			doc:  "<a href=\n\n[ok](../ok.md)",
			want: []string{"../ok.md"},
		},
		{
			name: "unbalanced brackets",
			doc:  "[[[nested](https://n.example/)]]] ]]]((",
			want: []string{"https://n.example/"},
		},
		{
			name: "anchor without href",
			doc:  "<div>\n<a name=\"x\">x</a>\n</div>\n",
			want: nil,
		},
		{
			name: "empty document",
			doc:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			assert.NotPanics(t, func() {
				for _, link := range ExtractLinks([]byte(tt.doc), "a.md") {
					got = append(got, link.URL)
				}
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractLinks_DecodesEscapes(t *testing.T) {
	doc := "[x](../my\\_file.md \"a \\\"quoted\\\" title\") [y](../q&amp;a.md) [z](<../with space.md>)\n" +
		"[n](../caf&#233;.md) [r][ref]\n" +
		"\n" +
		"[ref]: ../ref\\_file.md \"R&amp;D\"\n"

	got := ExtractLinks([]byte(doc), "docs/guide/a.md")

	assert.Equal(t, []models.LinkReference{
		{URL: "../my_file.md", Title: `a "quoted" title`, SourcePath: "docs/guide/a.md"},
		{URL: "../q&a.md", SourcePath: "docs/guide/a.md"},
		{URL: "../with space.md", SourcePath: "docs/guide/a.md"},
		{URL: "../caf\u00e9.md", SourcePath: "docs/guide/a.md"},
		{URL: "../ref_file.md", Title: "R&D", SourcePath: "docs/guide/a.md"},
	}, got)
}

func TestExtractLinks_IsPure(t *testing.T) {
	doc := []byte("[a](https://a.example/) [b](../b.md)")

	first := ExtractLinks(doc, "x.md")
	second := ExtractLinks(doc, "x.md")

	assert.Equal(t, first, second)
	assert.Equal(t, "[a](https://a.example/) [b](../b.md)", string(doc))
}
