package service

import (
	"bytes"
	"strings"

	"dead_link_checker/internal/domain/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

// ExtractLinks returns the links of a markdown document in order of appearance.
// It covers inline and reference links, autolinks and <a href> anchors in raw HTML.
// Malformed markup never fails: whatever still parses as a link is returned.
func ExtractLinks(source []byte, sourcePath string) []models.LinkReference {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	links := []models.LinkReference{}
	for _, node := range linkNodes(doc) {
		links = append(links, nodeLinks(node, source, sourcePath)...)
	}
	return links
}

// linkNodes lists the nodes that can carry links, in document order.
func linkNodes(doc ast.Node) []ast.Node {
	var nodes []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Link, *ast.AutoLink, *ast.RawHTML, *ast.HTMLBlock:
			nodes = append(nodes, n)
		}
		return ast.WalkContinue, nil
	})
	return nodes
}

func nodeLinks(n ast.Node, source []byte, sourcePath string) []models.LinkReference {
	switch node := n.(type) {
	case *ast.Link:
		return []models.LinkReference{{
			URL:        string(decodeInline(node.Destination)),
			Title:      string(decodeInline(node.Title)),
			SourcePath: sourcePath,
		}}
	case *ast.AutoLink:
		url := string(node.URL(source))
		if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return []models.LinkReference{{URL: url, SourcePath: sourcePath}}
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			segment := node.Segments.At(i)
			buf.Write(segment.Value(source))
		}
		return htmlAnchors(buf.Bytes(), sourcePath)
	case *ast.HTMLBlock:
		var buf bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			buf.Write(segment.Value(source))
		}
		if node.HasClosure() {
			buf.Write(node.ClosureLine.Value(source))
		}
		return htmlAnchors(buf.Bytes(), sourcePath)
	}
	return nil
}

// decodeInline resolves backslash escapes and character references, which the
// parser leaves in link destinations and titles.
func decodeInline(raw []byte) []byte {
	decoded := util.UnescapePunctuations(raw)
	decoded = util.ResolveNumericReferences(decoded)
	return util.ResolveEntityNames(decoded)
}

// htmlAnchors tokenizes an HTML fragment and returns its <a href> anchors.
func htmlAnchors(fragment []byte, sourcePath string) []models.LinkReference {
	var links []models.LinkReference
	tokenizer := html.NewTokenizer(bytes.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}

			var href, title string
			found := false
			for more := true; more; {
				var key, val []byte
				key, val, more = tokenizer.TagAttr()
				switch string(key) {
				case "href":
					href = strings.TrimSpace(string(val))
					found = true
				case "title":
					title = string(val)
				}
			}

			if found && href != "" {
				links = append(links, models.LinkReference{URL: href, Title: title, SourcePath: sourcePath})
			}
		}
	}
}
