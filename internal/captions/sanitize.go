package captions

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// legacy tokens left behind by SRT-era tooling
var artifactReplacer = strings.NewReplacer(
	"â™ª", "♪", // UTF-8 music note read as Windows-1252
	`{\an1}`, "",
	`{\an2}`, "",
	`{\an3}`, "",
	`{\an4}`, "",
	`{\an5}`, "",
	`{\an6}`, "",
	`{\an7}`, "",
	`{\an8}`, "",
	`{\an9}`, "",
)

var fragmentContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

// Sanitize normalizes known artifacts in a caption line and reduces any
// embedded markup to its text content.
func Sanitize(line string) string {
	return stripMarkup(artifactReplacer.Replace(line))
}

func stripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), fragmentContext)
	if err != nil {
		return fragment
	}

	var sb strings.Builder
	for _, n := range nodes {
		collectText(&sb, n)
	}
	return sb.String()
}

func collectText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(sb, c)
	}
}
