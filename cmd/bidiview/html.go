package main

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uax9/bidi"
	"golang.org/x/net/html"
)

// textFromHTML collects the text of an HTML fragment. The dir attribute of
// the first element carrying one determines the paragraph level.
func textFromHTML(input io.Reader) (string, bidi.Level, error) {
	nodes, err := html.ParseFragment(input, nil)
	if err != nil {
		return "", 0, err
	}
	var b strings.Builder
	level, found := bidi.LevelDefaultLTR, false
	for _, n := range nodes {
		collectText(n, &b, &level, &found)
	}
	return b.String(), level, nil
}

func collectText(n *html.Node, b *strings.Builder, level *bidi.Level, found *bool) {
	switch n.Type {
	case html.ElementNode:
		if !*found {
			for _, a := range n.Attr {
				if a.Key == "dir" {
					*level, *found = levelFromDir(a.Val), true
					tracing.Debugf("<%s dir=%q>", n.Data, a.Val)
				}
			}
		}
		if n.Data == "br" || (n.Data == "p" && b.Len() > 0) {
			b.WriteByte('\n')
		}
	case html.TextNode:
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b, level, found)
	}
}

func levelFromDir(dir string) bidi.Level {
	switch strings.ToLower(dir) {
	case "ltr":
		return 0
	case "rtl":
		return 1
	}
	return bidi.LevelDefaultLTR
}
