// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

// Package render formats normalized search results for terminal output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/leseb/searchsuite/pkg/websearch"
)

// PlainText strips HTML markup (highlight tags, entities) from s and
// collapses whitespace. Script and style elements are skipped entirely.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fall back to raw text if HTML is malformed
		return s
	}

	var sb strings.Builder
	extractTextFromNode(doc, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func extractTextFromNode(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}

	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractTextFromNode(c, sb)
	}
}

// Text writes one numbered block per result. With plain set, titles and
// content are passed through PlainText.
func Text(w io.Writer, results []websearch.Result, plain bool) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for i, r := range results {
		title, content := r.Title, r.Content
		if plain {
			title, content = PlainText(title), PlainText(content)
		}
		if _, err := fmt.Fprintf(w, "%d. %s [%s]\n   %s\n", i+1, title, r.Source, r.URL); err != nil {
			return err
		}
		if content != "" {
			if _, err := fmt.Fprintf(w, "   %s\n", content); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes results as an indented JSON array ("[]" when empty).
func JSON(w io.Writer, results []websearch.Result) error {
	if results == nil {
		results = []websearch.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
