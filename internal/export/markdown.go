// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/pdiddy/pubharvest/pkg/types"
)

// RenderRecord formats one record as a fixed markdown block. Every record
// renders the same fields in the same order, classification aside.
func RenderRecord(r *types.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#### %s\n\n", r.Title)
	fmt.Fprintf(&b, "- **PMID**: %s\n", r.PMID)
	fmt.Fprintf(&b, "- **DOI**: %s\n", r.DOI)
	fmt.Fprintf(&b, "- **Keywords**: %s\n", strings.Join(r.Keywords, ", "))
	fmt.Fprintf(&b, "- **First Author**: %s\n", formatAuthor(r.FirstAuthor()))
	fmt.Fprintf(&b, "- **Corresponding Author**: %s\n", formatAuthor(r.LastAuthor()))
	fmt.Fprintf(&b, "- **Journal**: %s\n", r.Journal)
	fmt.Fprintf(&b, "- **Publication Date**: %s\n\n", r.PubDate)
	fmt.Fprintf(&b, "**Abstract**: %s\n\n", r.Abstract)
	return b.String()
}

// RenderAll concatenates the rendered blocks of all records in order.
func RenderAll(records []types.Record) string {
	var b strings.Builder
	for i := range records {
		b.WriteString(RenderRecord(&records[i]))
	}
	return b.String()
}

func formatAuthor(a types.Author) string {
	if a.Name == "" {
		return ""
	}
	if a.Affiliation == "" {
		return a.Name
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Affiliation)
}

// htmlShell wraps rendered content in a minimal styled page.
const htmlShell = `<!DOCTYPE html>
<html><head><meta charset="UTF-8">
<style>
body { font-family: sans-serif; margin: 2cm; line-height: 1.6; }
h1, h2, h3, h4 { color: #333; }
code { background-color: #f5f5f5; padding: 2px 4px; }
pre { background-color: #f5f5f5; padding: 10px; }
</style>
</head><body>
%s</body></html>
`

// HTMLDocument converts rendered markdown into a standalone HTML page.
func HTMLDocument(markdown string) []byte {
	body := blackfriday.Run([]byte(markdown))
	return []byte(fmt.Sprintf(htmlShell, body))
}
