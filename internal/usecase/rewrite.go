package usecase

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

const (
	markerOpen  = `<span class="broken-link" data-href="`
	markerClose = `"></span>`
)

var markerPattern = regexp.MustCompile(`<span class="broken-link" data-href="[^"]*"></span>`)

// BrokenLinkMarker is the inert replacement for a broken URL.
func BrokenLinkMarker(url string) string {
	return markerOpen + html.EscapeString(url) + markerClose
}

// RewriteBrokenLinks replaces every literal occurrence of each URL, raw or
// attribute-escaped, with its marker. Text inside existing markers is left
// alone, so the rewrite is idempotent. Longer URLs are rewritten first so a URL
// that prefixes another one cannot split it.
func RewriteBrokenLinks(doc string, urls ...string) string {
	ordered := append([]string(nil), urls...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	for _, url := range ordered {
		if url == "" {
			continue
		}
		doc = rewriteOne(doc, url)
	}
	return doc
}

func rewriteOne(doc, url string) string {
	marker := BrokenLinkMarker(url)

	pairs := []string{url, marker}
	if escaped := html.EscapeString(url); escaped != url {
		pairs = []string{escaped, marker, url, marker}
	}
	replacer := strings.NewReplacer(pairs...)

	var b strings.Builder
	b.Grow(len(doc))

	last := 0
	for _, loc := range markerPattern.FindAllStringIndex(doc, -1) {
		b.WriteString(replacer.Replace(doc[last:loc[0]]))
		b.WriteString(doc[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(replacer.Replace(doc[last:]))

	return b.String()
}
