package fetcher

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type pageMetadata struct {
	title   string
	authors []string
}

// authorSelectors lists the meta tags news sites use for bylines, most specific first.
var authorSelectors = []string{
	`meta[name="author"]`,
	`meta[property="article:author"]`,
	`meta[name="parsely-author"]`,
	`meta[name="sailthru.author"]`,
	`meta[name="dc.creator"]`,
}

// readMetadata reads the title and author meta tags of an HTML page.
// Unparsable HTML yields empty metadata.
func readMetadata(html []byte) pageMetadata {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return pageMetadata{}
	}

	var meta pageMetadata
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		meta.title = strings.TrimSpace(og)
	}
	if meta.title == "" {
		meta.title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	for _, sel := range authorSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			content, _ := s.Attr("content")
			content = strings.TrimSpace(content)
			// article:author often holds a profile URL rather than a name.
			if content == "" || strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
				return
			}
			meta.authors = append(meta.authors, content)
		})
	}
	return meta
}

// mergeAuthors returns the meta authors followed by the byline, without duplicates.
// The byline, with any "By " prefix removed, is only used when there are no meta authors.
func mergeAuthors(metaAuthors []string, byline string) []string {
	seen := make(map[string]struct{})
	authors := make([]string, 0, len(metaAuthors)+1)
	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		authors = append(authors, name)
	}

	for _, a := range metaAuthors {
		add(a)
	}

	byline = strings.TrimSpace(byline)
	if lower := strings.ToLower(byline); strings.HasPrefix(lower, "by ") {
		byline = strings.TrimSpace(byline[3:])
	}
	if len(authors) == 0 {
		add(byline)
	}
	return authors
}
