package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cabinet"
)

// thumbnailMarker identifies images that link to related item pages.
const thumbnailMarker = "/styles/thumbnail/"

// DefaultMaxRelated bounds how many related pages the fallback visits.
const DefaultMaxRelated = 5

// thumbnailAttrs are checked for the thumbnail marker.
var thumbnailAttrs = []string{cabinet.AttrSrc, cabinet.AttrLazySrc, cabinet.AttrSrcset, cabinet.AttrLazySrcset}

// RelatedLink is a link to a related item page.
type RelatedLink struct {
	URL     string
	Caption *string
}

// relatedCaptionOverrides controls whether images imported from a related
// page take the caption of the link that led to them instead of their own.
const relatedCaptionOverrides = true

// RelatedLinks returns links whose image is a thumbnail rendition, with
// absolute URLs, deduplicated in first-seen order. The caption is the
// link text, or the thumbnail's alt text when the link has none.
func RelatedLinks(doc *goquery.Document, origin string) []RelatedLink {
	var links []RelatedLink
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		thumb := a.Find("img").FilterFunction(func(_ int, img *goquery.Selection) bool {
			return isThumbnail(img)
		}).First()
		if thumb.Length() == 0 {
			return
		}
		href, _ := a.Attr("href")
		abs := cabinet.AbsoluteURL(href, origin)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true

		caption := normalizeSpace(a.Text())
		if caption == "" {
			alt, _ := thumb.Attr("alt")
			caption = normalizeSpace(alt)
		}
		links = append(links, RelatedLink{URL: abs, Caption: cabinet.String(caption)})
	})
	return links
}

func isThumbnail(img *goquery.Selection) bool {
	for _, name := range thumbnailAttrs {
		if v, ok := img.Attr(name); ok && strings.Contains(v, thumbnailMarker) {
			return true
		}
	}
	return false
}

// relatedImages visits up to max links in order and returns the images of
// the first related page that has any. Pages that cannot be fetched or
// parsed are skipped. An empty result is not an error.
func (e *Extractor) relatedImages(ctx context.Context, links []RelatedLink, seen cabinet.URLSet) []cabinet.Image {
	if len(links) > e.maxRelated {
		links = links[:e.maxRelated]
	}
	for _, link := range links {
		images := e.pageImages(ctx, link.URL, seen)
		if len(images) == 0 {
			continue
		}
		if relatedCaptionOverrides {
			for i := range images {
				images[i].Caption = link.Caption
			}
		}
		return images
	}
	return []cabinet.Image{}
}

// pageImages runs image collection and media node resolution against
// another page.
func (e *Extractor) pageImages(ctx context.Context, url string, seen cabinet.URLSet) []cabinet.Image {
	raw, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	origin, err := cabinet.Origin(url)
	if err != nil {
		return nil
	}
	images := CollectImages(doc, origin, seen)
	return append(images, ResolveMediaNodes(ctx, e.fetcher, raw, origin, seen)...)
}
