package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cabinet"
)

// Substrings that mark site chrome rather than content images.
var chromeMarkers = []string{"/themes/", "logo"}

// Path markers of the CMS user-uploaded file area.
var contentFileMarkers = []string{"/sites/default/files/", "/files/"}

// CollectImages returns the content images of the document in document
// order, skipping chrome images and any canonical URL already in seen.
func CollectImages(doc *goquery.Document, origin string, seen cabinet.URLSet) []cabinet.Image {
	images := []cabinet.Image{}
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := cabinet.ImageSource(img)
		if !ok {
			return
		}
		abs := cabinet.AbsoluteURL(src, origin)
		if containsAny(abs, chromeMarkers) || !containsAny(abs, contentFileMarkers) {
			return
		}
		canonical := cabinet.StripImageVariant(abs)
		if !seen.Add(canonical) {
			return
		}
		alt, _ := img.Attr("alt")
		images = append(images, cabinet.Image{
			URL:     canonical,
			Caption: cabinet.String(normalizeSpace(alt)),
		})
	})
	return images
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
