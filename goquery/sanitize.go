package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cabinet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// styleWrapperSelector matches inline elements whose only purpose is to
// carry an inline style.
const styleWrapperSelector = "span"

// presentationalAttrs are removed from every element of sanitized markup.
var presentationalAttrs = []string{"style", "class", "align", "valign", "bgcolor", "color", "face"}

// responsiveAttrs are dropped from images once a single source is chosen.
var responsiveAttrs = []string{cabinet.AttrLazySrc, cabinet.AttrSrcset, cabinet.AttrLazySrcset, "sizes"}

// Sanitize returns the cleaned inner markup of the first element of sel.
// Links are absolutized against origin, image sources are canonicalized,
// styled spans become em/strong or are unwrapped, and presentational
// attributes are removed. The input document is not modified.
// It returns an empty string when there is no content.
func Sanitize(sel *goquery.Selection, origin string) string {
	if sel.Length() == 0 {
		return ""
	}
	body := sel.First().Clone()

	body.Find("script, style").Remove()

	body.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if cabinet.IsNonWebReference(href) {
			return
		}
		if abs := cabinet.AbsoluteURL(href, origin); abs != "" {
			a.SetAttr("href", abs)
		}
	})

	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := cabinet.ImageSource(img); ok {
			img.SetAttr(cabinet.AttrSrc, cabinet.CanonicalImageURL(src, origin))
		}
		for _, name := range responsiveAttrs {
			img.RemoveAttr(name)
		}
	})

	// Wrappers are rewritten in place, so nested wrappers stay valid
	// while their ancestors change.
	for _, n := range body.Find(styleWrapperSelector).Nodes {
		rewriteStyleWrapper(n)
	}

	all := body.Find("*")
	for _, name := range presentationalAttrs {
		all.RemoveAttr(name)
	}

	out, err := body.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// rewriteStyleWrapper replaces an inline wrapper according to the
// emphasis its style attribute expresses.
func rewriteStyleWrapper(n *html.Node) {
	kind := cabinet.StyleToEmphasisKind(attrValue(n, "style"))
	switch kind {
	case cabinet.EmphasisItalic:
		retag(n, atom.Em)
	case cabinet.EmphasisBold:
		retag(n, atom.Strong)
	case cabinet.EmphasisBoldItalic:
		// Bold is always the outer element.
		retag(n, atom.Strong)
		em := &html.Node{Type: html.ElementNode, DataAtom: atom.Em, Data: atom.Em.String()}
		moveChildren(n, em)
		n.AppendChild(em)
	default:
		unwrap(n)
	}
}

func retag(n *html.Node, a atom.Atom) {
	n.DataAtom = a
	n.Data = a.String()
	n.Attr = nil
}

func moveChildren(from, to *html.Node) {
	for c := from.FirstChild; c != nil; c = from.FirstChild {
		from.RemoveChild(c)
		to.AppendChild(c)
	}
}

func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
