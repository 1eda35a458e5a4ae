package goquery

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/cabinet"
)

var (
	// mediaNodesRe finds the media node list in an embedded settings blob,
	// e.g. "media_nids":[101,"102"], including JSON escaped inside a string.
	mediaNodesRe = regexp.MustCompile(`media_nids[\\"']*\s*:\s*\[([^\]]*)\]`)

	// mediaImageRe finds uploaded image paths in raw markup.
	mediaImageRe = regexp.MustCompile(`(?i)(?:https?://[^\s"'<>()/]+)?/sites/default/files/[^\s"'<>()?]+?\.(?:jpe?g|png|gif)\b`)
)

// MediaNodeIDs returns the media node identifiers named in raw markup.
// Entries that are not integers are skipped.
func MediaNodeIDs(raw string) []int {
	m := mediaNodesRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	var ids []int
	for _, entry := range strings.Split(m[1], ",") {
		entry = strings.Trim(strings.TrimSpace(entry), `\"' `)
		id, err := strconv.Atoi(entry)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// MediaNodeURL returns the address of a media node page.
func MediaNodeURL(origin string, id int) string {
	return fmt.Sprintf("%s/node/%d", strings.TrimRight(origin, "/"), id)
}

// ScanImagePaths returns canonical URLs of uploaded images mentioned
// anywhere in raw markup, in order of appearance. Duplicates are kept.
func ScanImagePaths(raw, origin string) []string {
	matches := mediaImageRe.FindAllString(raw, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, cabinet.CanonicalImageURL(m, origin))
	}
	return urls
}

// ResolveMediaNodes fetches each media node named in raw, one at a time,
// and returns the images found in their markup that are not yet in seen.
// A node that cannot be fetched is skipped.
func ResolveMediaNodes(ctx context.Context, fetcher cabinet.Fetcher, raw, origin string, seen cabinet.URLSet) []cabinet.Image {
	images := []cabinet.Image{}
	for _, id := range MediaNodeIDs(raw) {
		node, err := fetcher.Fetch(ctx, MediaNodeURL(origin, id))
		if err != nil {
			continue
		}
		for _, u := range ScanImagePaths(node, origin) {
			if seen.Add(u) {
				images = append(images, cabinet.Image{URL: u})
			}
		}
	}
	return images
}
