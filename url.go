package cabinet

import (
	"net/url"
	"regexp"
	"strings"
)

// imageVariantRe matches the path segment the CMS inserts for resized
// renditions of an uploaded image, e.g. /styles/large/public/.
var imageVariantRe = regexp.MustCompile(`/styles/[^/]+/public/`)

// Origin returns the scheme and host of an absolute URL, e.g. https://example.com.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// AbsoluteURL resolves ref against origin.
// Absolute http(s) URLs pass through, protocol-relative URLs get https,
// root-relative URLs are prefixed with origin, and anything else is joined
// to origin with a single slash. Dot segments are not resolved.
func AbsoluteURL(ref, origin string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	origin = strings.TrimRight(origin, "/")

	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return origin + ref
	default:
		return origin + "/" + ref
	}
}

// IsNonWebReference reports whether ref is an in-page fragment or uses a
// scheme other than http(s), such as mailto: or tel:. Such references are
// left as written.
func IsNonWebReference(ref string) bool {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "#") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Scheme != "http" && u.Scheme != "https"
}

// StripImageVariant removes image-style path segments and the query string
// so that every rendition of an uploaded image maps to one identity.
// Applying it more than once yields the same result.
func StripImageVariant(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	for {
		stripped := imageVariantRe.ReplaceAllString(u, "/")
		if stripped == u {
			return u
		}
		u = stripped
	}
}

// CanonicalImageURL returns the absolute, variant-free URL used as the
// deduplication key for images. Never use it for ordinary links.
func CanonicalImageURL(ref, origin string) string {
	return StripImageVariant(AbsoluteURL(ref, origin))
}
