package cabinet

import "regexp"

// EmphasisKind is the semantic intent recovered from an inline style.
type EmphasisKind int

const (
	EmphasisNone EmphasisKind = iota
	EmphasisItalic
	EmphasisBold
	EmphasisBoldItalic
)

func (k EmphasisKind) String() string {
	switch k {
	case EmphasisItalic:
		return "italic"
	case EmphasisBold:
		return "bold"
	case EmphasisBoldItalic:
		return "bold-italic"
	default:
		return "none"
	}
}

var (
	italicStyleRe = regexp.MustCompile(`(?i)font-style\s*:\s*italic\b`)
	boldStyleRe   = regexp.MustCompile(`(?i)font-weight\s*:\s*(bold|700)\b`)
)

// StyleToEmphasisKind classifies an inline style attribute value.
func StyleToEmphasisKind(style string) EmphasisKind {
	italic := italicStyleRe.MatchString(style)
	bold := boldStyleRe.MatchString(style)
	switch {
	case italic && bold:
		return EmphasisBoldItalic
	case bold:
		return EmphasisBold
	case italic:
		return EmphasisItalic
	default:
		return EmphasisNone
	}
}
