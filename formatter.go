package cabinet

import "strings"

// FormatRecord renders a record as a Markdown preview. body is the record's
// body already converted to Markdown; when empty, BodyText is used.
// Uses title if available, falls back to source URL.
func FormatRecord(rec *Record, body string) string {
	var b strings.Builder

	header := rec.Title
	if header == "" {
		header = rec.SourceURL
	}
	b.WriteString("# " + header + "\n\n")
	b.WriteString("Source: " + rec.SourceURL + "\n")
	if len(rec.Tags) > 0 {
		b.WriteString("Tags: " + strings.Join(rec.Tags, ", ") + "\n")
	}

	if len(rec.Fields) > 0 {
		b.WriteString("\n## Fields\n\n")
		for _, f := range rec.Fields {
			b.WriteString("- " + fieldHeading(f) + ": " + strings.Join(f.Values, "; ") + "\n")
		}
	}

	if len(rec.Images) > 0 {
		b.WriteString("\n## Images\n\n")
		for _, img := range rec.Images {
			b.WriteString("- " + img.URL)
			if img.Caption != nil {
				b.WriteString(" (" + *img.Caption + ")")
			}
			b.WriteString("\n")
		}
	}

	if body == "" {
		body = rec.BodyText
	}
	if body != "" {
		b.WriteString("\n## Body\n\n" + body + "\n")
	}

	return b.String()
}

func fieldHeading(f Field) string {
	switch {
	case f.Label != nil:
		return *f.Label
	case f.Name != nil:
		return *f.Name
	default:
		return "(unlabeled)"
	}
}
