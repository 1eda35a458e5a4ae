// Package htmltomarkdown renders sanitized record bodies as Markdown for
// terminal previews.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/cabinet"
)

var _ cabinet.Converter = (*Converter)(nil)

// Word-processor bodies pasted into the CMS are full of non-breaking spaces.
var spaceReplacer = strings.NewReplacer("\u00a0", " ", "&nbsp;", " ")

// Converter implements cabinet.Converter with html-to-markdown.
// Emphasis is written as _x_ and strong as **x**.
type Converter struct {
	md *converter.Converter
}

// NewConverter creates a Converter with the table plugin enabled.
func NewConverter() *Converter {
	return &Converter{
		md: converter.NewConverter(converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithEmDelimiter("_"),
				commonmark.WithStrongDelimiter("**"),
			),
			table.NewTablePlugin(),
		)),
	}
}

// Convert returns body as Markdown with non-breaking spaces turned into
// plain ones and trailing whitespace removed from every line.
// An empty body is EINVALID.
func (c *Converter) Convert(body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", cabinet.Errorf(cabinet.EINVALID, "empty HTML input")
	}

	md, err := c.md.ConvertString(body)
	if err != nil {
		return "", err
	}

	lines := strings.Split(spaceReplacer.Replace(md), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
