package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cabinet"
)

// CMS field markup.
const (
	fieldSelector      = ".field"
	fieldLabelSelector = ".field-label"
	fieldItemSelector  = ".field-item"
	fieldNamePrefix    = "field-name-"
)

// ExtractFields returns the labeled field blocks of the document in
// document order. Blocks without a non-empty item are dropped.
func ExtractFields(doc *goquery.Document) []cabinet.Field {
	fields := []cabinet.Field{}
	doc.Find(fieldSelector).Each(func(_ int, block *goquery.Selection) {
		values := fieldValues(block)
		if len(values) == 0 {
			return
		}
		fields = append(fields, cabinet.Field{
			Name:   cabinet.String(fieldName(block)),
			Label:  cabinet.String(fieldLabel(block)),
			Values: values,
		})
	})
	return fields
}

// fieldName returns the first class token carrying the field-name prefix.
func fieldName(block *goquery.Selection) string {
	class, _ := block.Attr("class")
	for _, token := range strings.Fields(class) {
		if strings.HasPrefix(token, fieldNamePrefix) {
			return token
		}
	}
	return ""
}

func fieldLabel(block *goquery.Selection) string {
	label := normalizeSpace(block.Find(fieldLabelSelector).First().Text())
	label = strings.TrimSuffix(label, ":")
	return strings.TrimSpace(label)
}

func fieldValues(block *goquery.Selection) []string {
	var values []string
	block.Find(fieldItemSelector).Each(func(_ int, item *goquery.Selection) {
		if v := visibleText(item); v != "" {
			values = append(values, v)
		}
	})
	return values
}
