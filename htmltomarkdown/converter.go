// Package htmltomarkdown converts profile section HTML to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linkbot"
)

// Ensure Converter implements linkbot.Converter at compile time.
var _ linkbot.Converter = (*Converter)(nil)

// noise matches markup that never carries section content: screen reader
// duplicates, controls and scripts.
const noise = ".visually-hidden, .a11y-text, button, script, style, svg, li-icon"

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert removes noise from an HTML fragment and transforms the rest into
// Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", linkbot.Errorf(linkbot.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find(noise).Remove()
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}
