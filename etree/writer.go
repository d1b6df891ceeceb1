// Package etree exports tables as XML documents.
package etree

import (
	"io"
	"regexp"

	"github.com/beevik/etree"
	"github.com/fwojciec/linkbot"
)

// Ensure Writer implements linkbot.TableWriter at compile time.
var _ linkbot.TableWriter = (*Writer)(nil)

// Writer encodes a table as <profiles><profile><column>value</column>...
type Writer struct {
	Root string
	Item string
}

// NewWriter returns a Writer with the profile element names.
func NewWriter() *Writer {
	return &Writer{Root: "profiles", Item: "profile"}
}

func (w *Writer) Ext() string {
	return ".xml"
}

func (w *Writer) WriteTable(out io.Writer, t *linkbot.Table) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(w.Root)

	tags := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		tags[i] = ElementName(c)
	}
	for _, row := range t.Rows {
		item := root.CreateElement(w.Item)
		for i, tag := range tags {
			el := item.CreateElement(tag)
			if i < len(row) {
				el.SetText(row[i])
			}
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(out)
	return err
}

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ElementName turns a column name into a valid XML element name.
func ElementName(column string) string {
	name := invalidNameChars.ReplaceAllString(column, "_")
	if name == "" {
		return "field"
	}
	if c := name[0]; (c >= '0' && c <= '9') || c == '-' || c == '.' {
		name = "_" + name
	}
	return name
}
