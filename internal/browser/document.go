package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements start a new line in rendered text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "label": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// Document is a parsed snapshot of the rendered page.
type Document struct {
	doc *goquery.Document
}

// ParseDocument parses rendered HTML.
func ParseDocument(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Text returns the rendered text of the first element with the data-testid, or "".
func (d *Document) Text(fieldID string) string {
	sel := d.doc.Find(testIDSelector(fieldID)).First()
	if sel.Length() == 0 {
		return ""
	}
	return renderText(sel)
}

// TextList returns the rendered text of every element with the data-testid.
func (d *Document) TextList(fieldID string) []string {
	var out []string
	d.doc.Find(testIDSelector(fieldID)).Each(func(_ int, s *goquery.Selection) {
		out = append(out, renderText(s))
	})
	return out
}

// Attribute returns an attribute of the first element matching a CSS selector.
func (d *Document) Attribute(selector, attr string) (string, bool) {
	return d.doc.Find(selector).First().Attr(attr)
}

func testIDSelector(id string) string {
	return "[data-testid='" + id + "']"
}

// renderText approximates innerText: block elements and <br> break lines,
// runs of whitespace collapse, and blank lines are dropped.
func renderText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			switch name := goquery.NodeName(c); {
			case name == "#text":
				b.WriteString(c.Text())
			case name == "br":
				b.WriteString("\n")
			case name == "script" || name == "style" || name == "#comment":
			case blockElements[name]:
				b.WriteString("\n")
				walk(c)
				b.WriteString("\n")
			default:
				walk(c)
			}
		})
	}
	walk(sel)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
