package convert

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/zostay/docmail/docx"
)

// HeadingPrefix is the style name prefix that marks a heading paragraph.
const HeadingPrefix = "Heading"

// Extract returns the content units of the body paragraphs in document order.
//
// A paragraph holding a graphic becomes an ImagePlaceholder and its text is
// ignored. Otherwise, a paragraph with only whitespace yields nothing, one
// whose style name starts with "Heading" and ends in a level from 1 to 6
// yields a Heading, and any other yields a Paragraph. Heading styles without
// a valid level are treated as plain paragraphs.
func Extract(doc *docx.Document) []Unit {
	units := make([]Unit, 0, len(doc.Paragraphs))
	index := 0
	for _, p := range doc.Paragraphs {
		if p.HasGraphic {
			units = append(units, ImagePlaceholder{Index: index, RelID: imageRelID(doc, p.RelIDs)})
			index++
			continue
		}

		if strings.TrimSpace(p.Text) == "" {
			continue
		}

		text := norm.NFC.String(p.Text)
		if level, ok := headingLevel(p.Style); ok {
			units = append(units, Heading{Level: level, Text: text})
			continue
		}

		units = append(units, Paragraph{Text: text})
	}

	return units
}

// imageRelID picks the first ID naming an image relationship. When none
// does, or the table lacks them all, it falls back to the first ID.
func imageRelID(doc *docx.Document, ids []string) string {
	for _, id := range ids {
		if rel, ok := doc.Relationship(id); ok && rel.IsImage() {
			return id
		}
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// headingLevel parses the level from the trailing digits of a heading style
// name.
func headingLevel(style string) (int, bool) {
	if !strings.HasPrefix(style, HeadingPrefix) {
		return 0, false
	}

	end := len(style)
	start := end
	for start > len(HeadingPrefix) && style[start-1] >= '0' && style[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}

	level, err := strconv.Atoi(style[start:end])
	if err != nil || level < 1 || level > 6 {
		return 0, false
	}

	return level, true
}
