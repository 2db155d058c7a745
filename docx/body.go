package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Paragraph is one body paragraph.
type Paragraph struct {
	// StyleID is the value of the paragraph style property, if any.
	StyleID string

	// Style is the name of the paragraph style.
	Style string

	// Text is the text of the runs of the paragraph.
	Text string

	// HasGraphic is true when a run of the paragraph holds a drawing or
	// picture.
	HasGraphic bool

	// RelIDs lists the relationship IDs of the picture data (a:blip and
	// v:imagedata) in the graphics of the paragraph, in document order,
	// without duplicates.
	RelIDs []string
}

// node is a generic element tree.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

func (n *node) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// parseBody decodes the paragraphs that are direct children of the body.
func parseBody(data []byte, styles *styleTable) ([]Paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		paras  []Paragraph
		depth  int
		inBody bool
		body   int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return paras, nil
		} else if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if !inBody && t.Name.Local == "body" {
				inBody, body = true, depth
				continue
			}

			if inBody && depth == body+1 && t.Name.Local == "p" {
				var n node
				if err := dec.DecodeElement(&n, &t); err != nil {
					return nil, err
				}
				depth--
				paras = append(paras, makeParagraph(&n, styles))
			}
		case xml.EndElement:
			if inBody && depth == body {
				inBody = false
			}
			depth--
		}
	}
}

func makeParagraph(p *node, styles *styleTable) Paragraph {
	para := Paragraph{}
	var text strings.Builder

	for i := range p.Nodes {
		c := &p.Nodes[i]
		switch c.XMLName.Local {
		case "pPr":
			for j := range c.Nodes {
				if c.Nodes[j].XMLName.Local == "pStyle" {
					para.StyleID = c.Nodes[j].attr("val")
				}
			}
		case "r":
			readRun(c, &para, &text)
		case "hyperlink", "ins", "smartTag":
			for j := range c.Nodes {
				if c.Nodes[j].XMLName.Local == "r" {
					readRun(&c.Nodes[j], &para, &text)
				}
			}
		}
	}

	para.Style = styles.name(para.StyleID)
	para.Text = text.String()
	return para
}

func readRun(r *node, para *Paragraph, text *strings.Builder) {
	for i := range r.Nodes {
		c := &r.Nodes[i]
		switch c.XMLName.Local {
		case "t":
			text.WriteString(c.Content)
		case "tab":
			text.WriteByte('\t')
		case "br", "cr":
			text.WriteByte('\n')
		default:
			if isGraphic(c) {
				para.HasGraphic = true
				collectRelIDs(c, para)
			}
		}
	}
}

// isGraphic reports whether the element holds a drawing or picture.
func isGraphic(n *node) bool {
	switch n.XMLName.Local {
	case "drawing", "pict", "graphicData", "pic", "imagedata":
		return true
	}
	if strings.Contains(n.XMLName.Space, "picture") {
		return true
	}
	for i := range n.Nodes {
		if isGraphic(&n.Nodes[i]) {
			return true
		}
	}
	return false
}

// imageRefs names the elements that point at picture data and the
// relationship attributes they carry. Other relationship attributes inside a
// graphic, such as the r:id of a:hlinkClick, are hyperlinks or links to
// charts.
var imageRefs = map[string][]string{
	"blip":      {"embed", "link"},
	"imagedata": {"id"},
}

func collectRelIDs(n *node, para *Paragraph) {
	for _, name := range imageRefs[n.XMLName.Local] {
		for _, a := range n.Attrs {
			if a.Name.Local != name || !strings.Contains(a.Name.Space, "relationships") || a.Value == "" {
				continue
			}
			if !contains(para.RelIDs, a.Value) {
				para.RelIDs = append(para.RelIDs, a.Value)
			}
		}
	}
	for i := range n.Nodes {
		collectRelIDs(&n.Nodes[i], para)
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
