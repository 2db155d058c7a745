package docx

import (
	"encoding/xml"
	"strings"
)

type xmlStyles struct {
	Styles []xmlStyle `xml:"style"`
}

type xmlStyle struct {
	Type    string `xml:"type,attr"`
	Default string `xml:"default,attr"`
	StyleID string `xml:"styleId,attr"`
	Name    struct {
		Val string `xml:"val,attr"`
	} `xml:"name"`
}

// styleTable maps paragraph style IDs to their UI names.
type styleTable struct {
	names       map[string]string
	defaultName string
}

func parseStyles(data []byte) (*styleTable, error) {
	var xs xmlStyles
	if err := xml.Unmarshal(data, &xs); err != nil {
		return nil, err
	}

	st := &styleTable{
		names:       make(map[string]string, len(xs.Styles)),
		defaultName: DefaultStyle,
	}
	for _, s := range xs.Styles {
		if s.Type != "" && s.Type != "paragraph" {
			continue
		}

		name := uiName(s.Name.Val)
		if name == "" {
			name = s.StyleID
		}
		st.names[s.StyleID] = name

		if s.Default == "1" || s.Default == "true" {
			st.defaultName = name
		}
	}

	return st, nil
}

// uiName maps the lowercase names stored for built-in styles to the names
// shown to users, so that "heading 1" becomes "Heading 1".
func uiName(name string) string {
	switch {
	case strings.HasPrefix(name, "heading "):
		return "Heading " + strings.TrimPrefix(name, "heading ")
	case name == "normal":
		return "Normal"
	case name == "title":
		return "Title"
	}
	return name
}

// name returns the style name for a style ID. Unknown and empty IDs get the
// default paragraph style.
func (st *styleTable) name(id string) string {
	if n, ok := st.names[id]; ok {
		return n
	}
	return st.defaultName
}
