package convert

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"
)

// ContentID returns the content identifier of the image for placeholder k.
func ContentID(k int) string {
	return fmt.Sprintf("image_%d", k)
}

// Render renders the units as an HTML fragment, one element per line.
func Render(units []Unit) string {
	return render(units, nil)
}

// render renders the units. Placeholders for which missing returns true get
// alt text naming the missing image.
func render(units []Unit, missing func(ImagePlaceholder) bool) string {
	lines := make([]string, 0, len(units))
	for _, u := range units {
		switch u := u.(type) {
		case Heading:
			lines = append(lines, fmt.Sprintf("<h%d>%s</h%d>", u.Level, html.EscapeString(u.Text), u.Level))
		case Paragraph:
			lines = append(lines, fmt.Sprintf("<p>%s</p>", html.EscapeString(u.Text)))
		case ImagePlaceholder:
			alt := ""
			if missing != nil && missing(u) {
				alt = fmt.Sprintf(` alt="%s unavailable"`, ContentID(u.Index))
			}
			lines = append(lines, fmt.Sprintf(`<img src="cid:%s" style="max-width:100%%;"%s/>`, ContentID(u.Index), alt))
		}
	}
	return strings.Join(lines, "\n")
}

var documentTemplate = template.Must(template.New("document").Parse(`<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; }
p { margin: 1em 0; }
img { display: block; margin: 1em 0; }
</style>
</head>
<body>
{{.}}
</body>
</html>
`))

// Document wraps an HTML fragment in a minimal document with the fixed
// stylesheet. The fragment is inserted as is; Render escapes the text it
// emits.
func Document(fragment string) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, fragment); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}
