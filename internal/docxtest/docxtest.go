// Package docxtest builds small word-processing packages in memory for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relDoc       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
)

type rel struct {
	id, typ, target string
	external        bool
}

type style struct {
	id, name string
}

// Builder accumulates body paragraphs, relationships and media parts.
type Builder struct {
	paras  []string
	rels   []rel
	media  map[string][]byte
	styles []style
}

// New returns a Builder with a default Normal style and the built-in
// heading styles Heading1 through Heading9.
func New() *Builder {
	b := &Builder{media: map[string][]byte{}}
	b.styles = append(b.styles, style{"Normal", "normal"})
	for i := 1; i <= 9; i++ {
		b.styles = append(b.styles, style{fmt.Sprintf("Heading%d", i), fmt.Sprintf("heading %d", i)})
	}
	return b
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Style declares a paragraph style.
func (b *Builder) Style(id, name string) *Builder {
	b.styles = append(b.styles, style{id, name})
	return b
}

// Paragraph adds a paragraph with no style.
func (b *Builder) Paragraph(text string) *Builder {
	return b.Styled("", text)
}

// Heading adds a paragraph in the built-in heading style of the given level.
func (b *Builder) Heading(level int, text string) *Builder {
	return b.Styled(fmt.Sprintf("Heading%d", level), text)
}

// Styled adds a paragraph with the given style ID.
func (b *Builder) Styled(styleID, text string) *Builder {
	var p strings.Builder
	p.WriteString("<w:p>")
	if styleID != "" {
		fmt.Fprintf(&p, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, escape(styleID))
	}
	fmt.Fprintf(&p, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, escape(text))
	p.WriteString("</w:p>")
	b.paras = append(b.paras, p.String())
	return b
}

// Raw adds the given markup as the inner XML of a paragraph.
func (b *Builder) Raw(inner string) *Builder {
	b.paras = append(b.paras, "<w:p>"+inner+"</w:p>")
	return b
}

// Relationship adds an entry to the document relationship table and returns
// its ID.
func (b *Builder) Relationship(typ, target string, external bool) string {
	id := fmt.Sprintf("rId%d", len(b.rels)+10)
	b.rels = append(b.rels, rel{id, typ, target, external})
	return id
}

// Media stores an image under word/media and adds an image relationship for
// it. It returns the relationship ID.
func (b *Builder) Media(name string, data []byte) string {
	b.media["word/media/"+name] = data
	return b.Relationship(relImage, "media/"+name, false)
}

// Graphic adds a paragraph holding an inline drawing that shows the image of
// the given relationship.
func (b *Builder) Graphic(relID string) *Builder {
	return b.drawing(`<wp:docPr id="1" name="Picture 1"/>`, relID)
}

// LinkedGraphic adds a drawing like Graphic whose picture is also a hyperlink
// to the given URL, the way Word writes a picture with a link on it.
func (b *Builder) LinkedGraphic(url, relID string) *Builder {
	link := b.Relationship(relHyperlink, url, true)
	return b.drawing(fmt.Sprintf(`<wp:docPr id="1" name="Picture 1">`+
		`<a:hlinkClick xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" r:id="%s"/>`+
		`</wp:docPr>`, link), relID)
}

func (b *Builder) drawing(docPr, relID string) *Builder {
	return b.Raw(fmt.Sprintf(`<w:r><w:drawing><wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">%s`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:blipFill><a:blip r:embed="%s"/></pic:blipFill>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`, docPr, relID))
}

// EmbeddedImage adds a media part and a paragraph showing it.
func (b *Builder) EmbeddedImage(name string, data []byte) *Builder {
	return b.Graphic(b.Media(name, data))
}

// ExternalImage adds an external image relationship and a paragraph showing
// it.
func (b *Builder) ExternalImage(target string) *Builder {
	return b.Graphic(b.Relationship(relImage, target, true))
}

func (b *Builder) documentXML() string {
	var d strings.Builder
	d.WriteString(xml.Header)
	fmt.Fprintf(&d, `<w:document xmlns:w="%s" xmlns:r="%s"><w:body>`, nsW, nsR)
	for _, p := range b.paras {
		d.WriteString(p)
	}
	d.WriteString(`<w:sectPr/></w:body></w:document>`)
	return d.String()
}

func (b *Builder) stylesXML() string {
	var s strings.Builder
	s.WriteString(xml.Header)
	fmt.Fprintf(&s, `<w:styles xmlns:w="%s">`, nsW)
	for i, st := range b.styles {
		def := ""
		if i == 0 {
			def = ` w:default="1"`
		}
		fmt.Fprintf(&s, `<w:style w:type="paragraph"%s w:styleId="%s"><w:name w:val="%s"/></w:style>`,
			def, escape(st.id), escape(st.name))
	}
	s.WriteString(`</w:styles>`)
	return s.String()
}

func (b *Builder) relsXML() string {
	var r strings.Builder
	r.WriteString(xml.Header)
	r.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&r, `<Relationship Id="rId1" Type="%s" Target="styles.xml"/>`, relStyles)
	for _, rl := range b.rels {
		mode := ""
		if rl.external {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&r, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`,
			rl.id, rl.typ, escape(rl.target), mode)
	}
	r.WriteString(`</Relationships>`)
	return r.String()
}

// Bytes returns the package as a zip archive.
func (b *Builder) Bytes() []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	write := func(name string, data []byte) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write(data); err != nil {
			panic(err)
		}
	}

	write("[Content_Types].xml", []byte(xml.Header+
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`</Types>`))
	write("_rels/.rels", []byte(xml.Header+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="`+relDoc+`" Target="word/document.xml"/>`+
		`</Relationships>`))
	write("word/document.xml", []byte(b.documentXML()))
	write("word/styles.xml", []byte(b.stylesXML()))
	write("word/_rels/document.xml.rels", []byte(b.relsXML()))
	for name, data := range b.media {
		write(name, data)
	}

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteFile writes the package to the named file.
func (b *Builder) WriteFile(name string) error {
	return os.WriteFile(name, b.Bytes(), 0o644)
}
