package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotDocx is returned when the input is not a readable word-processing
// package.
var ErrNotDocx = errors.New("not a docx package")

// Relationship types this package looks for.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// DefaultStyle is the style name given to paragraphs without a style when the
// package does not declare a default paragraph style.
const DefaultStyle = "Normal"

// Document is the parsed main document part of a package.
type Document struct {
	// Path is the file the package was read from. It is empty when the
	// document was read with Read.
	Path string

	// Dir is the directory relative external targets are resolved against.
	Dir string

	// Paragraphs holds the body paragraphs in document order.
	Paragraphs []Paragraph

	// Relationships holds the relationship table of the main document part
	// in the order the entries appear.
	Relationships []Relationship
}

// Relationship returns the relationship with the given ID.
func (d *Document) Relationship(id string) (*Relationship, bool) {
	for i := range d.Relationships {
		if d.Relationships[i].ID == id {
			return &d.Relationships[i], true
		}
	}
	return nil, false
}

// Relationship is one entry of a relationship table.
type Relationship struct {
	ID     string
	Type   string
	Target string

	// External is true when the target mode is External. The Target is then
	// a path or URL outside the package.
	External bool

	// PartName is the package path of an internal target.
	PartName string

	// Data holds the bytes of an internal target. It is nil for external
	// targets and for internal targets missing from the package.
	Data []byte
}

// IsImage returns true for image relationships, in either the transitional
// or the strict namespace.
func (r *Relationship) IsImage() bool {
	return r.Type == RelTypeImage || strings.HasSuffix(r.Type, "/relationships/image")
}

// Open reads the package at the given path.
func Open(name string) (*Document, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}
	defer zr.Close()

	doc, err := readPackage(&zr.Reader)
	if err != nil {
		return nil, err
	}

	doc.Path = name
	doc.Dir = filepath.Dir(name)
	return doc, nil
}

// Read reads a package from r, which holds size bytes. External targets with
// relative paths are left relative to the working directory.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}
	return readPackage(zr)
}

type pkg struct {
	files map[string]*zip.File
}

func (p *pkg) read(name string) ([]byte, bool, error) {
	f, ok := p.files[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, true, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	return data, true, err
}

// relsName returns the name of the relationship part for the given part.
func relsName(part string) string {
	dir, file := path.Split(part)
	return path.Join(dir, "_rels", file+".rels")
}

// resolveTarget returns the package path of an internal target, relative to
// the directory of the source part unless it is absolute.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(source), target)
}

func readPackage(zr *zip.Reader) (*Document, error) {
	p := &pkg{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		p.files[f.Name] = f
	}

	rootRels, err := p.readRels("_rels/.rels")
	if err != nil {
		return nil, err
	}

	var main string
	for _, rel := range rootRels {
		if rel.Type == RelTypeOfficeDocument || strings.HasSuffix(rel.Type, "/relationships/officeDocument") {
			main = resolveTarget("", rel.Target)
			break
		}
	}
	if main == "" {
		return nil, fmt.Errorf("%w: no main document relationship", ErrNotDocx)
	}

	body, ok, err := p.read(main)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", main, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing main document part %s", ErrNotDocx, main)
	}

	rels, err := p.readRels(relsName(main))
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	styles := &styleTable{defaultName: DefaultStyle}
	for _, rel := range rels {
		r := Relationship{
			ID:       rel.ID,
			Type:     rel.Type,
			Target:   rel.Target,
			External: strings.EqualFold(rel.TargetMode, "External"),
		}

		if !r.External {
			r.PartName = resolveTarget(main, rel.Target)
			data, _, err := p.read(r.PartName)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", r.PartName, err)
			}
			r.Data = data

			if data != nil && (rel.Type == RelTypeStyles || strings.HasSuffix(rel.Type, "/relationships/styles")) {
				if styles, err = parseStyles(data); err != nil {
					return nil, fmt.Errorf("parse %s: %w", r.PartName, err)
				}
			}
		}

		doc.Relationships = append(doc.Relationships, r)
	}

	doc.Paragraphs, err = parseBody(body, styles)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", main, err)
	}

	return doc, nil
}
