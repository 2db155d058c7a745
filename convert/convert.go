package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zostay/docmail/docx"
)

// ErrMissingInput is returned when the input document does not exist.
var ErrMissingInput = errors.New("input document not found")

// Archiver stores a finished message somewhere besides the output file.
type Archiver interface {
	Archive(ctx context.Context, msg []byte, date time.Time) error
}

// Result describes a conversion.
type Result struct {
	// OutputPath is the file written. It is empty for Build.
	OutputPath string

	Units    []Unit
	Images   []*Image
	Failures []error

	// Size is the length of the message in bytes.
	Size int
}

// OutputPath returns the input path with its extension replaced by ".eml".
func OutputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".eml"
}

// Converter runs the extraction, resolution and assembly of a document and
// writes the message.
type Converter struct {
	Resolver  *Resolver
	Assembler *Assembler

	// Archiver, when set, receives a copy of every message written.
	Archiver Archiver

	// Output overrides the output path. When empty, OutputPath of the input
	// is used.
	Output string

	Logger *slog.Logger
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Converter) resolver() *Resolver {
	if c.Resolver != nil {
		return c.Resolver
	}
	return NewResolver(WithLogger(c.Logger))
}

func (c *Converter) assembler() *Assembler {
	if c.Assembler != nil {
		return c.Assembler
	}
	return &Assembler{Logger: c.Logger}
}

// Build converts the document at path and returns the message without
// writing it.
func (c *Converter) Build(ctx context.Context, path string) ([]byte, *Result, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}

	doc, err := docx.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	units := Extract(doc)
	outs := c.resolver().Resolve(ctx, doc)

	msg, err := c.assembler().Assemble(units, outs)
	if err != nil {
		return nil, nil, fmt.Errorf("assemble %s: %w", path, err)
	}

	buf := &bytes.Buffer{}
	if _, err := msg.WriteTo(buf); err != nil {
		return nil, nil, fmt.Errorf("write message: %w", err)
	}

	res := &Result{
		Units:    units,
		Images:   Images(outs),
		Failures: Failures(outs),
		Size:     buf.Len(),
	}

	return buf.Bytes(), res, nil
}

// Convert converts the document at path, writes the message file and hands it
// to the Archiver, if any.
func (c *Converter) Convert(ctx context.Context, path string) (*Result, error) {
	data, res, err := c.Build(ctx, path)
	if err != nil {
		return nil, err
	}

	out := c.Output
	if out == "" {
		out = OutputPath(path)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // a message file is not secret
		return nil, fmt.Errorf("write %s: %w", out, err)
	}
	res.OutputPath = out

	c.logger().Info("created message file",
		"path", out,
		"units", len(res.Units),
		"images", len(res.Images),
		"dropped", len(res.Failures))

	if c.Archiver != nil {
		if err := c.Archiver.Archive(ctx, data, time.Now()); err != nil {
			return res, fmt.Errorf("archive %s: %w", out, err)
		}
		c.logger().Info("archived message file", "path", out)
	}

	return res, nil
}
