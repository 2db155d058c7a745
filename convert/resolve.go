package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zostay/docmail/docx"
)

// Defaults for remote image fetches.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultRetries  = 2
	DefaultBackoff  = 500 * time.Millisecond
	DefaultFilename = "image.jpg"
)

// Errors held by failed Outcomes.
var (
	// ErrUnsupportedReference is the error for external targets that are
	// neither an existing local file nor an http or https URL.
	ErrUnsupportedReference = errors.New("unsupported image reference")

	// ErrBadStatus is the error for remote images answered with a status
	// outside 2xx.
	ErrBadStatus = errors.New("unexpected response status")

	// ErrMissingPart is the error for embedded targets absent from the
	// package.
	ErrMissingPart = errors.New("embedded image part is missing")
)

// Image is a resolved image payload.
type Image struct {
	Data        []byte
	Filename    string
	ContentType string

	// ID is a unique token generated for this image.
	ID string

	// RelID is the relationship this image was resolved from.
	RelID string
}

// Outcome is the result of resolving one image relationship. Exactly one of
// Image and Err is set.
type Outcome struct {
	RelID  string
	Target string
	Image  *Image
	Err    error
}

// Images returns the images of the successful outcomes, in order.
func Images(outs []Outcome) []*Image {
	imgs := make([]*Image, 0, len(outs))
	for _, o := range outs {
		if o.Err == nil && o.Image != nil {
			imgs = append(imgs, o.Image)
		}
	}
	return imgs
}

// Failures returns the errors of the failed outcomes, in order.
func Failures(outs []Outcome) []error {
	var errs []error
	for _, o := range outs {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// Resolver loads the images referenced by a document.
type Resolver struct {
	client  *http.Client
	timeout time.Duration
	retries int
	backoff time.Duration
	baseDir string
	logger  *slog.Logger
	newID   func() string
}

// ResolverOption configures a Resolver.
type ResolverOption func(r *Resolver)

// WithHTTPClient sets the client used for remote images. The client is used as
// is, so WithTimeout has no effect on it.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) { r.client = c }
}

// WithTimeout sets the timeout of each remote request. The default is
// DefaultTimeout.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// WithRetries sets how many times a failed remote request is retried. Only
// transport errors and 5xx or 429 responses are retried. The default is
// DefaultRetries.
func WithRetries(n int) ResolverOption {
	return func(r *Resolver) { r.retries = n }
}

// WithBackoff sets the delay unit between retries. Retry n waits n times this
// delay. The default is DefaultBackoff.
func WithBackoff(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.backoff = d }
}

// WithBaseDir sets the directory relative local targets are resolved against,
// in place of the directory of the document.
func WithBaseDir(dir string) ResolverOption {
	return func(r *Resolver) { r.baseDir = dir }
}

// WithLogger sets the logger for warnings about dropped images.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// WithIDFunc replaces the generator of image IDs.
func WithIDFunc(f func() string) ResolverOption {
	return func(r *Resolver) { r.newID = f }
}

// NewResolver returns a Resolver with the given options applied.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		timeout: DefaultTimeout,
		retries: DefaultRetries,
		backoff: DefaultBackoff,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = &http.Client{Timeout: r.timeout}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.retries < 0 {
		r.retries = 0
	}

	return r
}

// Resolve returns one Outcome for every image relationship of the document,
// in the order of the relationship table. A failure is logged as a warning
// and recorded in its Outcome; it never stops the others.
func (r *Resolver) Resolve(ctx context.Context, doc *docx.Document) []Outcome {
	dir := r.baseDir
	if dir == "" {
		dir = doc.Dir
	}

	var outs []Outcome
	for i := range doc.Relationships {
		rel := &doc.Relationships[i]
		if !rel.IsImage() {
			continue
		}

		img, err := r.resolve(ctx, rel, dir)
		if err != nil {
			err = fmt.Errorf("image %s (%s): %w", rel.ID, rel.Target, err)
			r.logger.Warn("dropping image",
				"rel", rel.ID,
				"target", rel.Target,
				"error", err)
		}

		outs = append(outs, Outcome{
			RelID:  rel.ID,
			Target: rel.Target,
			Image:  img,
			Err:    err,
		})
	}

	return outs
}

func (r *Resolver) resolve(ctx context.Context, rel *docx.Relationship, dir string) (*Image, error) {
	if !rel.External {
		if rel.Data == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPart, rel.PartName)
		}
		return r.image(rel, rel.Data, path.Base(rel.Target)), nil
	}

	u, err := url.Parse(rel.Target)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		data, err := r.fetch(ctx, rel.Target)
		if err != nil {
			return nil, err
		}
		return r.image(rel, data, remoteFilename(u)), nil
	}

	name := rel.Target
	if err == nil && u.Scheme == "file" {
		name = u.Path
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, filepath.FromSlash(name))
	}

	if fi, err := os.Stat(name); err != nil || fi.IsDir() {
		return nil, ErrUnsupportedReference
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	return r.image(rel, data, filepath.Base(name)), nil
}

func (r *Resolver) image(rel *docx.Relationship, data []byte, filename string) *Image {
	if filename == "" || filename == "." || filename == "/" {
		filename = DefaultFilename
	}

	return &Image{
		Data:        data,
		Filename:    filename,
		ContentType: contentType(filename, data),
		ID:          r.newID(),
		RelID:       rel.ID,
	}
}

func remoteFilename(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return DefaultFilename
	}
	return base
}

// contentType guesses the media type from the file extension, then from the
// content.
func contentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(filename))); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}

	if len(data) > 0 {
		if mt, _, err := mime.ParseMediaType(http.DetectContentType(data)); err == nil {
			return mt
		}
	}

	return "application/octet-stream"
}
