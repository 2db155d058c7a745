package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/convert"
	"github.com/zostay/docmail/internal/docxtest"
)

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fixture struct {
	dir    string
	config string
}

func newFixture(t *testing.T, config string) *fixture {
	t.Helper()

	f := &fixture{dir: t.TempDir()}
	f.config = filepath.Join(f.dir, "docmail.yaml")
	require.NoError(t, os.WriteFile(f.config, []byte(config), 0o644))
	return f
}

func (f *fixture) doc(t *testing.T) string {
	t.Helper()

	name := filepath.Join(f.dir, "report.docx")
	require.NoError(t, docxtest.New().
		Heading(1, "Title").
		Paragraph("Hello world").
		EmbeddedImage("image1.png", png).
		WriteFile(name))
	return name
}

func (f *fixture) run(stdin string, args ...string) (string, error) {
	out := &bytes.Buffer{}

	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", f.config, "--log-level", "error"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	out, err := f.run("", "version")
	require.NoError(t, err)
	assert.Equal(t, "docmail v0.1.0\n", out)
}

func TestConvert(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	doc := f.doc(t)

	out, err := f.run("", "convert", "--subject", "Weekly Notes", "--date", "2024-03-05T14:07:09Z", doc)
	require.NoError(t, err)

	eml := convert.OutputPath(doc)
	assert.Equal(t, eml+": 3 units, 1 images, 0 dropped\n", out)

	msg, err := os.ReadFile(eml)
	require.NoError(t, err)
	assert.Contains(t, string(msg), "Subject: Weekly Notes\r\n")
	assert.Contains(t, string(msg), "Date: Tue, 05 Mar 2024 14:07:09 +0000\r\n")

	snap, err := convert.ReadSnapshot(msg)
	require.NoError(t, err)
	assert.Contains(t, snap.HTML, "<h1>Title</h1>")
	assert.Equal(t, png, snap.Images["image_0"])
}

func TestConvert_Output(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	doc := f.doc(t)
	eml := filepath.Join(f.dir, "elsewhere.eml")

	_, err := f.run("", "convert", "-o", eml, doc)
	require.NoError(t, err)
	assert.FileExists(t, eml)
	assert.NoFileExists(t, convert.OutputPath(doc))

	_, err = f.run("", "convert", "-o", eml, doc, doc)
	assert.ErrorIs(t, err, errOutputWithMany)
}

func TestConvert_MissingInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	_, err := f.run("", "convert", filepath.Join(f.dir, "nope.docx"))
	assert.ErrorIs(t, err, convert.ErrMissingInput)
	assert.NoFileExists(t, filepath.Join(f.dir, "nope.eml"))
}

func TestConvert_BadDate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "date: whenever\n")
	_, err := f.run("", "convert", f.doc(t))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	doc := f.doc(t)

	out, err := f.run("", "verify", doc)
	require.NoError(t, err)
	assert.Equal(t, doc+": ok, 1 images\n", out)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	doc := f.doc(t)

	_, err := f.run("", "convert", doc)
	require.NoError(t, err)

	out, err := f.run("", "inspect", convert.OutputPath(doc))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "multipart/related", lines[0])
	assert.Equal(t, "  text/html", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "  image/png image_0"), lines[2])
}

func TestInspect_Headers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	doc := f.doc(t)

	_, err := f.run("", "convert", "--subject", "Weekly Notes", doc)
	require.NoError(t, err)

	out, err := f.run("", "inspect", "--headers", convert.OutputPath(doc))
	require.NoError(t, err)
	assert.Contains(t, out, "Subject: Weekly Notes\r\n")
	assert.Contains(t, out, "Content-type: multipart/related;")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\n"))
	assert.NotContains(t, out, "Content-id")
}

func TestInspect_ContentID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	doc := f.doc(t)

	_, err := f.run("", "convert", doc)
	require.NoError(t, err)

	out, err := f.run("", "inspect", "--cid", "image_0", convert.OutputPath(doc))
	require.NoError(t, err)
	assert.Equal(t, string(png), out)

	_, err = f.run("", "inspect", "--cid", "image_9", convert.OutputPath(doc))
	assert.ErrorIs(t, err, errNoSuchPart)
}

func TestIngest(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	dsn := filepath.Join(f.dir, "datalog.db")

	events := `[
  {"id": "a", "eventType": "Docmail.Converted", "subject": "report.docx", "data": {"images": 1}, "eventTime": "2024-03-05T14:07:09Z"},
  {"id": "b", "eventType": "Docmail.Converted", "subject": "notes.docx", "eventTime": "2024-03-05T14:08:00Z"}
]`

	out, err := f.run(events, "ingest", "--driver", "sqlite3", "--dsn", dsn)
	require.NoError(t, err)
	assert.Equal(t, "stored 2 of 2 events\n", out)
	assert.FileExists(t, dsn)
}

func TestIngest_BadDriver(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "{}\n")
	_, err := f.run(`{"id": "a"}`, "ingest", "--driver", "mongodb")
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `subject: From the file
archive:
  password: hunter2
`)

	out, err := f.run("", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "subject: From the file\n")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "hunter2")
}
