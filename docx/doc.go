// Package docx reads the parts of an Office Open XML word-processing package
// that matter for turning it into a message: the body paragraphs with their
// style names, text and graphic markers, and the relationship table of the
// main document part with the bytes of every embedded target.
//
// Tables, numbering, headers, footers and anything else outside the body
// paragraphs are ignored.
package docx
