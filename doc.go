// Package docmail turns a Word document into a single self-contained HTML
// email message.
//
// The work happens in a few packages. Package docx reads the .docx package:
// paragraphs, styles and relationships. Package convert reduces the
// paragraphs to an ordered list of content units (headings, paragraphs and
// image placeholders), resolves the images they refer to, renders the HTML
// and assembles a multipart/related message in which every image is an
// inline part referenced by Content-id. Package message and its header and
// transfer packages model and write MIME messages, and parse them back for
// inspection.
//
// Two collaborators sit beside the converter. Package archive appends
// finished messages to an IMAP mailbox. Package eventlog stores event
// notifications in PostgreSQL or SQLite.
//
// The docmail command in cmd/docmail ties these together:
//
//	docmail convert report.docx
//	docmail verify report.docx
//	docmail inspect report.eml
package docmail
