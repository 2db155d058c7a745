// Package convert turns a word-processing document into a self-contained
// multipart/related message.
//
// Extract walks the body paragraphs and yields headings, paragraphs and image
// placeholders. A Resolver loads the image behind each image relationship,
// whether it is embedded in the package, a local file or a remote URL. The
// Assembler renders the units as HTML and attaches one inline part per
// resolved placeholder, with the Content-id image_k for placeholder k. A
// Converter runs the whole pipeline and writes the result next to the input.
package convert
