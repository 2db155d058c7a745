// Package message provides the objects used to build email messages and to
// read them back. A message is either an Opaque, a header with a body that
// this package assigns no meaning to, or a Multipart, a header with a list of
// sub-parts. Both satisfy Part.
//
// New messages are built with a Buffer: set the header, then either write the
// body to it or Add() parts, and call Opaque() or Multipart() at the end.
// Bodies written to a Buffer are raw; the Content-transfer-encoding named in
// the header is applied when the message is written out:
//
//	img := &message.Buffer{}
//	img.SetMediaType("image/png")
//	img.SetContentID("image_0")
//	img.SetTransferEncoding(transfer.Base64)
//	_, _ = img.Write(pngBytes)
//	imgPart, _ := img.Opaque()
//
//	msg := &message.Buffer{}
//	msg.SetMediaType("multipart/related")
//	_ = msg.Add(htmlPart, imgPart)
//	out, _ := msg.Opaque()
//	_, _ = out.WriteTo(w)
//
// Existing messages are read with Parse().
package message
