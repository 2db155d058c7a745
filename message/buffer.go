package message

import (
	"bytes"
	"errors"

	"github.com/zostay/docmail/message/header"
)

const (
	// DefaultMultipartContentType is the Content-type to use with a multipart
	// message when no explicit Content-type header has been set.
	DefaultMultipartContentType = "multipart/mixed"
)

// BufferMode tells what a Buffer is being used for.
type BufferMode int

const (
	// ModeUnset indicates that the Buffer has not yet been modified.
	ModeUnset BufferMode = iota

	// ModeSingle indicates that the Buffer has been used as an io.Writer.
	ModeSingle

	// ModeMultipart indicates that the Buffer has had parts added.
	ModeMultipart
)

var (
	// ErrPartsBuffer is returned by Write() when called after Add().
	ErrPartsBuffer = errors.New("message buffer is in parts mode")

	// ErrOpaqueBuffer is returned by Add() when called after Write() and by
	// Multipart() when the buffer is in ModeSingle.
	ErrOpaqueBuffer = errors.New("message buffer is in opaque mode")

	// ErrModeUnset is returned when Opaque() or Multipart() are called before
	// anything has been written to the buffer.
	ErrModeUnset = errors.New("no message has been built")
)

// Buffer provides tools for constructing email messages. It can operate in
// either of two modes, depending on how you want to construct your message.
//
// * Single mode. When you use the Buffer as an io.Writer by calling the Write()
// method, you have chosen to treat the message body as a collection of bytes.
//
// * Multipart mode. When you call the Add() method, you have chosen to treat
// the message as a collection of sub-parts.
//
// You may not use a Buffer in both modes. Calling Add() after Write(), or
// Write() after Add(), fails with an error.
type Buffer struct {
	header.Header
	parts []Part
	buf   *bytes.Buffer
}

// Mode returns a constant that indicates what mode the Buffer is in.
func (b *Buffer) Mode() BufferMode {
	if b.parts != nil {
		return ModeMultipart
	} else if b.buf != nil {
		return ModeSingle
	}
	return ModeUnset
}

// Add will add one or more parts to the message. It returns ErrOpaqueBuffer
// if Write() has already been called.
func (b *Buffer) Add(msgs ...Part) error {
	if b.buf != nil {
		return ErrOpaqueBuffer
	}
	if b.parts == nil {
		b.parts = make([]Part, 0, len(msgs))
	}
	b.parts = append(b.parts, msgs...)
	return nil
}

// Write implements io.Writer so you can write the message body to this buffer.
// It returns ErrPartsBuffer if Add() has already been called.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.parts != nil {
		return 0, ErrPartsBuffer
	}
	if b.buf == nil {
		b.buf = &bytes.Buffer{}
	}
	return b.buf.Write(p)
}

// prepareForMultipartOutput sets DefaultMultipartContentType when no
// Content-type is set and a random boundary when none is set.
func (b *Buffer) prepareForMultipartOutput() {
	if _, err := b.GetMediaType(); errors.Is(err, header.ErrNoSuchField) {
		b.SetMediaType(DefaultMultipartContentType)
	}

	if _, err := b.GetBoundary(); errors.Is(err, header.ErrNoSuchFieldParameter) {
		_ = b.SetBoundary(GenerateBoundary())
	}
}

// Opaque will return an Opaque message based upon the content of the Buffer.
//
// In ModeSingle, the header and the bytes written are returned; the
// Content-transfer-encoding is applied when the message is written out.
//
// In ModeMultipart, the parts are serialized between boundaries into the body
// of the returned message. A Content-type and boundary are set first if they
// are missing.
//
// It returns ErrModeUnset if nothing was written or added. After this method
// is called, the Buffer should be disposed of and no longer used.
func (b *Buffer) Opaque() (*Opaque, error) {
	switch b.Mode() {
	case ModeSingle:
		return &Opaque{
			Header: b.Header,
			Reader: b.buf,
		}, nil
	case ModeMultipart:
		b.prepareForMultipartOutput()
		boundary, _ := b.GetBoundary()

		buf := &bytes.Buffer{}
		if err := writeParts(buf, b.parts, boundary, b.Break()); err != nil {
			return nil, err
		}

		return &Opaque{
			Header:  b.Header,
			Reader:  buf,
			encoded: true,
		}, nil
	}
	return nil, ErrModeUnset
}

// Multipart will return a Multipart message built from the parts added to the
// Buffer, setting the Content-type and boundary first if they are missing. It
// returns ErrOpaqueBuffer in ModeSingle and ErrModeUnset in ModeUnset.
func (b *Buffer) Multipart() (*Multipart, error) {
	switch b.Mode() {
	case ModeSingle:
		return nil, ErrOpaqueBuffer
	case ModeMultipart:
		b.prepareForMultipartOutput()
		return &Multipart{
			Header: b.Header,
			parts:  b.parts,
		}, nil
	}
	return nil, ErrModeUnset
}
