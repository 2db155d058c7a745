package message_test

import (
	"bytes"
	"fmt"
	"os"

	"github.com/zostay/docmail/message"
)

func ExampleOpaque_WriteTo() {
	buf := bytes.NewBufferString("Hello World")
	msg := &message.Opaque{Reader: buf}
	msg.SetSubject("A message to nowhere")
	_, _ = msg.WriteTo(os.Stdout)
	// Output: Subject: A message to nowhere
	//
	// Hello World
}

func ExampleBuffer_Multipart() {
	html := &message.Buffer{}
	html.SetMediaType("text/html")
	_, _ = fmt.Fprint(html, "<p>Hello</p>")
	htmlPart, _ := html.Opaque()

	mm := &message.Buffer{}
	mm.SetMediaType("multipart/related")
	_ = mm.SetBoundary("example")
	_ = mm.Add(htmlPart)

	msg, _ := mm.Multipart()
	_, _ = msg.WriteTo(os.Stdout)
	// Output: Content-type: multipart/related; boundary=example
	//
	// --example
	// Content-type: text/html
	//
	// <p>Hello</p>
	// --example--
}
