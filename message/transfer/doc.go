// Package transfer applies and removes the Content-transfer-encoding of
// message parts. Only quoted-printable and base64 change the bytes; 7bit, 8bit
// and binary leave them as-is.
//
// Encoders follow the line break of the header they are applied for, so a
// part built with header.CRLF gets CRLF line breaks inside its encoded body
// as well.
package transfer
