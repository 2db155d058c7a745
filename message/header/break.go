package header

// Break represents the linebreak to use when working with an email.
type Break string

// Constants for use when selecting a line break to use with a new header.
// Generated messages use CRLF; LF is the default for a zero Header so that
// literal test fixtures stay readable.
const (
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
	CR   Break = "\x0d"     // \r - old Macs linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
