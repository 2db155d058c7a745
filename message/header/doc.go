// Package header provides the email message header used when building and
// reading back generated messages. Low-level access to the individual
// field.Field objects is available through Base, but most code should use the
// typed getters and setters on Header, which keep the output strictly correct:
// addresses are validated, dates use the RFC 5322 format, and parameterized
// fields are quoted properly.
//
// Parse() reads a header back in, unfolding each field.
package header
