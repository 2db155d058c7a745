package field

import (
	"bytes"
	"errors"
)

const (
	DefaultFoldIndent          = " "  // indent placed before forced fold lines
	DefaultPreferredFoldLength = 78   // we prefer header lines shorter than this
	DefaultForcedFoldLength    = 998  // we forcibly break header lines longer than this

	DoNotFold = -1 // we prefer not to fold at all
)

var (
	// DefaultFoldEncoding folds at whitespace before 78 bytes and forcibly
	// before 998 bytes, as RFC 5322 asks.
	DefaultFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DefaultPreferredFoldLength,
		DefaultForcedFoldLength,
	}

	// DoNotFoldEncoding is a FoldEncoding that doesn't perform folding.
	DoNotFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DoNotFold,
		DoNotFold,
	}
)

var (
	// ErrFoldIndentSpace is returned by NewFoldEncoding when a non-space/non-tab
	// character is put in the foldIndent setting.
	ErrFoldIndentSpace = errors.New("fold indent may only contains spaces and tabs")

	// ErrFoldLengthTooLong is returned by NewFoldEncoding when the
	// preferredFoldLength is longer than the forcedFoldLength.
	ErrFoldLengthTooLong = errors.New("preferred fold length must be no longer than the forced fold length")

	// ErrFoldLengthTooShort is returned by NewFoldEncoding when the fold
	// lengths are too short to hold the indent and at least one more byte.
	ErrFoldLengthTooShort = errors.New("preferred fold length and forced fold length cannot be too short")
)

// FoldEncoding provides the tooling for folding email message headers.
type FoldEncoding struct {
	foldIndent          string
	preferredFoldLength int
	forcedFoldLength    int
}

// NewFoldEncoding creates a new FoldEncoding with the given settings. The
// foldIndent must contain only spaces or tabs and the preferred length must be
// no longer than the forced length.
func NewFoldEncoding(foldIndent string, preferredFoldLength, forcedFoldLength int) (*FoldEncoding, error) {
	for _, c := range foldIndent {
		if c != ' ' && c != '\t' {
			return nil, ErrFoldIndentSpace
		}
	}

	if preferredFoldLength == DoNotFold && forcedFoldLength == DoNotFold {
		return &FoldEncoding{foldIndent, DoNotFold, DoNotFold}, nil
	}

	if preferredFoldLength <= len(foldIndent)+1 || forcedFoldLength <= len(foldIndent)+1 {
		return nil, ErrFoldLengthTooShort
	}

	if preferredFoldLength > forcedFoldLength {
		return nil, ErrFoldLengthTooLong
	}

	return &FoldEncoding{foldIndent, preferredFoldLength, forcedFoldLength}, nil
}

// Fold will fold the given header line. Lines are broken at the last run of
// whitespace before the preferred length. When a line has no such whitespace,
// it is broken at the first whitespace after it, and when even that would
// leave a line longer than the forced length, the line is broken at the forced
// length and continued with the fold indent.
//
// The given lbr is the line break to insert.
func (vf *FoldEncoding) Fold(f []byte, lbr []byte) []byte {
	if vf.preferredFoldLength == DoNotFold || len(f) <= vf.preferredFoldLength {
		return f
	}

	var buf bytes.Buffer
	for len(f) > vf.preferredFoldLength {
		cut := bytes.LastIndexAny(f[:vf.preferredFoldLength], " \t")
		if cut <= 0 {
			next := bytes.IndexAny(f[vf.preferredFoldLength:], " \t")
			switch {
			case next >= 0 && vf.preferredFoldLength+next <= vf.forcedFoldLength:
				cut = vf.preferredFoldLength + next
			case len(f) > vf.forcedFoldLength:
				buf.Write(f[:vf.forcedFoldLength])
				buf.Write(lbr)
				buf.WriteString(vf.foldIndent)
				f = f[vf.forcedFoldLength:]
				continue
			default:
				buf.Write(f)
				return buf.Bytes()
			}
		}

		// the whitespace at f[cut] becomes the folding whitespace
		buf.Write(f[:cut])
		buf.Write(lbr)
		f = f[cut:]
	}
	buf.Write(f)

	return buf.Bytes()
}
