package convert

// Unit is one block of extracted content: a Heading, a Paragraph or an
// ImagePlaceholder.
type Unit interface {
	unit()
}

// Heading is a heading of level 1 through 6.
type Heading struct {
	Level int
	Text  string
}

// Paragraph is a plain paragraph of text.
type Paragraph struct {
	Text string
}

// ImagePlaceholder marks where an inline image appears. Index is the
// 0-based position of the placeholder among all placeholders of the document
// and RelID names the relationship of the image it shows. RelID is empty when
// the graphic markup referenced no relationship.
type ImagePlaceholder struct {
	Index int
	RelID string
}

func (Heading) unit()          {}
func (Paragraph) unit()        {}
func (ImagePlaceholder) unit() {}

// Placeholders returns the image placeholders among units, in order.
func Placeholders(units []Unit) []ImagePlaceholder {
	var phs []ImagePlaceholder
	for _, u := range units {
		if ph, ok := u.(ImagePlaceholder); ok {
			phs = append(phs, ph)
		}
	}
	return phs
}
