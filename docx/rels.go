package docx

import (
	"encoding/xml"
	"fmt"
)

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// readRels parses a relationship part. A missing part is an empty table.
func (p *pkg) readRels(name string) ([]xmlRelationship, error) {
	data, ok, err := p.read(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if !ok {
		return nil, nil
	}

	var rels xmlRelationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrNotDocx, name, err)
	}

	return rels.Relationships, nil
}
