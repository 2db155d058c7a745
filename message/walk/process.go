// Package walk visits the parts of a parsed message tree.
package walk

import (
	"errors"

	"github.com/zostay/docmail/message"
)

// ErrStop may be returned by a Processor to end the walk early. AndProcess
// returns nil when the walk ends this way.
var ErrStop = errors.New("stop walking")

// Processor is a callback that can be passed to the AndProcess() function to
// do any kind of generic processing of a message and its sub-parts.
//
// The Processor is given a part to process and the ancestry of the part. If
// len(parents) is zero, then this is the top-level part (i.e., the top-level
// part that AndProcess() was called upon, which might not be the root message).
//
// The Processor may return an error to cause AndProcess() to terminate
// immediately and return that error.
type Processor func(part message.Part, parents []message.Part) error

// AndProcess will walk the message parts tree of a message (or a part of a
// message) depth first and call the given Processor function for each part
// found, parents before children.
func AndProcess(processor Processor, msg message.Part) error {
	err := andProcess(processor, msg, make([]message.Part, 0, 10))
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func andProcess(
	processor Processor,
	part message.Part,
	parents []message.Part,
) error {
	if err := processor(part, parents); err != nil {
		return err
	}

	if part.IsMultipart() {
		parents = append(parents, part)
		for _, subPart := range part.GetParts() {
			if err := andProcess(processor, subPart, parents); err != nil {
				return err
			}
		}
	}

	return nil
}

// AndProcessOpaque works just like AndProcess, but only calls the Processor
// for the leaf parts.
func AndProcessOpaque(processor Processor, msg message.Part) error {
	return AndProcess(
		func(part message.Part, parents []message.Part) error {
			if part.IsMultipart() {
				return nil
			}
			return processor(part, parents)
		}, msg)
}

// Leaves returns the leaf parts of the message in document order.
func Leaves(msg message.Part) []message.Part {
	var leaves []message.Part
	_ = AndProcessOpaque(
		func(part message.Part, _ []message.Part) error {
			leaves = append(leaves, part)
			return nil
		}, msg)
	return leaves
}

// FindContentID returns the first leaf whose Content-id, without the angle
// brackets, matches cid. It returns nil if there is no such part.
func FindContentID(msg message.Part, cid string) message.Part {
	var found message.Part
	_ = AndProcessOpaque(
		func(part message.Part, _ []message.Part) error {
			if id, err := part.GetHeader().GetContentID(); err == nil && id == cid {
				found = part
				return ErrStop
			}
			return nil
		}, msg)
	return found
}
