// Package resolver turns the routing codes packed into a frame's extended
// identifier into node and message names.
package resolver

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/canlog/internal/addressbook"
	"github.com/crimson-sun/canlog/internal/model"
)

// ErrShortIdentifier is returned for identifiers with fewer than three code bytes.
var ErrShortIdentifier = errors.New("resolver: identifier shorter than 6 hex digits")

// Lookup names the sub-lookup that failed.
type Lookup string

const (
	LookupIdentifier  Lookup = "identifier"
	LookupFunction    Lookup = "function"
	LookupSource      Lookup = "source"
	LookupDestination Lookup = "destination"
	LookupOperation   Lookup = "operation"
	LookupError       Lookup = "error"
)

// ResolutionError wraps the cause of a failed resolution.
type ResolutionError struct {
	Lookup Lookup
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolver: %s lookup: %v", e.Lookup, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// SplitIdentifier extracts the function, destination and source codes from
// the last three bytes of a hex identifier: ...FFDDSS.
func SplitIdentifier(extID string) (function, dest, source string, err error) {
	n := len(extID)
	if n < 6 {
		return "", "", "", ErrShortIdentifier
	}
	return extID[n-6 : n-4], extID[n-4 : n-2], extID[n-2:], nil
}

// Resolver resolves frames against one Book for one machine class.
type Resolver struct {
	book    *addressbook.Book
	machine model.MachineClass
}

// New creates a Resolver.
func New(book *addressbook.Book, machine model.MachineClass) *Resolver {
	return &Resolver{book: book, machine: machine}
}

// Resolve names the frame's message type and endpoints, and its operation
// or error label when the message type carries one.
func (r *Resolver) Resolve(frame model.RawFrame) (model.ResolvedFrame, error) {
	fn, dst, src, err := SplitIdentifier(frame.ExtendedID)
	if err != nil {
		return model.ResolvedFrame{}, &ResolutionError{Lookup: LookupIdentifier, Err: err}
	}

	out := model.ResolvedFrame{
		RawFrame:     frame,
		FunctionCode: fn,
		DestCode:     dst,
		SourceCode:   src,
	}

	if out.MessageType, err = r.book.ResolveMessageType(fn); err != nil {
		return model.ResolvedFrame{}, &ResolutionError{Lookup: LookupFunction, Err: err}
	}
	if out.SourceName, err = r.book.ResolveNode(r.machine, src); err != nil {
		return model.ResolvedFrame{}, &ResolutionError{Lookup: LookupSource, Err: err}
	}
	if out.DestName, err = r.book.ResolveNode(r.machine, dst); err != nil {
		return model.ResolvedFrame{}, &ResolutionError{Lookup: LookupDestination, Err: err}
	}

	switch out.MessageType {
	case model.MessageOperation:
		if out.OperationCommand, err = r.book.ResolveOperation(frame.PayloadHex); err != nil {
			return model.ResolvedFrame{}, &ResolutionError{Lookup: LookupOperation, Err: err}
		}
	case model.MessageError:
		if out.ErrorCommand, err = r.book.ResolveError(frame.PayloadHex); err != nil {
			return model.ResolvedFrame{}, &ResolutionError{Lookup: LookupError, Err: err}
		}
	}
	return out, nil
}
