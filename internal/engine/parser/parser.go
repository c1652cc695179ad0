// Package parser splits raw log lines into receive-event frames.
package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/crimson-sun/canlog/internal/model"
)

var (
	// ErrLineFormat is matched by every line that does not yield a frame.
	ErrLineFormat = errors.New("parser: malformed line")
	// ErrNoReceiveMarker marks transmit, echo and status lines.
	ErrNoReceiveMarker = fmt.Errorf("%w: no receive marker", ErrLineFormat)
	// ErrLineTooLong marks a line cut short by the reader's size limit.
	ErrLineTooLong = fmt.Errorf("%w: line too long", ErrLineFormat)
)

// Parser turns one log line into a RawFrame.
type Parser interface {
	Parse(line string) (model.RawFrame, error)
}

// Dialect names.
const (
	DialectTransceiver = "rcv"
	DialectCandump     = "candump"
)

// ForDialect returns the parser for a dialect name. An empty name selects
// the transceiver dialect.
func ForDialect(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DialectTransceiver, "transceiver":
		return Transceiver{}, nil
	case DialectCandump:
		return Candump{}, nil
	}
	return nil, fmt.Errorf("parser: unknown dialect %q", name)
}

// receiveMarker is the token the capture tool writes on received frames.
const receiveMarker = "rcv"

const minTokens = 5

// Transceiver parses the capture tool's text format:
//
//	[2024-01-01 10:00:00.000] rcv 00123456 0A
//
// Fields are positional over single-space tokens.
type Transceiver struct{}

func (Transceiver) Parse(line string) (model.RawFrame, error) {
	tokens := strings.Split(line, " ")
	if !slices.Contains(tokens, receiveMarker) {
		return model.RawFrame{}, ErrNoReceiveMarker
	}
	if len(tokens) < minTokens {
		return model.RawFrame{}, fmt.Errorf("%w: %d tokens, need %d", ErrLineFormat, len(tokens), minTokens)
	}
	if tokens[0] == "" || tokens[1] == "" {
		return model.RawFrame{}, fmt.Errorf("%w: empty timestamp", ErrLineFormat)
	}
	return model.RawFrame{
		Date:       dropFirstRune(tokens[0]),
		Time:       dropLastRune(tokens[1]),
		ExtendedID: tokens[3],
		PayloadHex: tokens[4],
	}, nil
}

func dropFirstRune(s string) string {
	_, n := utf8.DecodeRuneInString(s)
	return s[n:]
}

func dropLastRune(s string) string {
	_, n := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-n]
}
