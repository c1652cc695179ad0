package connector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/crimson-sun/canlog/internal/model"
)

// MaxLineSize is the most text kept per line. Longer lines are cut and
// marked Truncated; reading continues with the next line.
const MaxLineSize = 1 << 20

// lineReader splits r into lines without failing on oversized ones.
type lineReader struct {
	br  *bufio.Reader
	max int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024), max: MaxLineSize}
}

// next returns the following line with its terminator and any trailing
// carriage return removed. It returns io.EOF once r is exhausted.
func (lr *lineReader) next() (text string, truncated bool, err error) {
	// Keep room for a "\r\n" terminator past the content limit.
	keep := lr.max + 2
	var buf []byte
	read := false
	for {
		chunk, rerr := lr.br.ReadSlice('\n')
		read = read || len(chunk) > 0
		if room := keep - len(buf); len(chunk) > room {
			buf = append(buf, chunk[:room]...)
			truncated = true
		} else {
			buf = append(buf, chunk...)
		}
		if errors.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		if rerr == io.EOF && !read {
			return "", false, io.EOF
		}
		if rerr != nil && rerr != io.EOF {
			return "", false, rerr
		}
		break
	}
	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > lr.max {
		buf, truncated = buf[:lr.max], true
	}
	return string(buf), truncated, nil
}

// ReadLines reads r to the end and applies params. Oversized lines are
// returned cut and marked Truncated rather than failing the read.
func ReadLines(ctx context.Context, r io.Reader, params QueryParams) ([]model.Line, error) {
	var out []model.Line
	lr := newLineReader(r)
	for no := 1; ; no++ {
		text, truncated, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if no%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if no <= params.Offset || !params.Keep(text) {
			continue
		}
		out = append(out, model.Line{No: no, Text: text, Truncated: truncated})
		if params.Limit > 0 && len(out) >= params.Limit {
			break
		}
	}
	return out, nil
}

// StreamLines reads r in a goroutine, numbering lines from first. The
// channel closes at EOF, on a read error (passed to onErr), or when ctx
// is cancelled. done, if non-nil, runs after the channel is closed.
func StreamLines(ctx context.Context, r io.Reader, first int, onErr func(error), done func()) <-chan model.Line {
	ch := make(chan model.Line, 64)
	go func() {
		defer func() {
			close(ch)
			if done != nil {
				done()
			}
		}()
		lr := newLineReader(r)
		for no := first; ; no++ {
			text, truncated, err := lr.next()
			if err == io.EOF {
				return
			}
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				return
			}
			select {
			case ch <- model.Line{No: no, Text: text, Truncated: truncated}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
