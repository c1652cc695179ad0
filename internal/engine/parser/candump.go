package parser

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.einride.tech/can"

	"github.com/crimson-sun/canlog/internal/model"
)

const (
	candumpDateLayout = "2006-01-02"
	candumpTimeLayout = "15:04:05.000000"
)

// Candump parses SocketCAN `candump -L` lines:
//
//	(1704103200.000000) can0 00123456#0A
//
// Every candump line is a received frame; remote frames carry no payload
// and are rejected.
type Candump struct{}

func (Candump) Parse(line string) (model.RawFrame, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return model.RawFrame{}, fmt.Errorf("%w: %d fields, need 3", ErrLineFormat, len(fields))
	}

	ts, err := parseCandumpTime(fields[0])
	if err != nil {
		return model.RawFrame{}, err
	}

	var f can.Frame
	if err := f.UnmarshalString(fields[2]); err != nil {
		return model.RawFrame{}, fmt.Errorf("%w: %v", ErrLineFormat, err)
	}
	if err := f.Validate(); err != nil {
		return model.RawFrame{}, fmt.Errorf("%w: %v", ErrLineFormat, err)
	}
	if f.IsRemote {
		return model.RawFrame{}, fmt.Errorf("%w: remote frame", ErrLineFormat)
	}

	id := fmt.Sprintf("%03X", f.ID)
	if f.IsExtended {
		id = fmt.Sprintf("%08X", f.ID)
	}
	return model.RawFrame{
		Date:       ts.Format(candumpDateLayout),
		Time:       ts.Format(candumpTimeLayout),
		ExtendedID: id,
		PayloadHex: strings.ToUpper(hex.EncodeToString(f.Data[:f.Length])),
	}, nil
}

// parseCandumpTime reads "(seconds.micros)".
func parseCandumpTime(tok string) (time.Time, error) {
	if len(tok) < 3 || tok[0] != '(' || tok[len(tok)-1] != ')' {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrLineFormat, tok)
	}
	secStr, fracStr, _ := strings.Cut(tok[1:len(tok)-1], ".")
	sec, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrLineFormat, tok)
	}
	var nsec int64
	if fracStr != "" {
		if len(fracStr) > 9 {
			fracStr = fracStr[:9]
		}
		frac, err := strconv.ParseInt(fracStr, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrLineFormat, tok)
		}
		for i := len(fracStr); i < 9; i++ {
			frac *= 10
		}
		nsec = frac
	}
	return time.Unix(sec, nsec).UTC(), nil
}
