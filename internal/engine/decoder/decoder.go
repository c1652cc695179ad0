// Package decoder unpacks machine-specific binary payloads.
package decoder

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/crimson-sun/canlog/internal/model"
)

var (
	// ErrMalformedHex is returned for odd-length or non-hex payload text.
	ErrMalformedHex = errors.New("decoder: malformed hex payload")
	// ErrPayloadTooShort is returned when fewer bytes than the layout needs remain.
	ErrPayloadTooShort = errors.New("decoder: payload too short")
)

// minTelemetryHex is the payload length, in hex digits, at which a Flyer
// frame is treated as telemetry. Shorter payloads are other messages.
const minTelemetryHex = 2 * model.FlyerTelemetrySize

// positionScale converts wire positions (hundredths) to units.
const positionScale = 100.0

// Decode decodes the frame's payload for machine classes that carry
// telemetry. It returns nil, nil when no decode applies: a non-Flyer
// machine or a payload shorter than 40 hex digits.
func Decode(machine model.MachineClass, frame model.ResolvedFrame) (*model.FlyerTelemetry, error) {
	if machine != model.Flyer || len(frame.PayloadHex) < minTelemetryHex {
		return nil, nil
	}
	data, err := hex.DecodeString(frame.PayloadHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHex, err)
	}
	t, err := DecodeFlyer(data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DecodeFlyer unpacks the 20-byte big-endian Flyer telemetry layout.
// Bytes past the layout are ignored.
func DecodeFlyer(b []byte) (model.FlyerTelemetry, error) {
	if len(b) < model.FlyerTelemetrySize {
		return model.FlyerTelemetry{}, fmt.Errorf("%w: %d bytes, need %d", ErrPayloadTooShort, len(b), model.FlyerTelemetrySize)
	}
	return model.FlyerTelemetry{
		TargetPosition:     position(b[0:2]),
		PresentPosition:    position(b[2:4]),
		PresentRPM:         binary.BigEndian.Uint16(b[4:6]),
		AppliedDuty:        binary.BigEndian.Uint16(b[6:8]),
		FETTemp:            b[8],
		MOTTemp:            b[9],
		BusCurrentADC:      binary.BigEndian.Uint16(b[10:12]),
		BusVoltageADC:      binary.BigEndian.Uint16(b[12:14]),
		LiftDirection:      b[14],
		GBPresentPosition:  position(b[15:17]),
		EncPresentPosition: position(b[17:19]),
		UsingPosition:      b[19],
	}, nil
}

// position reads a two's-complement big-endian int16 in hundredths.
func position(b []byte) float64 {
	return float64(int16(binary.BigEndian.Uint16(b))) / positionScale
}
