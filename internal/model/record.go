package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Side is the physical lift side a record belongs to.
type Side string

const (
	SideRight   Side = "Right"
	SideLeft    Side = "Left"
	SideUnknown Side = "Unknown"
)

// Sides lists every side in output order.
var Sides = []Side{SideRight, SideLeft, SideUnknown}

// ParseSide accepts a side name in any case.
func ParseSide(s string) (Side, error) {
	for _, side := range Sides {
		if strings.EqualFold(strings.TrimSpace(s), string(side)) {
			return side, nil
		}
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Variant distinguishes records with and without a decoded payload.
type Variant int

const (
	VariantResolved Variant = iota
	VariantTelemetry
)

// Record is the pipeline's output: a resolved frame, its side, and for
// telemetry-bearing frames the decoded payload.
type Record struct {
	ResolvedFrame
	Telemetry *FlyerTelemetry `json:"telemetry,omitempty"`
	Side      Side            `json:"LiftSide"`
}

// Variant reports which field set the record carries.
func (r Record) Variant() Variant {
	if r.Telemetry != nil {
		return VariantTelemetry
	}
	return VariantResolved
}

// Field names a tabular column.
type Field string

const (
	FieldDate      Field = "date"
	FieldTime      Field = "time"
	FieldExtID     Field = "extID"
	FieldHexData   Field = "hexData"
	FieldMsgType   Field = "msgType"
	FieldSource    Field = "source"
	FieldDst       Field = "dst"
	FieldOperation Field = "OperationCommand"
	FieldError     Field = "ErrorCommand"

	FieldTargetPosition     Field = "targetPosition"
	FieldPresentPosition    Field = "presentPosition"
	FieldPresentRPM         Field = "presentRPM"
	FieldAppliedDuty        Field = "appliedDuty"
	FieldFETTemp            Field = "FETtemp"
	FieldMOTTemp            Field = "MOTtemp"
	FieldBusCurrentADC      Field = "busCurrentADC"
	FieldBusVoltageADC      Field = "busVoltageADC"
	FieldLiftDirection      Field = "liftDirection"
	FieldGBPresentPosition  Field = "GBPresentPosition"
	FieldEncPresentPosition Field = "encPresentPosition"
	FieldUsingPosition      Field = "usingPosition"

	FieldSide Field = "LiftSide"
)

// ResolvedFields are present on every record.
var ResolvedFields = []Field{
	FieldDate, FieldTime, FieldExtID, FieldHexData, FieldMsgType, FieldSource, FieldDst,
}

// TelemetryFields are present only on VariantTelemetry records, in wire order.
var TelemetryFields = []Field{
	FieldTargetPosition, FieldPresentPosition, FieldPresentRPM, FieldAppliedDuty,
	FieldFETTemp, FieldMOTTemp, FieldBusCurrentADC, FieldBusVoltageADC,
	FieldLiftDirection, FieldGBPresentPosition, FieldEncPresentPosition, FieldUsingPosition,
}

// Value renders field f of the record. ok is false when the record's
// variant does not populate f.
func (r Record) Value(f Field) (v string, ok bool) {
	switch f {
	case FieldDate:
		return r.Date, true
	case FieldTime:
		return r.Time, true
	case FieldExtID:
		return r.ExtendedID, true
	case FieldHexData:
		return r.PayloadHex, true
	case FieldMsgType:
		return r.MessageType, true
	case FieldSource:
		return r.SourceName, true
	case FieldDst:
		return r.DestName, true
	case FieldOperation:
		if r.MessageType != MessageOperation {
			return "", false
		}
		return r.OperationCommand, true
	case FieldError:
		if r.MessageType != MessageError {
			return "", false
		}
		return r.ErrorCommand, true
	case FieldSide:
		return string(r.Side), true
	}

	t := r.Telemetry
	if t == nil {
		return "", false
	}
	switch f {
	case FieldTargetPosition:
		return formatPosition(t.TargetPosition), true
	case FieldPresentPosition:
		return formatPosition(t.PresentPosition), true
	case FieldPresentRPM:
		return strconv.FormatUint(uint64(t.PresentRPM), 10), true
	case FieldAppliedDuty:
		return strconv.FormatUint(uint64(t.AppliedDuty), 10), true
	case FieldFETTemp:
		return strconv.FormatUint(uint64(t.FETTemp), 10), true
	case FieldMOTTemp:
		return strconv.FormatUint(uint64(t.MOTTemp), 10), true
	case FieldBusCurrentADC:
		return strconv.FormatUint(uint64(t.BusCurrentADC), 10), true
	case FieldBusVoltageADC:
		return strconv.FormatUint(uint64(t.BusVoltageADC), 10), true
	case FieldLiftDirection:
		return strconv.FormatUint(uint64(t.LiftDirection), 10), true
	case FieldGBPresentPosition:
		return formatPosition(t.GBPresentPosition), true
	case FieldEncPresentPosition:
		return formatPosition(t.EncPresentPosition), true
	case FieldUsingPosition:
		return strconv.FormatUint(uint64(t.UsingPosition), 10), true
	}
	return "", false
}

// Number returns telemetry field f as a number. ok is false for text
// fields and for records without telemetry.
func (r Record) Number(f Field) (v float64, ok bool) {
	t := r.Telemetry
	if t == nil {
		return 0, false
	}
	switch f {
	case FieldTargetPosition:
		return t.TargetPosition, true
	case FieldPresentPosition:
		return t.PresentPosition, true
	case FieldPresentRPM:
		return float64(t.PresentRPM), true
	case FieldAppliedDuty:
		return float64(t.AppliedDuty), true
	case FieldFETTemp:
		return float64(t.FETTemp), true
	case FieldMOTTemp:
		return float64(t.MOTTemp), true
	case FieldBusCurrentADC:
		return float64(t.BusCurrentADC), true
	case FieldBusVoltageADC:
		return float64(t.BusVoltageADC), true
	case FieldLiftDirection:
		return float64(t.LiftDirection), true
	case FieldGBPresentPosition:
		return t.GBPresentPosition, true
	case FieldEncPresentPosition:
		return t.EncPresentPosition, true
	case FieldUsingPosition:
		return float64(t.UsingPosition), true
	}
	return 0, false
}

func formatPosition(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
