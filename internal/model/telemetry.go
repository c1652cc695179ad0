package model

// FlyerTelemetrySize is the number of payload bytes in a Flyer telemetry frame.
const FlyerTelemetrySize = 20

// FlyerTelemetry is the motor-control status a Flyer lift node reports.
// Positions are in hundredths on the wire and already scaled here.
type FlyerTelemetry struct {
	TargetPosition     float64 `json:"targetPosition"`
	PresentPosition    float64 `json:"presentPosition"`
	PresentRPM         uint16  `json:"presentRPM"`
	AppliedDuty        uint16  `json:"appliedDuty"`
	FETTemp            uint8   `json:"FETtemp"`
	MOTTemp            uint8   `json:"MOTtemp"`
	BusCurrentADC      uint16  `json:"busCurrentADC"`
	BusVoltageADC      uint16  `json:"busVoltageADC"`
	LiftDirection      uint8   `json:"liftDirection"`
	GBPresentPosition  float64 `json:"GBPresentPosition"`
	EncPresentPosition float64 `json:"encPresentPosition"`
	UsingPosition      uint8   `json:"usingPosition"`
}
