package canlog

// Record is a decoded log line. This is the stable public type; internal
// representations may evolve independently.
type Record struct {
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	ExtID     string     `json:"extID"`
	Payload   string     `json:"hexData"`
	MsgType   string     `json:"msgType"`
	Source    string     `json:"source"`
	Dst       string     `json:"dst"`
	Operation string     `json:"OperationCommand,omitempty"` // set when MsgType is "Operation"
	Error     string     `json:"ErrorCommand,omitempty"`     // set when MsgType is "Error"
	Telemetry *Telemetry `json:"telemetry,omitempty"`        // Flyer status frames only
	Side      string     `json:"LiftSide"`                   // Right, Left or Unknown
}

// Telemetry is a decoded Flyer motor-control payload.
type Telemetry struct {
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

// Diagnostic explains a skipped line or an undecodable payload.
type Diagnostic struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Stage   string `json:"stage"` // parse, resolve or decode
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the outcome of one Decode call.
type Result struct {
	Session     string       `json:"session"`
	Records     []Record     `json:"records"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
