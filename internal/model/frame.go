package model

// Line is one input log line with its 1-based position in the batch.
type Line struct {
	No        int
	Text      string
	Truncated bool // Text was cut at the reader's line limit
}

// RawFrame is a receive-event frame split out of a log line.
type RawFrame struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	ExtendedID string `json:"extID"`
	PayloadHex string `json:"hexData"`
}

// Message types that carry a payload-keyed label.
const (
	MessageOperation = "Operation"
	MessageError     = "Error"
)

// ResolvedFrame is a RawFrame with its identifier codes resolved to names.
// At most one of OperationCommand and ErrorCommand is set, matching MessageType.
type ResolvedFrame struct {
	RawFrame

	FunctionCode string `json:"-"`
	DestCode     string `json:"-"`
	SourceCode   string `json:"-"`

	MessageType      string `json:"msgType"`
	SourceName       string `json:"source"`
	DestName         string `json:"dst"`
	OperationCommand string `json:"OperationCommand,omitempty"`
	ErrorCommand     string `json:"ErrorCommand,omitempty"`
}

// Label returns the operation or error label, if the message type carries one.
func (f ResolvedFrame) Label() (string, bool) {
	switch f.MessageType {
	case MessageOperation:
		return f.OperationCommand, true
	case MessageError:
		return f.ErrorCommand, true
	}
	return "", false
}
