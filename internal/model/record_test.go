package model

import "testing"

func operationRecord() Record {
	return Record{
		ResolvedFrame: ResolvedFrame{
			RawFrame:         RawFrame{Date: "2024-01-01", Time: "10:00:00.000", ExtendedID: "00123456", PayloadHex: "0A"},
			MessageType:      MessageOperation,
			SourceName:       "NodeB",
			DestName:         "NodeA",
			OperationCommand: "Start",
		},
		Side: SideUnknown,
	}
}

func TestValueResolvedFields(t *testing.T) {
	r := operationRecord()
	if r.Variant() != VariantResolved {
		t.Fatalf("Variant = %v, want resolved", r.Variant())
	}
	want := map[Field]string{
		FieldDate: "2024-01-01", FieldExtID: "00123456", FieldMsgType: "Operation",
		FieldOperation: "Start", FieldSide: "Unknown",
	}
	for f, v := range want {
		if got, ok := r.Value(f); !ok || got != v {
			t.Errorf("Value(%s) = %q, %v; want %q", f, got, ok, v)
		}
	}
	if _, ok := r.Value(FieldError); ok {
		t.Error("operation record should not populate ErrorCommand")
	}
	if _, ok := r.Value(FieldPresentRPM); ok {
		t.Error("resolved record should not populate telemetry fields")
	}
}

func TestValueTelemetryFields(t *testing.T) {
	r := operationRecord()
	r.MessageType = "Status"
	r.OperationCommand = ""
	r.Telemetry = &FlyerTelemetry{TargetPosition: 1, PresentPosition: -0.5, PresentRPM: 1000, UsingPosition: 1}

	if r.Variant() != VariantTelemetry {
		t.Fatalf("Variant = %v, want telemetry", r.Variant())
	}
	want := map[Field]string{
		FieldTargetPosition:  "1.00",
		FieldPresentPosition: "-0.50",
		FieldPresentRPM:      "1000",
		FieldUsingPosition:   "1",
	}
	for f, v := range want {
		if got, ok := r.Value(f); !ok || got != v {
			t.Errorf("Value(%s) = %q, %v; want %q", f, got, ok, v)
		}
	}
	if _, ok := r.Value(FieldOperation); ok {
		t.Error("status record should not populate OperationCommand")
	}
}

func TestDiagnosticDropped(t *testing.T) {
	for stage, want := range map[Stage]bool{StageParse: true, StageResolve: true, StageDecode: false} {
		if got := (Diagnostic{Stage: stage}).Dropped(); got != want {
			t.Errorf("Dropped() for %s = %v, want %v", stage, got, want)
		}
	}
}

func TestNumber(t *testing.T) {
	r := operationRecord()
	if _, ok := r.Number(FieldPresentRPM); ok {
		t.Fatal("record without telemetry has no numbers")
	}
	r.Telemetry = &FlyerTelemetry{PresentPosition: -0.5, BusVoltageADC: 600}
	if v, ok := r.Number(FieldPresentPosition); !ok || v != -0.5 {
		t.Errorf("Number(presentPosition) = %v, %v", v, ok)
	}
	if v, ok := r.Number(FieldBusVoltageADC); !ok || v != 600 {
		t.Errorf("Number(busVoltageADC) = %v, %v", v, ok)
	}
	if _, ok := r.Number(FieldDate); ok {
		t.Error("date is not numeric")
	}
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"Right": SideRight, " left": SideLeft, "UNKNOWN": SideUnknown} {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Errorf("ParseSide(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Error("expected error for unknown side")
	}
}
