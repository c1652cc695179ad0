package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/crimson-sun/canlog/internal/model"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
	RecordHTTPRequest("GET", "/healthz", 200, 3*time.Millisecond)
	RecordRun(model.Flyer, "serial", 10*time.Millisecond)
}

func TestRecordersCount(t *testing.T) {
	lines := linesTotal.WithLabelValues("df")
	before := testutil.ToFloat64(lines)
	RecordLines(model.DF, 7)
	if got := testutil.ToFloat64(lines) - before; got != 7 {
		t.Fatalf("lines delta = %v, want 7", got)
	}

	rec := model.Record{Side: model.SideLeft, Telemetry: &model.FlyerTelemetry{}}
	c := recordsTotal.WithLabelValues("flyer", "Left", "telemetry")
	before = testutil.ToFloat64(c)
	RecordRecord(model.Flyer, rec)
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("records delta = %v, want 1", got)
	}

	d := model.Diagnostic{Stage: model.StageResolve, Kind: model.KindResolution}
	c = diagnosticsTotal.WithLabelValues("carding", "resolve", "resolution")
	before = testutil.ToFloat64(c)
	RecordDiagnostic(model.Carding, d)
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("diagnostics delta = %v, want 1", got)
	}
}
