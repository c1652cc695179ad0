package classifier

import (
	"testing"

	"github.com/crimson-sun/canlog/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		src, dst string
		want     model.Side
	}{
		{"Right_Flyer", "anything", model.SideRight},
		{"Left_X", "Right_Y", model.SideRight},
		{"Main", "LEFT_LIFT", model.SideLeft},
		{"Left_Lift", "Main", model.SideLeft},
		{"BrightLeft", "Main", model.SideRight},
		{"Main", "Controller", model.SideUnknown},
		{"", "", model.SideUnknown},
	}
	for _, tt := range tests {
		f := model.ResolvedFrame{SourceName: tt.src, DestName: tt.dst}
		if got := Classify(f); got != tt.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tt.src, tt.dst, got, tt.want)
		}
	}
}
