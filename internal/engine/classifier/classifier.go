package classifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/crimson-sun/canlog/internal/model"
)

const (
	rightToken = "right"
	leftToken  = "left"
)

// Classify assigns a lift side from the resolved node names. "right" in
// either name wins over "left"; names with neither are Unknown.
func Classify(frame model.ResolvedFrame) model.Side {
	// Casers hold state, so each call gets its own.
	lower := cases.Lower(language.Und)
	src := lower.String(frame.SourceName)
	dst := lower.String(frame.DestName)

	switch {
	case strings.Contains(src, rightToken) || strings.Contains(dst, rightToken):
		return model.SideRight
	case strings.Contains(src, leftToken) || strings.Contains(dst, leftToken):
		return model.SideLeft
	default:
		return model.SideUnknown
	}
}
