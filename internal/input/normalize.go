package input

import (
	"errors"
	"fmt"
)

// ErrUnmapped reports an occurrence type with no gesture-kind mapping.
// Callers treat it as a silent drop, not a failure: not every low-level
// event is interaction-relevant.
var ErrUnmapped = errors.New("occurrence type has no gesture mapping")

// kindByType is the closed occurrence-name to gesture-kind table. Kept
// explicit and exhaustive so a new occurrence type surfaces as ErrUnmapped
// instead of silently landing in a default case.
var kindByType = map[string]Kind{
	"mousemove":  KindMove,
	"mouseenter": KindMove,
	"mouseleave": KindMove,

	"tap":       KindTap,
	"doubletap": KindDoubleTap,
	"press":     KindPress,

	"panstart": KindPan,
	"pan":      KindPan,
	"panend":   KindPan,

	"pinchstart": KindPinch,
	"pinch":      KindPinch,
	"pinchend":   KindPinch,

	"rotatestart": KindRotate,
	"rotate":      KindRotate,
	"rotateend":   KindRotate,

	"wheel": KindScroll,

	"keydown": KindKey,
	"keyup":   KindKey,
}

// Normalize converts a raw occurrence into its semantic event. It returns
// ErrUnmapped for occurrence types outside the table, and a hard error for
// pointer occurrences missing their screen position: the dispatcher does
// not guess geometry.
func Normalize(occ Occurrence) (SemanticEvent, error) {
	kind, ok := kindByType[occ.Type]
	if !ok {
		return SemanticEvent{}, fmt.Errorf("%q: %w", occ.Type, ErrUnmapped)
	}
	if kind != KindKey && !occ.HasPos {
		return SemanticEvent{}, fmt.Errorf("occurrence %q is missing screen coordinates", occ.Type)
	}
	return SemanticEvent{
		Kind:   kind,
		X:      occ.X,
		Y:      occ.Y,
		Mod:    occ.Mod,
		Source: occ,
	}, nil
}
