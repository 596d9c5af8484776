// Package dispatch is the interaction core of the plotting surface. It turns
// normalized gesture occurrences into two independent output streams: routed
// events delivered to the currently-active tool(s) for the gesture kind, and
// document notifications published regardless of tool activation. As a side
// effect of move-class dispatch it derives the surface's pointer cursor from
// overlay hit-testing and active inspectors.
package dispatch

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/plotline-dev/plotline/internal/events"
	"github.com/plotline-dev/plotline/internal/hittest"
	"github.com/plotline-dev/plotline/internal/input"
	"github.com/plotline-dev/plotline/internal/log"
	"github.com/plotline-dev/plotline/internal/pubsub"
	"github.com/plotline-dev/plotline/internal/tools"
)

// DefaultCursor is the baseline cursor style when no override applies.
const DefaultCursor = "default"

// ToolSource is the read-only view of tool activation state the dispatcher
// consumes. Activation is owned elsewhere; the dispatcher re-queries it
// fresh on every dispatch.
type ToolSource interface {
	ActiveFor(kind input.Kind) (tools.Tool, bool)
	ActiveMulti(kind input.Kind) []tools.Tool
}

// Notifier is the document event channel. *pubsub.Broker[events.Notification]
// satisfies it.
type Notifier interface {
	Publish(topic pubsub.Topic, origin string, payload events.Notification)
}

// Options configures optional dispatcher behavior.
type Options struct {
	// BaselineCursor overrides DefaultCursor.
	BaselineCursor string
	// Tracer records one span per dispatched occurrence. Nil disables
	// tracing.
	Tracer trace.Tracer
}

// Dispatcher routes occurrences for a single plot surface. It is not safe
// for concurrent use: the hosting event loop must fully process one
// occurrence before the next, which the Bubble Tea update loop guarantees.
type Dispatcher struct {
	surfaceID string
	tools     ToolSource
	hits      hittest.Tester
	router    tools.Router
	notifier  Notifier
	baseline  string
	tracer    trace.Tracer

	// cursor is the only state the dispatcher itself mutates; it is
	// written solely by resolveCursor and read via Cursor.
	cursor string
}

// New creates a dispatcher for the surface identified by surfaceID.
func New(surfaceID string, src ToolSource, hits hittest.Tester, router tools.Router, notifier Notifier, opts Options) *Dispatcher {
	baseline := opts.BaselineCursor
	if baseline == "" {
		baseline = DefaultCursor
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("dispatch")
	}
	return &Dispatcher{
		surfaceID: surfaceID,
		tools:     src,
		hits:      hits,
		router:    router,
		notifier:  notifier,
		baseline:  baseline,
		tracer:    tracer,
		cursor:    baseline,
	}
}

// Cursor returns the current pointer cursor style for the surface.
func (d *Dispatcher) Cursor() string { return d.cursor }

// Entry points, one per semantic occurrence kind. Each stamps the occurrence
// type and runs the full normalize, route, notify, cursor pipeline.

func (d *Dispatcher) Tap(occ input.Occurrence) error       { return d.stamped("tap", occ) }
func (d *Dispatcher) DoubleTap(occ input.Occurrence) error { return d.stamped("doubletap", occ) }
func (d *Dispatcher) Press(occ input.Occurrence) error     { return d.stamped("press", occ) }

func (d *Dispatcher) PanStart(occ input.Occurrence) error { return d.stamped("panstart", occ) }
func (d *Dispatcher) Pan(occ input.Occurrence) error      { return d.stamped("pan", occ) }
func (d *Dispatcher) PanEnd(occ input.Occurrence) error   { return d.stamped("panend", occ) }

func (d *Dispatcher) PinchStart(occ input.Occurrence) error { return d.stamped("pinchstart", occ) }
func (d *Dispatcher) Pinch(occ input.Occurrence) error      { return d.stamped("pinch", occ) }
func (d *Dispatcher) PinchEnd(occ input.Occurrence) error   { return d.stamped("pinchend", occ) }

func (d *Dispatcher) RotateStart(occ input.Occurrence) error { return d.stamped("rotatestart", occ) }
func (d *Dispatcher) Rotate(occ input.Occurrence) error      { return d.stamped("rotate", occ) }
func (d *Dispatcher) RotateEnd(occ input.Occurrence) error   { return d.stamped("rotateend", occ) }

func (d *Dispatcher) MouseEnter(occ input.Occurrence) error { return d.stamped("mouseenter", occ) }
func (d *Dispatcher) MouseMove(occ input.Occurrence) error  { return d.stamped("mousemove", occ) }
func (d *Dispatcher) MouseExit(occ input.Occurrence) error  { return d.stamped("mouseleave", occ) }
func (d *Dispatcher) MouseWheel(occ input.Occurrence) error { return d.stamped("wheel", occ) }

func (d *Dispatcher) KeyDown(occ input.Occurrence) error { return d.stamped("keydown", occ) }
func (d *Dispatcher) KeyUp(occ input.Occurrence) error   { return d.stamped("keyup", occ) }

func (d *Dispatcher) stamped(typ string, occ input.Occurrence) error {
	occ.Type = typ
	return d.Dispatch(occ)
}

// Dispatch processes one raw occurrence to completion. Occurrence types
// outside the gesture table are dropped from routing but may still notify;
// malformed occurrences (pointer kinds without coordinates) are returned as
// errors since the dispatcher does not guess geometry.
func (d *Dispatcher) Dispatch(occ input.Occurrence) error {
	_, span := d.tracer.Start(context.Background(), "dispatch",
		trace.WithAttributes(attribute.String("occurrence", occ.Type)))
	defer span.End()

	var (
		moveHit   hittest.Result
		moveHitOK bool
	)

	ev, err := input.Normalize(occ)
	switch {
	case err == nil:
		span.SetAttributes(
			attribute.String("kind", string(ev.Kind)),
			attribute.Int("x", ev.X),
			attribute.Int("y", ev.Y),
		)
		switch ev.Kind {
		case input.KindMove:
			moveHit, moveHitOK = d.routeMove(ev)
		case input.KindKey:
			d.routeKey(ev)
		default:
			d.routeExclusive(ev)
		}
	case errors.Is(err, input.ErrUnmapped):
		log.Debug(log.CatDispatch, "unmapped occurrence dropped", "type", occ.Type)
	default:
		return err
	}

	d.notify(occ)

	if err == nil && ev.Kind == input.KindMove {
		d.resolveCursor(ev, moveHit, moveHitOK)
	}
	return nil
}

// routeMove routes a move occurrence to every active inspector. When an
// overlay claims the point, the routed kind becomes move_exit: the pointer
// has left the inspectable surface. The hit result is returned for cursor
// resolution, which reuses it rather than hit-testing twice.
func (d *Dispatcher) routeMove(ev input.SemanticEvent) (hittest.Result, bool) {
	hit, ok := d.hits.HitTest(ev.X, ev.Y)

	kind := input.KindMove
	if ok {
		kind = input.KindMoveExit
	}
	for _, t := range d.tools.ActiveMulti(input.KindMove) {
		d.router.Route(kind, ev, t.ID())
	}
	return hit, ok
}

// routeKey routes a key occurrence to every enabled key listener.
func (d *Dispatcher) routeKey(ev input.SemanticEvent) {
	for _, t := range d.tools.ActiveMulti(input.KindKey) {
		d.router.Route(input.KindKey, ev, t.ID())
	}
}

// routeExclusive routes an occurrence of an exclusive kind to its single
// active tool, if any. Overlay hit callbacks on tap and default-scroll
// suppression are handled here: callbacks fire independent of tool
// activation, suppression only with an active scroll tool.
func (d *Dispatcher) routeExclusive(ev input.SemanticEvent) {
	t, active := d.tools.ActiveFor(ev.Kind)
	if active {
		d.router.Route(ev.Kind, ev, t.ID())
		log.Debug(log.CatDispatch, "routed", "kind", ev.Kind, "tool", t.ID())
	}

	if ev.Kind == input.KindTap {
		if hit, ok := d.hits.HitTest(ev.X, ev.Y); ok && hit.OnHit != nil {
			hit.OnHit(ev.X, ev.Y)
		}
	}

	if ev.Kind == input.KindScroll && active && ev.Source.SuppressDefault != nil {
		ev.Source.SuppressDefault()
	}
}

// notify publishes the primary document notification for the occurrence,
// independent of the routing outcome. Occurrence types with no mapping
// (rotate, keydown) produce nothing.
func (d *Dispatcher) notify(occ input.Occurrence) {
	kind, ok := events.ForOccurrence(occ.Type)
	if !ok || d.notifier == nil {
		return
	}
	d.notifier.Publish(pubsub.Topic(kind), d.surfaceID, events.Notification{
		Kind: kind,
		X:    occ.X,
		Y:    occ.Y,
		Key:  occ.Key,
		Plot: d.surfaceID,
	})
}
