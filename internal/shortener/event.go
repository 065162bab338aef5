package shortener

import "time"

// Event messages emitted by the service and resolver.
const (
	MsgProcessing = "processing short link"
	MsgCreated    = "short link created"
	MsgListed     = "short links listed"
	MsgAttempt    = "short link resolve attempt"
)

// Event is a structured notification about a core operation.
type Event struct {
	Msg     string         `json:"msg"`
	Payload map[string]any `json:"payload"`
	Time    time.Time      `json:"time"`
}

// EventSink receives core events. Log is fire-and-forget: it has no result
// and must not fail the operation that emitted the event.
type EventSink interface {
	Log(event Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Log(Event) {}

// emitter stamps events with the clock and shields callers from sink panics.
type emitter struct {
	sink  EventSink
	clock Clock
}

func newEmitter(sink EventSink, clock Clock) emitter {
	if sink == nil {
		sink = NopSink{}
	}

	return emitter{sink: sink, clock: clock}
}

func (e emitter) emit(msg string, payload map[string]any) {
	defer func() {
		_ = recover()
	}()

	e.sink.Log(Event{Msg: msg, Payload: payload, Time: e.clock.Now()})
}
