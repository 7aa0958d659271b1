package tracer

import (
	"context"
	"sync"
)

// NoopTracer discards every span.
type NoopTracer struct{}

func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

func (t *NoopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                     {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) AddEvent(string, ...Attribute) {}

// FinishedSpan is a span captured by a Recorder.
type FinishedSpan struct {
	Name       string
	Attributes map[string]any
	Events     []string
	Err        error
}

// Recorder keeps every ended span in memory so tests can assert on them.
type Recorder struct {
	mu    sync.Mutex
	spans []FinishedSpan
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	s := &recordedSpan{recorder: r, span: FinishedSpan{Name: name, Attributes: map[string]any{}}}
	s.SetAttributes(attrs...)
	return ctx, s
}

// Spans returns the ended spans in end order.
func (r *Recorder) Spans() []FinishedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FinishedSpan(nil), r.spans...)
}

type recordedSpan struct {
	recorder *Recorder
	span     FinishedSpan
}

func (s *recordedSpan) End(err error) {
	s.span.Err = err
	s.recorder.mu.Lock()
	s.recorder.spans = append(s.recorder.spans, s.span)
	s.recorder.mu.Unlock()
}

func (s *recordedSpan) SetAttributes(attrs ...Attribute) {
	for _, a := range attrs {
		s.span.Attributes[a.Key] = a.Value
	}
}

func (s *recordedSpan) AddEvent(name string, _ ...Attribute) {
	s.span.Events = append(s.span.Events, name)
}

var (
	_ Tracer = (*NoopTracer)(nil)
	_ Tracer = (*Recorder)(nil)
	_ Span   = noopSpan{}
	_ Span   = (*recordedSpan)(nil)
)
