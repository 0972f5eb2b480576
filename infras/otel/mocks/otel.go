package mocks

import (
	"context"
	"rental/infras/otel"
	"sync"
)

// Recorder is an otel.Otel that keeps what handlers and services report, for assertions.
type Recorder struct {
	mu     sync.Mutex
	errors []error
	events []string
}

func NewOtel() *Recorder {
	return &Recorder{}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, &scope{recorder: r}
}

// Shutdown implements otel.Otel.
func (r *Recorder) Shutdown(context.Context) error {
	return nil
}

func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events...)
}

func (r *Recorder) traceError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, err)
}

func (r *Recorder) addEvent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, name)
}
