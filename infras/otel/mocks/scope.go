package mocks

import "rental/infras/otel"

type scope struct {
	recorder *Recorder
}

func (s *scope) End() {}

func (s *scope) SetAttribute(string, any) {}

func (s *scope) SetAttributes(map[string]any) {}

func (s *scope) AddEvent(name string) {
	if s.recorder != nil {
		s.recorder.addEvent(name)
	}
}

func (s *scope) TraceError(err error) {
	if err != nil && s.recorder != nil {
		s.recorder.traceError(err)
	}
}

func (s *scope) TraceIfError(err error) {
	s.TraceError(err)
}

// NewScope returns a scope that discards everything.
func NewScope() otel.Scope {
	return &scope{}
}
