package testutil

import (
	"context"
	"sync"
	"time"

	"jt-go/internal/jt"
)

// StubExtractor returns scripted payloads and records every call.
// Safe for concurrent use.
type StubExtractor struct {
	mu      sync.Mutex
	fn      func(ctx context.Context, text string, schema jt.Schema) (jt.Payload, error)
	calls   []string
	schemas []jt.Schema
}

// NewStubExtractor creates a StubExtractor that answers with fn.
func NewStubExtractor(fn func(ctx context.Context, text string, schema jt.Schema) (jt.Payload, error)) *StubExtractor {
	return &StubExtractor{fn: fn}
}

// PayloadExtractor always returns p.
func PayloadExtractor(p jt.Payload) *StubExtractor {
	return NewStubExtractor(func(context.Context, string, jt.Schema) (jt.Payload, error) {
		return p, nil
	})
}

// ErrorExtractor always fails with err.
func ErrorExtractor(err error) *StubExtractor {
	return NewStubExtractor(func(context.Context, string, jt.Schema) (jt.Payload, error) {
		return nil, err
	})
}

// SlowExtractor blocks for d or until the context is done, then returns p.
func SlowExtractor(d time.Duration, p jt.Payload) *StubExtractor {
	return NewStubExtractor(func(ctx context.Context, _ string, _ jt.Schema) (jt.Payload, error) {
		select {
		case <-time.After(d):
			return p, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// StuckExtractor ignores its context and blocks until release is closed.
func StuckExtractor(release <-chan struct{}, p jt.Payload) *StubExtractor {
	return NewStubExtractor(func(context.Context, string, jt.Schema) (jt.Payload, error) {
		<-release
		return p, nil
	})
}

func (e *StubExtractor) Extract(ctx context.Context, text string, schema jt.Schema) (jt.Payload, error) {
	e.mu.Lock()
	e.calls = append(e.calls, text)
	e.schemas = append(e.schemas, schema)
	fn := e.fn
	e.mu.Unlock()
	return fn(ctx, text, schema)
}

func (e *StubExtractor) Name() string { return "stub" }

// Calls returns the texts passed to Extract, in order.
func (e *StubExtractor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// LastSchema returns the schema of the most recent call.
func (e *StubExtractor) LastSchema() jt.Schema {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.schemas) == 0 {
		return jt.Schema{}
	}
	return e.schemas[len(e.schemas)-1]
}
