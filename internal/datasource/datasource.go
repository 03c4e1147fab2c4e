// Package datasource defines where raw bytes come from and where trusted
// bytes go.
package datasource

import (
	"context"
	"io"
)

// Source yields the bytes of one raw dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Sink receives the bytes of one trusted dataset. Close publishes what was
// written; Abort discards it and leaves any previous output in place.
type Sink interface {
	Create(ctx context.Context) (Writer, error)
}

// Writer is an open Sink.
type Writer interface {
	io.WriteCloser
	Abort() error
}
