// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worker runs the coarse-grained pipeline loop: on every wake,
// cadence-gated retrieval followed unconditionally by processing. The
// tick source is injected so tests drive passes synchronously.
package worker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/paper-digest/internal/pipeline"
)

// Loop wires the two pipeline stages to a tick source. The function
// fields keep scheduling out of the pipeline logic itself.
type Loop struct {
	// ShouldRetrieve gates retrieval on the last successful run.
	ShouldRetrieve func(ctx context.Context) (bool, error)

	// Retrieve pulls recent catalog entries into the store.
	Retrieve func(ctx context.Context, w io.Writer) (int, error)

	// Process summarizes every paper lacking a summary.
	Process func(ctx context.Context, w io.Writer) (pipeline.Report, error)

	// Ticks delivers wake-ups. Run performs one pass immediately on
	// start, then one per tick.
	Ticks <-chan time.Time

	// Out receives progress output.
	Out io.Writer
}

// Run executes passes until ctx is cancelled. Errors inside a pass are
// reported to Out and the loop continues; cancellation is only observed
// between units of work, so an in-flight paper always completes.
func (l *Loop) Run(ctx context.Context) error {
	l.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.Ticks:
			l.pass(ctx)
		}
	}
}

func (l *Loop) pass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	run, err := l.ShouldRetrieve(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(l.Out, "retrieval gate check failed: %v\n", err)
	case run:
		if _, err := l.Retrieve(ctx, l.Out); err != nil {
			fmt.Fprintf(l.Out, "retrieval failed: %v\n", err)
		}
	default:
		fmt.Fprintln(l.Out, "skipping retrieval: minimum interval not elapsed")
	}

	if _, err := l.Process(ctx, l.Out); err != nil && ctx.Err() == nil {
		fmt.Fprintf(l.Out, "processing failed: %v\n", err)
	}
}
