// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/pipeline"
)

// harness counts stage invocations and lets tests script the gate.
type harness struct {
	gate        bool
	gateErr     error
	retrieved   int
	processed   int
	retrieveErr error
}

func (h *harness) loop(ticks <-chan time.Time, out io.Writer) *Loop {
	return &Loop{
		ShouldRetrieve: func(ctx context.Context) (bool, error) {
			return h.gate, h.gateErr
		},
		Retrieve: func(ctx context.Context, w io.Writer) (int, error) {
			h.retrieved++
			return 0, h.retrieveErr
		},
		Process: func(ctx context.Context, w io.Writer) (pipeline.Report, error) {
			h.processed++
			return pipeline.Report{}, nil
		},
		Ticks: ticks,
		Out:   out,
	}
}

func runUntilCancelled(t *testing.T, l *Loop, cancelAfter func(cancel context.CancelFunc)) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancelAfter(cancel)

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("worker loop did not stop after cancellation")
		return nil
	}
}

func TestRunPerformsInitialPass(t *testing.T) {
	h := &harness{gate: true}
	var out bytes.Buffer

	err := runUntilCancelled(t, h.loop(nil, &out), func(cancel context.CancelFunc) {
		// No ticks: only the initial pass runs.
		time.Sleep(50 * time.Millisecond)
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, h.retrieved)
	assert.Equal(t, 1, h.processed)
}

func TestRunProcessesOncePerTick(t *testing.T) {
	h := &harness{gate: true}
	ticks := make(chan time.Time)
	var out bytes.Buffer

	err := runUntilCancelled(t, h.loop(ticks, &out), func(cancel context.CancelFunc) {
		ticks <- time.Now()
		ticks <- time.Now()
		time.Sleep(50 * time.Millisecond)
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 3, h.retrieved, "initial pass plus one per tick")
	assert.Equal(t, 3, h.processed)
}

func TestRunSkipsRetrievalWhenGateClosed(t *testing.T) {
	h := &harness{gate: false}
	var out bytes.Buffer

	err := runUntilCancelled(t, h.loop(nil, &out), func(cancel context.CancelFunc) {
		time.Sleep(50 * time.Millisecond)
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Zero(t, h.retrieved)
	assert.Equal(t, 1, h.processed, "processing runs unconditionally")
	assert.Contains(t, out.String(), "skipping retrieval")
}

func TestRunContinuesAfterStageErrors(t *testing.T) {
	h := &harness{gate: true, retrieveErr: errors.New("log write failed")}
	ticks := make(chan time.Time)
	var out bytes.Buffer

	err := runUntilCancelled(t, h.loop(ticks, &out), func(cancel context.CancelFunc) {
		ticks <- time.Now()
		time.Sleep(50 * time.Millisecond)
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 2, h.retrieved, "a failing stage must not stop the loop")
	assert.Equal(t, 2, h.processed)
	assert.Contains(t, out.String(), "retrieval failed")
}

func TestRunGateErrorStillProcesses(t *testing.T) {
	h := &harness{gateErr: errors.New("store unreachable")}
	var out bytes.Buffer

	err := runUntilCancelled(t, h.loop(nil, &out), func(cancel context.CancelFunc) {
		time.Sleep(50 * time.Millisecond)
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Zero(t, h.retrieved)
	assert.Equal(t, 1, h.processed)
	assert.Contains(t, out.String(), "retrieval gate check failed")
}
