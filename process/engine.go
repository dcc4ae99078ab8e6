package process

import (
	"context"
	"errors"
	"runtime"

	"github.com/alitto/pond"

	"github.com/smcore/go-strongmotion/config"

	strongmotion "github.com/smcore/go-strongmotion"
)

// RunPipeline applies every configured step, in order, to stream:
// steps never reorder, duplicates run independently, and an uncaught
// internal error from one step aborts this stream, failing it with
// reason "internal:<step>:<short-message>" and recording every
// not-yet-run step as skipped against each of the stream's traces.
func RunPipeline(reg *Registry, steps []config.ProcessingStep, stream *strongmotion.Stream, event strongmotion.Event) error {
	for i, step := range steps {
		spec, ok := reg.Lookup(step.Name)
		if !ok {
			return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "process.RunPipeline", strongmotion.ErrUnknownStep)
		}
		if err := spec.Func(stream, event, step.Args); err != nil {
			stream.Fail(spec.Activity, "internal:"+spec.Name+":"+shortMessage(err))
			recordRemainingSkipped(reg, stream, steps[i+1:])
			return err
		}
	}
	return nil
}

// shortMessage unwraps a ClassifiedError to the underlying cause's
// message, so the recorded failure reason doesn't repeat the
// class/op prefix ClassifiedError.Error already carries.
func shortMessage(err error) string {
	var ce *strongmotion.ClassifiedError
	if errors.As(err, &ce) {
		return ce.Err.Error()
	}
	return err.Error()
}

// recordRemainingSkipped appends a skipped provenance entry, against
// every trace in stream, for each step that never ran because an
// earlier one failed internally.
func recordRemainingSkipped(reg *Registry, stream *strongmotion.Stream, remaining []config.ProcessingStep) {
	for _, step := range remaining {
		spec, ok := reg.Lookup(step.Name)
		if !ok {
			continue
		}
		for _, tr := range stream.Traces() {
			strongmotion.RecordSkipped(tr, spec.Activity)
		}
	}
}

// StreamResult pairs the unit of work this module schedules — one
// stream for one event — with the outcome of running it through the
// pipeline.
type StreamResult struct {
	Stream *strongmotion.Stream
	Err    error
}

// RunCollection processes every stream in collection concurrently,
// using a pond worker pool
// (pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))): one unit of
// work per independent stream, no shared mutable state across units,
// and cancellation discards any stream still in flight without
// touching results already returned for finished ones.
func RunCollection(ctx context.Context, reg *Registry, steps []config.ProcessingStep, collection *strongmotion.StreamCollection, event strongmotion.Event) []StreamResult {
	streams := collection.Streams()
	results := make([]StreamResult, len(streams))

	n := runtime.NumCPU()
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for i, stream := range streams {
		i, stream := i, stream
		pool.Submit(func() {
			if ctx.Err() != nil {
				results[i] = StreamResult{Stream: stream, Err: ctx.Err()}
				return
			}
			err := RunPipeline(reg, steps, stream, event)
			results[i] = StreamResult{Stream: stream, Err: err}
		})
	}

	return results
}
