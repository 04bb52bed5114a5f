package main

import "testing"

func TestWarnIfInteractiveDoesNotPanic(t *testing.T) {
	var buf writeRecorder
	warnIfInteractive(&buf)
}

type writeRecorder struct{ n int }

func (r *writeRecorder) Write(p []byte) (int, error) {
	r.n += len(p)
	return len(p), nil
}
