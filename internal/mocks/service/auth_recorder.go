package service

import (
	"sync"
	"time"
)

// RecorderSpy is a concurrency-safe service.AuthRecorder that keeps every outcome.
type RecorderSpy struct {
	mu       sync.Mutex
	outcomes []string
}

// RecordOutcome stores "operation/outcome".
func (r *RecorderSpy) RecordOutcome(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, operation+"/"+outcome)
}

func (r *RecorderSpy) ObserveDerivation(time.Duration) {}
func (r *RecorderSpy) DerivationStarted()              {}
func (r *RecorderSpy) DerivationFinished()             {}

// Outcomes returns a copy of the recorded outcomes in order.
func (r *RecorderSpy) Outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.outcomes...)
}
