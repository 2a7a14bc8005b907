package engine

import (
	"sync"
	"time"
)

// Recorder receives operation latencies. Implement it to integrate with an
// external monitoring system; the engine calls it with the store lock
// released.
type Recorder interface {
	// RecordRequest is called after each row read, increment, or
	// credential lookup with the total elapsed time, including any time
	// spent gated behind a reorganization.
	RecordRequest(d time.Duration)

	// RecordReorganization is called once per completed (or failed)
	// reorganization run.
	RecordReorganization(d time.Duration)
}

// NoopRecorder discards all samples.
type NoopRecorder struct{}

func (NoopRecorder) RecordRequest(time.Duration)        {}
func (NoopRecorder) RecordReorganization(time.Duration) {}

// LatencyStats is a streaming aggregate over one operation class. Raw
// samples are never retained; a long-running process holds constant state
// per class.
type LatencyStats struct {
	Count int64
	Total time.Duration
	Max   time.Duration
}

// Average returns the mean latency over all samples, or zero when none
// have been recorded.
func (s LatencyStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s *LatencyStats) record(d time.Duration) {
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
}

// StreamingRecorder keeps count/total/max per operation class. The zero
// value is ready to use.
type StreamingRecorder struct {
	mu             sync.Mutex
	request        LatencyStats
	reorganization LatencyStats
}

// NewStreamingRecorder creates an empty recorder.
func NewStreamingRecorder() *StreamingRecorder {
	return &StreamingRecorder{}
}

// RecordRequest implements Recorder.
func (r *StreamingRecorder) RecordRequest(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.request.record(d)
}

// RecordReorganization implements Recorder.
func (r *StreamingRecorder) RecordReorganization(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reorganization.record(d)
}

// RequestStats returns a snapshot of the request-latency aggregate.
func (r *StreamingRecorder) RequestStats() LatencyStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.request
}

// ReorganizationStats returns a snapshot of the reorganization-latency
// aggregate.
func (r *StreamingRecorder) ReorganizationStats() LatencyStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reorganization
}
