package metadata

import "sync"

// Sink receives records produced by a metadata source.
// A source pushes at most one record per lookup call.
type Sink interface {
	Put(rec *Record)
}

// QueueSink is a channel-backed Sink, the shape most hosts use for result queues.
type QueueSink struct {
	ch chan *Record
}

// NewQueueSink creates a QueueSink with the given buffer capacity.
func NewQueueSink(capacity int) *QueueSink {
	return &QueueSink{ch: make(chan *Record, capacity)}
}

// Put enqueues rec, blocking while the buffer is full.
func (q *QueueSink) Put(rec *Record) {
	q.ch <- rec
}

// Records returns the receive side of the queue.
func (q *QueueSink) Records() <-chan *Record {
	return q.ch
}

// Close closes the queue. Put must not be called afterwards.
func (q *QueueSink) Close() {
	close(q.ch)
}

// SliceSink collects records in memory.
type SliceSink struct {
	mu      sync.Mutex
	records []*Record
}

// NewSliceSink creates an empty SliceSink.
func NewSliceSink() *SliceSink {
	return &SliceSink{}
}

// Put appends rec.
func (s *SliceSink) Put(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Records returns a copy of the collected records.
func (s *SliceSink) Records() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of collected records.
func (s *SliceSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
