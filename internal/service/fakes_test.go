package service

import (
	"context"
	"errors"
	"sync"

	dr "disaster_response"
	"disaster_response/internal/repository"
)

// fakeReadingRepo records inserted batches and serves canned List results.
type fakeReadingRepo struct {
	mu         sync.Mutex
	batches    [][]dr.DetectionRecord
	rowErrs    []repository.RowError
	insertErr  error
	listResp   []dr.DetectionRecord
	listErr    error
	lastFilter repository.ReadingFilter
}

func (f *fakeReadingRepo) InsertBatch(_ context.Context, recs []dr.DetectionRecord) ([]repository.RowError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, recs)
	return f.rowErrs, f.insertErr
}

func (f *fakeReadingRepo) List(_ context.Context, flt repository.ReadingFilter) ([]dr.DetectionRecord, error) {
	f.lastFilter = flt
	return f.listResp, f.listErr
}

type fakeAlertRepo struct {
	mu        sync.Mutex
	stored    []dr.Alert
	appendErr error
	clearErr  error
	lastLimit int
}

func (f *fakeAlertRepo) Append(_ context.Context, alerts []dr.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.stored = append(f.stored, alerts...)
	return nil
}

func (f *fakeAlertRepo) Recent(_ context.Context, limit int) ([]dr.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if limit > len(f.stored) {
		limit = len(f.stored)
	}
	return append([]dr.Alert(nil), f.stored[len(f.stored)-limit:]...), nil
}

func (f *fakeAlertRepo) Clear(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	n := int64(len(f.stored))
	f.stored = nil
	return n, nil
}

type fakeNotifier struct {
	name  string
	err   error
	calls [][]dr.Alert
}

func (n *fakeNotifier) Name() string { return n.name }

func (n *fakeNotifier) Notify(_ context.Context, alerts []dr.Alert) error {
	n.calls = append(n.calls, alerts)
	return n.err
}

// recordingObserver counts the events it sees.
type recordingObserver struct {
	mu       sync.Mutex
	batches  int
	sinks    []string
	alerts   int
	notifies map[string]int
	failures map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{notifies: map[string]int{}, failures: map[string]int{}}
}

func (o *recordingObserver) ObserveBatch(dr.BatchResult) {
	o.mu.Lock()
	o.batches++
	o.mu.Unlock()
}

func (o *recordingObserver) ObserveSink(status string) {
	o.mu.Lock()
	o.sinks = append(o.sinks, status)
	o.mu.Unlock()
}

func (o *recordingObserver) ObserveAlerts(a []dr.Alert) {
	o.mu.Lock()
	o.alerts += len(a)
	o.mu.Unlock()
}

func (o *recordingObserver) ObserveNotify(name string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifies[name]++
	if err != nil {
		o.failures[name]++
	}
}

var errBoom = errors.New("boom")

func readings(pairs ...float64) []dr.SensorReading {
	out := make([]dr.SensorReading, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, dr.SensorReading{
			Location:    "Zone " + string(rune('A'+i/2)),
			Temperature: pairs[i],
			SmokeLevel:  pairs[i+1],
			Timestamp:   "2025-01-11T10:30:00Z",
		})
	}
	return out
}
