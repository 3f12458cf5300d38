package observability

import "time"

// Timer measures one operation and reports it to metrics.
type Timer struct {
	operation string
	start     time.Time
	metrics   Metrics
	tags      []Tag
}

// StartTimer starts timing operation.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records a successful run.
func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

// StopWithError records the duration and counts err as a failure.
func (t *Timer) StopWithError(err error) time.Duration {
	elapsed := time.Since(t.start)

	if t.metrics != nil {
		tags := append(append([]Tag(nil), t.tags...), T("operation", t.operation))
		t.metrics.Timing(MetricOperationDuration, elapsed, tags...)
		t.metrics.Counter(MetricOperationTotal, 1, tags...)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, tags...)
		}
	}
	return elapsed
}
