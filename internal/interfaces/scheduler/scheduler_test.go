package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		input   string
		want    ScheduleTime
		wantErr bool
	}{
		{"06:00", ScheduleTime{6, 0}, false},
		{"23:59", ScheduleTime{23, 59}, false},
		{"9:30", ScheduleTime{9, 30}, false},
		{"24:00", ScheduleTime{}, true},
		{"12:60", ScheduleTime{}, true},
		{"noon", ScheduleTime{}, true},
		{"", ScheduleTime{}, true},
	}

	for _, tt := range tests {
		got, err := ParseScheduleTime(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseScheduleTime(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseScheduleTime(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScheduleTime(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestShouldRun(t *testing.T) {
	s := &Scheduler{scheduleTimes: []ScheduleTime{{6, 0}, {18, 30}}}

	at := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 16, hour, minute, 0, 0, time.UTC)
	}

	if s.shouldRun(at(7, 15)) {
		t.Error("expected no run outside schedule times")
	}
	if !s.shouldRun(at(6, 0)) {
		t.Error("expected run at scheduled time")
	}
	if s.shouldRun(at(6, 0)) {
		t.Error("expected no second run within the same minute")
	}
	if !s.shouldRun(at(18, 30)) {
		t.Error("expected run at second scheduled time")
	}
	if !s.shouldRun(at(6, 0).AddDate(0, 0, 1)) {
		t.Error("expected run at same time on the next day")
	}
}

type countingJob struct {
	mu    *sync.Mutex
	count *int
	fail  bool
}

func (j countingJob) Execute(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	*j.count++
	if j.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (j countingJob) UserID() string      { return "1" }
func (j countingJob) Description() string { return "counting job" }

func TestWorkerPoolExecutesAllJobs(t *testing.T) {
	var mu sync.Mutex
	count := 0

	pool := NewWorkerPool(3, 0, 10)
	pool.Start()

	jobs := make([]Job, 0, 8)
	for i := 0; i < 8; i++ {
		jobs = append(jobs, countingJob{mu: &mu, count: &count, fail: i%2 == 0})
	}
	pool.SubmitBatch(jobs)

	pool.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	if count != 8 {
		t.Errorf("expected 8 executed jobs, got %d", count)
	}
}

func TestWorkerPoolDropsWhenQueueFull(t *testing.T) {
	var mu sync.Mutex
	count := 0

	// No workers started, so the queue never drains.
	pool := NewWorkerPool(1, 0, 2)

	job := countingJob{mu: &mu, count: &count}
	if err := pool.Submit(job); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if err := pool.Submit(job); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if err := pool.Submit(job); err == nil {
		t.Error("expected error submitting to a full queue")
	}
}

func TestNewRequiresScheduleTimes(t *testing.T) {
	_, err := New(Config{WorkerCount: 1, QueueSize: 1})
	if err == nil {
		t.Error("expected error with no schedule times")
	}

	_, err = New(Config{ScheduleTimes: []string{"06:00", "bogus"}, WorkerCount: 1, QueueSize: 1})
	if err == nil {
		t.Error("expected error with invalid schedule time")
	}
}
