package events

import (
	"strings"
	"testing"
)

func TestBus_EmitDispatchesInOrder(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var order []string
	bus.Subscribe(func(e Event) {
		order = append(order, "first:"+string(e.Type))
	})
	bus.Subscribe(func(e Event) {
		order = append(order, "second:"+string(e.Type))
	})

	bus.Emit(NewEvent(JobQueued, "main"))
	bus.Emit(NewEvent(JobStarted, "main"))

	want := []string{
		"first:job.queued", "second:job.queued",
		"first:job.started", "second:job.started",
	}
	if len(order) != len(want) {
		t.Fatalf("got %d dispatches, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBus_EmitStampsTime(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var got Event
	bus.Subscribe(func(e Event) { got = e })

	bus.Emit(NewEvent(RunStarted, ""))
	if got.Time.IsZero() {
		t.Error("expected Emit to stamp event time")
	}
}

func TestBus_EmitAfterCloseDropped(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(func(Event) { count++ })

	bus.Emit(NewEvent(JobQueued, "main"))
	bus.Close()
	bus.Emit(NewEvent(JobStarted, "main"))

	if count != 1 {
		t.Errorf("got %d dispatches, want 1 (post-close events dropped)", count)
	}
}

func TestEvent_String(t *testing.T) {
	e := NewEvent(JobCompleted, "thesis").WithRun(2)
	want := "[job.completed] thesis run=#2"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEvent_IsFailure(t *testing.T) {
	if !NewEvent(JobFailed, "x").IsFailure() {
		t.Error("job.failed should be a failure event")
	}
	if NewEvent(JobCompleted, "x").IsFailure() {
		t.Error("job.completed should not be a failure event")
	}
}

func TestLogHandler_Format(t *testing.T) {
	var buf strings.Builder
	h := LogHandler(LogConfig{Writer: &buf})

	h(NewEvent(JobRerun, "paper").WithRun(2))

	want := "[job.rerun] paper run=#2\n"
	if buf.String() != want {
		t.Errorf("log line = %q, want %q", buf.String(), want)
	}
}

func TestLogHandler_Error(t *testing.T) {
	var buf strings.Builder
	h := LogHandler(LogConfig{Writer: &buf})

	h(Event{Type: JobFailed, Job: "paper", Error: "exit status 1"})

	want := `[job.failed] paper error="exit status 1"` + "\n"
	if buf.String() != want {
		t.Errorf("log line = %q, want %q", buf.String(), want)
	}
}
