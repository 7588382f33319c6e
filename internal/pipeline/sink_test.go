package pipeline_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"apidiff/internal/pipeline"
)

func TestRecorderAndEmit(t *testing.T) {
	var rec pipeline.Recorder
	pipeline.Emit(&rec, pipeline.Event{File: "a.h", Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	pipeline.Emit(nil, pipeline.Event{File: "ignored.h"})
	pipeline.Emit(&rec, pipeline.Event{File: "a.h", Stage: pipeline.StageCompare, Status: pipeline.StatusDone, Events: 3})

	want := []pipeline.Event{
		{File: "a.h", Stage: pipeline.StageParse, Status: pipeline.StatusWorking},
		{File: "a.h", Stage: pipeline.StageCompare, Status: pipeline.StatusDone, Events: 3},
	}
	if diff := cmp.Diff(want, rec.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan pipeline.Event, 1)
	pipeline.ChannelSink{Ch: ch}.OnEvent(pipeline.Event{File: "b.h"})
	if got := <-ch; got.File != "b.h" {
		t.Fatalf("got %+v", got)
	}
	// nil-канал не блокирует
	pipeline.ChannelSink{}.OnEvent(pipeline.Event{File: "c.h"})
}

func TestTimings(t *testing.T) {
	var tm pipeline.Timings
	tm.Add(pipeline.StageParse, 2*time.Millisecond)
	tm.Add(pipeline.StageParse, 3*time.Millisecond)
	tm.Add(pipeline.StageCompare, time.Millisecond)

	if !tm.Has(pipeline.StageParse) || tm.Has(pipeline.StageReport) {
		t.Fatal("Has reports wrong stages")
	}
	if got := tm.Duration(pipeline.StageParse); got != 5*time.Millisecond {
		t.Fatalf("parse = %v", got)
	}
	if got := tm.Sum(pipeline.StageParse, pipeline.StageCompare, pipeline.StageReport); got != 6*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}

	var nilTimings *pipeline.Timings
	nilTimings.Add(pipeline.StageWalk, time.Second)
}
