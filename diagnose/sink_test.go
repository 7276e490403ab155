package diagnose

import (
	"testing"
	"time"

	"github.com/wardcheck/ward/cast"
)

func TestSinkOrderingAndTerminator(t *testing.T) {
	sink := NewSink()
	go func() {
		sink.Emit(Entry{Kind: Note, Position: cast.Position{Filename: "a.c", Line: 1}, Text: "first"})
		sink.Emit(Entry{Kind: Warning, Position: cast.Position{Filename: "a.c", Line: 2}, Text: "second"})
		sink.Close()
	}()

	var got []Entry
	for {
		e, ok := sink.Next()
		if !ok {
			break
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(got), got)
	}
	if got[0].Text != "first" || got[1].Text != "second" {
		t.Errorf("got %v, want order [first second]", got)
	}
}

func TestSinkUnboundedDoesNotBlockProducer(t *testing.T) {
	sink := NewSink()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			sink.Emit(Entry{Kind: Note, Text: "x"})
		}
		sink.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer blocked on an unread sink")
	}

	count := 0
	for {
		_, ok := sink.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 10000 {
		t.Errorf("drained %d entries, want 10000", count)
	}
}
