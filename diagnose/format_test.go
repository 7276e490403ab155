package diagnose

import (
	"strings"
	"testing"

	"github.com/wardcheck/ward/cast"
)

func TestDrainCompilerOutput(t *testing.T) {
	sink := NewSink()
	go func() {
		sink.Emit(Entry{Kind: Error, Position: cast.Position{Filename: "a.c", Line: 5}, Text: "need permission 'lock'"})
		sink.Close()
	}()
	var b strings.Builder
	sum := Drain(&b, sink, CompilerOutput)
	if sum.Errors != 1 || sum.Warnings != 0 {
		t.Fatalf("Summary = %+v", sum)
	}
	got := b.String()
	if !strings.Contains(got, "a.c:5: error: need permission 'lock'") {
		t.Errorf("got %q, want a compiler-style line", got)
	}
	if !strings.Contains(got, "Warnings: 0, Errors: 1") {
		t.Errorf("got %q, missing summary footer", got)
	}
}

func TestDrainHtmlOutput(t *testing.T) {
	sink := NewSink()
	go func() {
		sink.Emit(Entry{Kind: Warning, Text: "indirect call"})
		sink.Close()
	}()
	var b strings.Builder
	Drain(&b, sink, HtmlOutput)
	got := b.String()
	if !strings.HasPrefix(got, "<html><body><ul>") {
		t.Errorf("got %q, want html header prefix", got)
	}
	if !strings.Contains(got, `<li class="warning">indirect call</li>`) {
		t.Errorf("got %q, missing warning li", got)
	}
	if !strings.HasSuffix(got, "</ul></body></html>") {
		t.Errorf("got %q, want html footer suffix", got)
	}
}

func TestDrainHtmlEscapesText(t *testing.T) {
	sink := NewSink()
	go func() {
		sink.Emit(Entry{Kind: Note, Text: "a < b && c > d"})
		sink.Close()
	}()
	var b strings.Builder
	Drain(&b, sink, HtmlOutput)
	if got := b.String(); strings.Contains(got, "a < b") {
		t.Errorf("got %q, expected < to be escaped", got)
	}
}
