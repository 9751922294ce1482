package folio

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ---------------------------------------------------------------------------
// TestStatusReporter - Single-slot status
// ---------------------------------------------------------------------------

func TestStatusReporter_KeepsLatestOnly(t *testing.T) {
	t.Parallel()

	s := NewStatusReporter(nil)
	if got := s.Current(); got != (Status{}) {
		t.Errorf("initial status = %+v, want zero", got)
	}

	s.Set(MsgLoading, ToneInfo)
	s.Set("Loaded 2 projects.", ToneOK)

	want := Status{Message: "Loaded 2 projects.", Tone: ToneOK}
	if got := s.Current(); got != want {
		t.Errorf("Current = %+v, want %+v", got, want)
	}
}

func TestStatusReporter_LogsAtToneLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	s := NewStatusReporter(zap.New(core))

	s.Set("a", ToneInfo)
	s.Set("b", ToneOK)
	s.Set("c", ToneWarn)
	s.Set("d", ToneError)

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("got %d log entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("entry %d level = %v, want %v", i, e.Level, want[i])
		}
	}
}

func TestStatusMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		got, want string
	}{
		{loadedMessage(1), "Loaded 1 project."},
		{loadedMessage(0), "Loaded 0 projects."},
		{loadedMessage(3), "Loaded 3 projects."},
		{partialMessage(2, 1), "Loaded 2 projects; 1 failed."},
		{sampleMessage(1), "Loaded 1 sample project."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("message = %q, want %q", tt.got, tt.want)
		}
	}
}
