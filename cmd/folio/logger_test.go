package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     commonFlags
		wantInfo  bool
		wantDebug bool
	}{
		{"default", commonFlags{}, true, false},
		{"quiet", commonFlags{quiet: true}, false, false},
		{"verbose", commonFlags{verbose: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(&buf, tt.flags)
			logger.Debug("debug line")
			logger.Info("info line")
			logger.Error("error line")
			_ = logger.Sync()

			out := buf.String()
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if !strings.Contains(out, "error line") {
				t.Error("errors should always be logged")
			}
		})
	}
}
