package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		emit    func(l *Logger)
		visible bool
	}{
		{"trace hidden without debug", false, func(l *Logger) { l.Trace().Msg("hello") }, false},
		{"trace visible with debug", true, func(l *Logger) { l.Trace().Msg("hello") }, true},
		{"warn visible without debug", false, func(l *Logger) { l.Warn().Msg("hello") }, true},
		{"error visible without debug", false, func(l *Logger) { l.Error().Msg("hello") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(NewWriter(&buf, tt.debug))
			if got := strings.Contains(buf.String(), "hello"); got != tt.visible {
				t.Fatalf("visible = %v, want %v (output %q)", got, tt.visible, buf.String())
			}
		})
	}
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, false).With("session", "abc").Info().Msg("x")
	if !strings.Contains(buf.String(), `"session":"abc"`) {
		t.Fatalf("missing session field in %q", buf.String())
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error().Msg("dropped")
}
