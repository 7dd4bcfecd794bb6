package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name  string
		json  bool
		debug bool
	}{
		{name: "console info"},
		{name: "json debug", json: true, debug: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.json, tc.debug)
			if err != nil {
				t.Fatalf("New(%v, %v) failed: %v", tc.json, tc.debug, err)
			}
			if tc.debug != l.Core().Enabled(zapcore.DebugLevel) {
				t.Errorf("debug level enabled = %v, want %v", !tc.debug, tc.debug)
			}
		})
	}
}

func TestTruncateForLog(t *testing.T) {
	for _, tc := range []struct {
		in    string
		limit int
		want  string
	}{
		{in: "short", limit: 10, want: "short"},
		{in: "  padded  ", limit: 10, want: "padded"},
		{in: "abcdefgh", limit: 4, want: "abcd..."},
		{in: "résumé text", limit: 6, want: "résumé..."},
		{in: "anything", limit: 0, want: ""},
		{in: "anything", limit: -1, want: ""},
	} {
		if got := TruncateForLog(tc.in, tc.limit); got != tc.want {
			t.Errorf("TruncateForLog(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}
